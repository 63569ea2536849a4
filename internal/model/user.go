package model

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// swagger:model User
// 密码以明文保存并参与 JSON 往返（单机练习平台，认证不是安全边界），
// 对外输出一律经过 Sanitized。
type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Password       string   `json:"password,omitempty"`
	Role           UserRole `json:"role"`
	AvatarURL      string   `json:"avatarUrl"`
	SolutionsCount int      `json:"solutionsCount"`
	Badges         []string `json:"badges"`
	TotalPoints    int      `json:"totalPoints"`
	Bio            string   `json:"bio,omitempty"`
	Location       string   `json:"location,omitempty"`
	Website        string   `json:"website,omitempty"`
	JoinedAt       string   `json:"joinedAt,omitempty"`
}

// Sanitized 返回去掉凭据字段的副本，所有 API 响应走这里
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func GenerateID() string {
	return uuid.New().String()
}
