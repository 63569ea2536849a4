package model

import "time"

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// swagger:model Task
// author 是发布者用户名的冗余副本，不是外键；用户改名时由
// UserRepository.UpdateUsernameRefs 统一改写。
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Tools       []string   `json:"tools"`
	Category    string     `json:"category"`
	Points      int        `json:"points"`
	Author      string     `json:"author,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}
