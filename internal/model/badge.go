package model

type BadgeTier string

const (
	Gold   BadgeTier = "Gold"
	Silver BadgeTier = "Silver"
	Bronze BadgeTier = "Bronze"
)

// swagger:model Badge
// 徽章目录是固定数据，用户记录里只存徽章名，不校验获得条件
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tier        BadgeTier `json:"tier"`
	Icon        string    `json:"icon"`
}
