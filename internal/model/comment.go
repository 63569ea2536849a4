package model

import "time"

// swagger:model Comment
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
