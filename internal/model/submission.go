package model

import "time"

// swagger:model Submission
// taskTitle 在创建时从任务复制，后续任务改名不回写
type Submission struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"taskId"`
	TaskTitle     string    `json:"taskTitle"`
	UserName      string    `json:"userName"`
	RepoLink      string    `json:"repoLink"`
	ScreenshotURL string    `json:"screenshotUrl,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Upvotes       int       `json:"upvotes"`
	Description   string    `json:"description,omitempty"`
}

// UpvoteRecord 记录某个用户已给某条提交点过赞，用于去重
type UpvoteRecord struct {
	UserName     string `json:"userName"`
	SubmissionID string `json:"submissionId"`
}
