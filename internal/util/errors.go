package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrAlreadyUpvoted     = errors.New("submission already upvoted")
	ErrPermissionDenied   = errors.New("permission denied")
)
