package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	taskRepo    *repository.TaskRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, taskRepo *repository.TaskRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, taskRepo: taskRepo}
}

// ListForTask 任务讨论串，按发表时间正序
func (s *CommentService) ListForTask(ctx context.Context, taskID string) ([]model.Comment, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.Before(comments[j].Timestamp)
	})
	return comments, nil
}

func (s *CommentService) Create(ctx context.Context, userName, taskID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("comment text is required")
	}
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        model.GenerateID(),
		TaskID:    taskID,
		UserName:  userName,
		Text:      text,
		Timestamp: timeNow(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) Delete(ctx context.Context, claims *util.Claims, id string) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserName != claims.Username && claims.Role != model.RoleAdmin {
		return util.ErrPermissionDenied
	}
	return s.commentRepo.Delete(ctx, id)
}
