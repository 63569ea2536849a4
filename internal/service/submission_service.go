package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/logger"

	"go.uber.org/zap"
)

func timeNow() time.Time {
	return time.Now()
}

// SubmissionInput 提交方案的入参
type SubmissionInput struct {
	RepoLink      string
	ScreenshotURL string
	Description   string
}

type SubmissionService struct {
	subRepo  *repository.SubmissionRepository
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
}

func NewSubmissionService(subRepo *repository.SubmissionRepository, taskRepo *repository.TaskRepository, userRepo *repository.UserRepository) *SubmissionService {
	return &SubmissionService{subRepo: subRepo, taskRepo: taskRepo, userRepo: userRepo}
}

// ListForTask 某个任务下的全部提交，按点赞数降序
func (s *SubmissionService) ListForTask(ctx context.Context, taskID string) ([]model.Submission, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	subs, err := s.subRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Upvotes > subs[j].Upvotes
	})
	return subs, nil
}

// Create 为任务提交方案。任务标题在此刻复制进提交记录，
// 同时给提交者累加任务积分并加一次解题计数。
func (s *SubmissionService) Create(ctx context.Context, userName, taskID string, input SubmissionInput) (*model.Submission, error) {
	if strings.TrimSpace(input.RepoLink) == "" {
		return nil, errors.New("repoLink is required")
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	sub := model.Submission{
		ID:            model.GenerateID(),
		TaskID:        task.ID,
		TaskTitle:     task.Title,
		UserName:      userName,
		RepoLink:      strings.TrimSpace(input.RepoLink),
		ScreenshotURL: input.ScreenshotURL,
		Timestamp:     timeNow(),
		Upvotes:       0,
		Description:   input.Description,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	// 积分入账失败不回滚提交，只记日志
	if user, err := s.userRepo.FindByUsername(ctx, userName); err == nil {
		user.TotalPoints += task.Points
		user.SolutionsCount++
		if err := s.userRepo.Update(ctx, *user); err != nil {
			logger.Log.Error("Failed to award points for submission",
				zap.String("submission_id", sub.ID),
				zap.Error(err))
		}
	}

	logger.Log.Info("Submission created",
		zap.String("submission_id", sub.ID),
		zap.String("task_id", taskID),
		zap.String("user", userName))
	return &sub, nil
}

func (s *SubmissionService) Delete(ctx context.Context, claims *util.Claims, id string) error {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.UserName != claims.Username && claims.Role != model.RoleAdmin {
		return util.ErrPermissionDenied
	}
	return s.subRepo.Delete(ctx, id)
}

// Upvote 给提交点赞。每个用户对同一条提交只能点一次，
// 重复点赞返回 ErrAlreadyUpvoted 且计数不变。
func (s *SubmissionService) Upvote(ctx context.Context, userName, submissionID string) (*model.Submission, error) {
	return s.subRepo.UpvoteOnce(ctx, userName, submissionID)
}

func (s *SubmissionService) ListByUser(ctx context.Context, userName string) ([]model.Submission, error) {
	return s.subRepo.FindByUserName(ctx, userName)
}
