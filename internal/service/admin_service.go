package service

import (
	"context"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/pkg/logger"
	"opsnexus_backend/pkg/recordstore"
)

// DatabaseDump 全量数据快照，管理后台的数据库检查视图
type DatabaseDump struct {
	Users       []model.User       `json:"users"`
	Tasks       []model.Task       `json:"tasks"`
	Submissions []model.Submission `json:"submissions"`
	Comments    []model.Comment    `json:"comments"`
}

type AdminService struct {
	store       *recordstore.Store
	userRepo    *repository.UserRepository
	taskRepo    *repository.TaskRepository
	subRepo     *repository.SubmissionRepository
	commentRepo *repository.CommentRepository
}

func NewAdminService(store *recordstore.Store, userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, subRepo *repository.SubmissionRepository, commentRepo *repository.CommentRepository) *AdminService {
	return &AdminService{
		store:       store,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		subRepo:     subRepo,
		commentRepo: commentRepo,
	}
}

// DumpDatabase 导出全部集合。用户记录脱敏后输出，
// 管理视图也不展示明文密码。
func (s *AdminService) DumpDatabase(ctx context.Context) (*DatabaseDump, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}

	tasks, err := s.taskRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &DatabaseDump{
		Users:       users,
		Tasks:       tasks,
		Submissions: subs,
		Comments:    comments,
	}, nil
}

// ResetDatabase 清空全部 slot。下一次读取会重新播种默认数据，
// 所有注册用户和社区内容都会丢失。
func (s *AdminService) ResetDatabase(ctx context.Context) error {
	if err := s.store.Clear(ctx, repository.AllSlots...); err != nil {
		return err
	}
	logger.Log.Warn("Database reset, all slots cleared")
	return nil
}
