package service

import (
	"context"
	"errors"
	"strings"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/logger"

	"go.uber.org/zap"
)

// TaskFilter 列表筛选条件，零值字段不参与过滤
type TaskFilter struct {
	Difficulty string
	Category   string
	Tool       string
	Search     string
}

// TaskInput 创建任务的入参
type TaskInput struct {
	Title       string
	Description string
	Difficulty  model.Difficulty
	Tools       []string
	Category    string
	Points      int
}

type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	tasks, err := s.taskRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Task, 0, len(tasks))
	search := strings.ToLower(filter.Search)
	for _, t := range tasks {
		if filter.Difficulty != "" && string(t.Difficulty) != filter.Difficulty {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Tool != "" && !containsTool(t.Tools, filter.Tool) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func containsTool(tools []string, tool string) bool {
	for _, t := range tools {
		if strings.EqualFold(t, tool) {
			return true
		}
	}
	return false
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// Create 发布新任务，作者取当前用户。未指定积分时按难度给默认值。
func (s *TaskService) Create(ctx context.Context, author string, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, errors.New("description is required")
	}
	if !model.ValidDifficulty(input.Difficulty) {
		return nil, errors.New("difficulty must be Beginner, Intermediate or Advanced")
	}

	points := input.Points
	if points <= 0 {
		switch input.Difficulty {
		case model.Beginner:
			points = 10
		case model.Intermediate:
			points = 25
		case model.Advanced:
			points = 50
		}
	}

	task := model.Task{
		ID:          model.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Difficulty:  input.Difficulty,
		Tools:       input.Tools,
		Category:    input.Category,
		Points:      points,
		Author:      author,
		CreatedAt:   timeNow(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	logger.Log.Info("Task created",
		zap.String("task_id", task.ID),
		zap.String("author", author))
	return &task, nil
}

// Delete 删除任务，仅作者本人或管理员可以执行，提交和评论级联清理
func (s *TaskService) Delete(ctx context.Context, claims *util.Claims, id string) error {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task.Author != claims.Username && claims.Role != model.RoleAdmin {
		return util.ErrPermissionDenied
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Task deleted",
		zap.String("task_id", id),
		zap.String("by", claims.Username))
	return nil
}
