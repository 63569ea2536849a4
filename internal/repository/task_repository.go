package repository

import (
	"context"
	"errors"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/recordstore"
)

type TaskRepository struct {
	store *recordstore.Store
}

func NewTaskRepository(store *recordstore.Store) *TaskRepository {
	return &TaskRepository{store: store}
}

// GetAll 返回全部任务，最新发布的在最前
func (r *TaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.store.Read(ctx, SlotTasks, &tasks, model.DefaultTasks())
	if errors.Is(err, recordstore.ErrCorrupted) {
		err = r.store.Reseed(ctx, SlotTasks, &tasks, model.DefaultTasks())
	}
	return tasks, err
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, util.ErrTaskNotFound
}

// Create 头插新任务，保持列表按发布时间倒序
func (r *TaskRepository) Create(ctx context.Context, task model.Task) error {
	return r.store.WithLock(func() error {
		tasks, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		tasks = append([]model.Task{task}, tasks...)
		return r.store.Write(ctx, SlotTasks, tasks)
	})
}

// Delete 删除任务并级联清理其下的提交和评论
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.store.WithLock(func() error {
		tasks, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if err := r.store.Write(ctx, SlotTasks, kept); err != nil {
			return err
		}

		var subs []model.Submission
		if err := r.store.Read(ctx, SlotSubmissions, &subs, model.DefaultSubmissions()); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		keptSubs := subs[:0]
		for _, s := range subs {
			if s.TaskID != id {
				keptSubs = append(keptSubs, s)
			}
		}
		if err := r.store.Write(ctx, SlotSubmissions, keptSubs); err != nil {
			return err
		}

		var comments []model.Comment
		if err := r.store.Read(ctx, SlotComments, &comments, model.DefaultComments()); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		keptComments := comments[:0]
		for _, cm := range comments {
			if cm.TaskID != id {
				keptComments = append(keptComments, cm)
			}
		}
		return r.store.Write(ctx, SlotComments, keptComments)
	})
}
