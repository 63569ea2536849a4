package repository

import (
	"context"
	"errors"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/recordstore"
)

type SubmissionRepository struct {
	store *recordstore.Store
}

func NewSubmissionRepository(store *recordstore.Store) *SubmissionRepository {
	return &SubmissionRepository{store: store}
}

func (r *SubmissionRepository) GetAll(ctx context.Context) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.store.Read(ctx, SlotSubmissions, &subs, model.DefaultSubmissions())
	if errors.Is(err, recordstore.ErrCorrupted) {
		err = r.store.Reseed(ctx, SlotSubmissions, &subs, model.DefaultSubmissions())
	}
	return subs, err
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	subs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	return nil, util.ErrSubmissionNotFound
}

func (r *SubmissionRepository) FindByTaskID(ctx context.Context, taskID string) ([]model.Submission, error) {
	subs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Submission, 0)
	for _, s := range subs {
		if s.TaskID == taskID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *SubmissionRepository) FindByUserName(ctx context.Context, userName string) ([]model.Submission, error) {
	subs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Submission, 0)
	for _, s := range subs {
		if s.UserName == userName {
			result = append(result, s)
		}
	}
	return result, nil
}

// Create 头插新提交，最近的方案排在社区列表前面
func (r *SubmissionRepository) Create(ctx context.Context, sub model.Submission) error {
	return r.store.WithLock(func() error {
		subs, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		subs = append([]model.Submission{sub}, subs...)
		return r.store.Write(ctx, SlotSubmissions, subs)
	})
}

func (r *SubmissionRepository) Update(ctx context.Context, sub model.Submission) error {
	return r.store.WithLock(func() error {
		subs, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range subs {
			if subs[i].ID == sub.ID {
				subs[i] = sub
				return r.store.Write(ctx, SlotSubmissions, subs)
			}
		}
		return util.ErrSubmissionNotFound
	})
}

// UpvoteOnce 查重、计数加一和台账登记在同一临界区内完成：
// 同一用户的并发点赞只有一个能成功，其余拿到 ErrAlreadyUpvoted，
// 计数恰好加一。点赞台账只增不减，提交被删除后也不回收。
func (r *SubmissionRepository) UpvoteOnce(ctx context.Context, userName, id string) (*model.Submission, error) {
	var updated *model.Submission
	err := r.store.WithLock(func() error {
		var votes []model.UpvoteRecord
		if err := r.store.Read(ctx, SlotUpvotes, &votes, []model.UpvoteRecord{}); err != nil {
			if !errors.Is(err, recordstore.ErrCorrupted) {
				return err
			}
			if err := r.store.Reseed(ctx, SlotUpvotes, &votes, []model.UpvoteRecord{}); err != nil {
				return err
			}
		}
		for _, v := range votes {
			if v.UserName == userName && v.SubmissionID == id {
				return util.ErrAlreadyUpvoted
			}
		}

		subs, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range subs {
			if subs[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return util.ErrSubmissionNotFound
		}

		subs[idx].Upvotes++
		if err := r.store.Write(ctx, SlotSubmissions, subs); err != nil {
			return err
		}

		votes = append(votes, model.UpvoteRecord{UserName: userName, SubmissionID: id})
		if err := r.store.Write(ctx, SlotUpvotes, votes); err != nil {
			return err
		}
		updated = &subs[idx]
		return nil
	})
	return updated, err
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	return r.store.WithLock(func() error {
		subs, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		kept := subs[:0]
		for _, s := range subs {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		return r.store.Write(ctx, SlotSubmissions, kept)
	})
}
