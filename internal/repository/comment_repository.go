package repository

import (
	"context"
	"errors"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/recordstore"
)

type CommentRepository struct {
	store *recordstore.Store
}

func NewCommentRepository(store *recordstore.Store) *CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) GetAll(ctx context.Context) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.store.Read(ctx, SlotComments, &comments, model.DefaultComments())
	if errors.Is(err, recordstore.ErrCorrupted) {
		err = r.store.Reseed(ctx, SlotComments, &comments, model.DefaultComments())
	}
	return comments, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comments, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i], nil
		}
	}
	return nil, util.ErrCommentNotFound
}

func (r *CommentRepository) FindByTaskID(ctx context.Context, taskID string) ([]model.Comment, error) {
	comments, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Comment, 0)
	for _, cm := range comments {
		if cm.TaskID == taskID {
			result = append(result, cm)
		}
	}
	return result, nil
}

// Create 尾插新评论，讨论串按时间正序展示
func (r *CommentRepository) Create(ctx context.Context, comment model.Comment) error {
	return r.store.WithLock(func() error {
		comments, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		comments = append(comments, comment)
		return r.store.Write(ctx, SlotComments, comments)
	})
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return r.store.WithLock(func() error {
		comments, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		kept := comments[:0]
		for _, cm := range comments {
			if cm.ID != id {
				kept = append(kept, cm)
			}
		}
		return r.store.Write(ctx, SlotComments, kept)
	})
}
