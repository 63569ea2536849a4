package repository

import (
	"context"
	"errors"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/recordstore"
)

type UserRepository struct {
	store *recordstore.Store
}

func NewUserRepository(store *recordstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.store.Read(ctx, SlotUsers, &users, model.DefaultUsers())
	if errors.Is(err, recordstore.ErrCorrupted) {
		err = r.store.Reseed(ctx, SlotUsers, &users, model.DefaultUsers())
	}
	return users, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, util.ErrUserNotFound
}

// Create 追加新用户。用户名唯一性在所有写入路径上统一校验。
func (r *UserRepository) Create(ctx context.Context, user model.User) error {
	return r.store.WithLock(func() error {
		users, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].Username == user.Username {
				return util.ErrUsernameTaken
			}
		}
		users = append(users, user)
		return r.store.Write(ctx, SlotUsers, users)
	})
}

// Update 按 ID 原地替换。记录不存在时返回 ErrUserNotFound，不做隐式插入。
func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	return r.store.WithLock(func() error {
		users, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].Username == user.Username && users[i].ID != user.ID {
				return util.ErrUsernameTaken
			}
		}
		for i := range users {
			if users[i].ID == user.ID {
				users[i] = user
				return r.store.Write(ctx, SlotUsers, users)
			}
		}
		return util.ErrUserNotFound
	})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.WithLock(func() error {
		users, err := r.GetAll(ctx)
		if err != nil {
			return err
		}
		kept := users[:0]
		for _, u := range users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		return r.store.Write(ctx, SlotUsers, kept)
	})
}

// UpdateUsernameRefs 用户改名后改写所有集合里的用户名冗余副本：
// Task.author、Submission.userName、Comment.userName 以及点赞台账。
// 三个集合在同一把锁内改写，进程内不会观察到改了一半的状态。
func (r *UserRepository) UpdateUsernameRefs(ctx context.Context, oldName, newName string) error {
	return r.store.WithLock(func() error {
		var tasks []model.Task
		if err := r.store.Read(ctx, SlotTasks, &tasks, model.DefaultTasks()); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		for i := range tasks {
			if tasks[i].Author == oldName {
				tasks[i].Author = newName
			}
		}
		if err := r.store.Write(ctx, SlotTasks, tasks); err != nil {
			return err
		}

		var subs []model.Submission
		if err := r.store.Read(ctx, SlotSubmissions, &subs, model.DefaultSubmissions()); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		for i := range subs {
			if subs[i].UserName == oldName {
				subs[i].UserName = newName
			}
		}
		if err := r.store.Write(ctx, SlotSubmissions, subs); err != nil {
			return err
		}

		var comments []model.Comment
		if err := r.store.Read(ctx, SlotComments, &comments, model.DefaultComments()); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		for i := range comments {
			if comments[i].UserName == oldName {
				comments[i].UserName = newName
			}
		}
		if err := r.store.Write(ctx, SlotComments, comments); err != nil {
			return err
		}

		var votes []model.UpvoteRecord
		if err := r.store.Read(ctx, SlotUpvotes, &votes, []model.UpvoteRecord{}); err != nil && !errors.Is(err, recordstore.ErrCorrupted) {
			return err
		}
		for i := range votes {
			if votes[i].UserName == oldName {
				votes[i].UserName = newName
			}
		}
		return r.store.Write(ctx, SlotUpvotes, votes)
	})
}
