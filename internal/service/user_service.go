package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProfileUpdate 资料更新请求，nil 字段表示不修改
type ProfileUpdate struct {
	Username  *string
	AvatarURL *string
	Bio       *string
	Location  *string
	Website   *string
}

// PublicProfile 公开主页数据：脱敏用户信息加上其提交历史
type PublicProfile struct {
	User        model.User         `json:"user"`
	Submissions []model.Submission `json:"submissions"`
}

type UserService struct {
	userRepo *repository.UserRepository
	subRepo  *repository.SubmissionRepository
	cfg      *config.Config
}

func NewUserService(userRepo *repository.UserRepository, subRepo *repository.SubmissionRepository, cfg *config.Config) *UserService {
	return &UserService{userRepo: userRepo, subRepo: subRepo, cfg: cfg}
}

// UpdateProfile 更新当前用户资料。改用户名时会改写所有集合里的
// 用户名冗余副本，并重新签发令牌；新名字被占用则整个更新不生效。
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	oldName := user.Username
	if update.Username != nil {
		newName := strings.TrimSpace(*update.Username)
		if !usernamePattern.MatchString(newName) {
			return nil, "", errors.New("username must be 3-20 characters, letters, digits and underscores only")
		}
		user.Username = newName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Website != nil {
		user.Website = *update.Website
	}

	if err := s.userRepo.Update(ctx, *user); err != nil {
		return nil, "", err
	}

	if user.Username != oldName {
		if err := s.userRepo.UpdateUsernameRefs(ctx, oldName, user.Username); err != nil {
			return nil, "", err
		}
		logger.Log.Info("Username changed, references rewritten",
			zap.String("old", oldName),
			zap.String("new", user.Username))
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.FindByUserName(ctx, username)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{User: user.Sanitized(), Submissions: subs}, nil
}

// Leaderboard 按总积分降序返回所有用户（脱敏）
func (s *UserService) Leaderboard(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].TotalPoints > users[j].TotalPoints
	})
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("User deleted by admin", zap.String("user_id", id))
	return nil
}
