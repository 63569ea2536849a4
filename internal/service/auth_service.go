package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Register 创建新账号并签发令牌。携带正确管理员邀请码的注册获得 admin 角色。
// 密码按原样保存，登录时做精确比对。
func (s *AuthService) Register(ctx context.Context, username, password, adminCode string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, "", errors.New("username must be 3-20 characters, letters, digits and underscores only")
	}
	if len(password) < 6 {
		return nil, "", errors.New("password must be at least 6 characters")
	}

	role := model.RoleUser
	if adminCode != "" && s.cfg.Auth.AdminCodeHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminCodeHash), []byte(adminCode)); err == nil {
			role = model.RoleAdmin
		}
	}

	user := model.User{
		ID:             model.GenerateID(),
		Username:       username,
		Password:       password,
		Role:           role,
		AvatarURL:      fmt.Sprintf("https://picsum.photos/100/100?random=%d", rand.Intn(1000)),
		SolutionsCount: 0,
		Badges:         []string{"Rising Star"},
		TotalPoints:    0,
		JoinedAt:       time.Now().Format("2006-01-02"),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(&user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return &user, token, nil
}

// Login 校验用户名和密码。用户不存在和密码错误返回同一个错误，
// 不向调用方泄露账号是否存在；失败路径不产生任何写入。
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.Password != password {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User logged in", zap.String("username", user.Username))
	return user, token, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
