package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/logger"
	"opsnexus_backend/pkg/recordstore"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type testEnv struct {
	store    *recordstore.Store
	users    *repository.UserRepository
	tasks    *repository.TaskRepository
	subs     *repository.SubmissionRepository
	comments *repository.CommentRepository
	cfg      *config.Config
}

func newTestEnv() *testEnv {
	store := recordstore.NewStore(recordstore.NewMemoryBackend(), nil)
	return &testEnv{
		store:    store,
		users:    repository.NewUserRepository(store),
		tasks:    repository.NewTaskRepository(store),
		subs:     repository.NewSubmissionRepository(store),
		comments: repository.NewCommentRepository(store),
		cfg: &config.Config{
			JWT: config.JWTConfig{
				Secret:     "test-secret-not-for-production-use",
				ExpireTime: time.Hour,
			},
		},
	}
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.users, env.cfg)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "new_builder", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %s, want user", user.Role)
	}
	if len(user.Badges) != 1 || user.Badges[0] != "Rising Star" {
		t.Errorf("new user badges = %v", user.Badges)
	}
	if user.TotalPoints != 0 || user.SolutionsCount != 0 {
		t.Errorf("new user should start at zero: %+v", user)
	}

	claims, err := util.ParseJWT(token, env.cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Username != "new_builder" {
		t.Errorf("token username = %s", claims.Username)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.users, env.cfg)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "ab", "secret123", ""); err == nil {
		t.Error("short username should be rejected")
	}
	if _, _, err := svc.Register(ctx, "valid_name", "12345", ""); err == nil {
		t.Error("short password should be rejected")
	}
	if _, _, err := svc.Register(ctx, "has spaces", "secret123", ""); err == nil {
		t.Error("username with spaces should be rejected")
	}

	_, _, err := svc.Register(ctx, "devops_ninja", "secret123", "")
	if !errors.Is(err, util.ErrUsernameTaken) {
		t.Errorf("duplicate username: expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterAdminCode(t *testing.T) {
	env := newTestEnv()
	hash, _ := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	env.cfg.Auth.AdminCodeHash = string(hash)
	svc := NewAuthService(env.users, env.cfg)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "boss_user", "secret123", "letmein")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("correct admin code should grant admin, got %s", user.Role)
	}

	// 错误的邀请码注册为普通用户，不报错
	user2, _, err := svc.Register(ctx, "wannabe", "secret123", "wrong")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user2.Role != model.RoleUser {
		t.Errorf("wrong admin code must not grant admin, got %s", user2.Role)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.users, env.cfg)
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "devops_ninja", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "devops_ninja" || token == "" {
		t.Fatalf("unexpected login result: %+v", user)
	}

	if _, _, err := svc.Login(ctx, "devops_ninja", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "no_such_user", "password123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	// 失败的登录不产生任何写入
	users, _ := env.users.GetAll(ctx)
	if len(users) != 10 {
		t.Errorf("failed login mutated store: %d users", len(users))
	}
}

func TestUpdateProfileRename(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.subs, env.cfg)
	ctx := context.Background()

	// 播种所有集合，改名要改写它们
	env.tasks.GetAll(ctx)
	env.subs.GetAll(ctx)
	env.comments.GetAll(ctx)

	newName := "ninja_prime"
	user, token, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{Username: &newName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.Username != "ninja_prime" {
		t.Fatalf("username = %s", user.Username)
	}

	claims, err := util.ParseJWT(token, env.cfg.JWT.Secret)
	if err != nil || claims.Username != "ninja_prime" {
		t.Errorf("reissued token should carry new username: %v", err)
	}

	t2, _ := env.tasks.FindByID(ctx, "t2")
	if t2.Author != "ninja_prime" {
		t.Errorf("task author not rewritten: %s", t2.Author)
	}
	s3, _ := env.subs.FindByID(ctx, "s3")
	if s3.UserName != "ninja_prime" {
		t.Errorf("submission not rewritten: %s", s3.UserName)
	}
}

func TestUpdateProfileRenameToTakenName(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.subs, env.cfg)
	ctx := context.Background()
	env.tasks.GetAll(ctx)

	taken := "cloud_guru"
	_, _, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{Username: &taken})
	if !errors.Is(err, util.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// 整个更新不生效
	u1, _ := env.users.FindByID(ctx, "u1")
	if u1.Username != "devops_ninja" {
		t.Errorf("failed rename mutated user: %s", u1.Username)
	}
	t2, _ := env.tasks.FindByID(ctx, "t2")
	if t2.Author != "devops_ninja" {
		t.Errorf("failed rename mutated refs: %s", t2.Author)
	}
}

func TestLeaderboardOrder(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.subs, env.cfg)

	users, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if users[0].Username != "cloud_guru" || users[0].TotalPoints != 1500 {
		t.Errorf("top user = %s (%d)", users[0].Username, users[0].TotalPoints)
	}
	for i := 1; i < len(users); i++ {
		if users[i].TotalPoints > users[i-1].TotalPoints {
			t.Fatalf("leaderboard not sorted at %d", i)
		}
	}
	for _, u := range users {
		if u.Password != "" {
			t.Fatalf("leaderboard leaked password for %s", u.Username)
		}
	}
}

func TestSubmissionCreateAwardsPoints(t *testing.T) {
	env := newTestEnv()
	svc := NewSubmissionService(env.subs, env.tasks, env.users)
	ctx := context.Background()

	sub, err := svc.Create(ctx, "cloud_walker", "t1", SubmissionInput{
		RepoLink: "https://github.com/cloud_walker/docker-task",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sub.TaskTitle != "Dockerize a Node.js App" {
		t.Errorf("taskTitle not copied: %s", sub.TaskTitle)
	}

	subs, _ := env.subs.GetAll(ctx)
	if subs[0].ID != sub.ID {
		t.Errorf("new submission should be first")
	}

	// t1 是 10 分的任务
	user, _ := env.users.FindByUsername(ctx, "cloud_walker")
	if user.TotalPoints != 900 {
		t.Errorf("points = %d, want 900", user.TotalPoints)
	}
	if user.SolutionsCount != 29 {
		t.Errorf("solutionsCount = %d, want 29", user.SolutionsCount)
	}
}

func TestSubmissionCreateUnknownTask(t *testing.T) {
	env := newTestEnv()
	svc := NewSubmissionService(env.subs, env.tasks, env.users)

	_, err := svc.Create(context.Background(), "cloud_walker", "missing", SubmissionInput{RepoLink: "https://x"})
	if !errors.Is(err, util.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpvoteDeduplicates(t *testing.T) {
	env := newTestEnv()
	svc := NewSubmissionService(env.subs, env.tasks, env.users)
	ctx := context.Background()

	sub, err := svc.Upvote(ctx, "cloud_walker", "s1")
	if err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	if sub.Upvotes != 6 {
		t.Fatalf("upvotes = %d, want 6", sub.Upvotes)
	}

	if _, err := svc.Upvote(ctx, "cloud_walker", "s1"); !errors.Is(err, util.ErrAlreadyUpvoted) {
		t.Fatalf("expected ErrAlreadyUpvoted, got %v", err)
	}

	// 重复点赞不改变计数
	again, _ := env.subs.FindByID(ctx, "s1")
	if again.Upvotes != 6 {
		t.Errorf("duplicate upvote changed count: %d", again.Upvotes)
	}

	// 另一个用户仍然可以点
	sub2, err := svc.Upvote(ctx, "shell_wizard", "s1")
	if err != nil || sub2.Upvotes != 7 {
		t.Errorf("second voter: %v, upvotes %d", err, sub2.Upvotes)
	}
}

func TestUpvoteConcurrentSameUser(t *testing.T) {
	env := newTestEnv()
	svc := NewSubmissionService(env.subs, env.tasks, env.users)
	ctx := context.Background()

	const workers = 30
	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Upvote(ctx, "cloud_walker", "s1"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly 1 successful upvote, got %d", success)
	}
	s1, _ := env.subs.FindByID(ctx, "s1")
	if s1.Upvotes != 6 {
		t.Fatalf("s1 upvotes = %d, want 6", s1.Upvotes)
	}
}

func TestTaskDeletePermissions(t *testing.T) {
	env := newTestEnv()
	svc := NewTaskService(env.tasks)
	ctx := context.Background()

	outsider := &util.Claims{UserID: "u2", Username: "cloud_walker", Role: model.RoleUser}
	if err := svc.Delete(ctx, outsider, "t1"); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("outsider delete: expected ErrPermissionDenied, got %v", err)
	}

	author := &util.Claims{UserID: "u5", Username: "cloud_guru", Role: model.RoleUser}
	if err := svc.Delete(ctx, author, "t1"); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	admin := &util.Claims{UserID: "u1", Username: "devops_ninja", Role: model.RoleAdmin}
	if err := svc.Delete(ctx, admin, "t4"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestTaskCreateDefaultsPointsByDifficulty(t *testing.T) {
	env := newTestEnv()
	svc := NewTaskService(env.tasks)
	ctx := context.Background()

	task, err := svc.Create(ctx, "cloud_walker", TaskInput{
		Title:       "Harden an Nginx config",
		Description: "Disable weak ciphers and add security headers.",
		Difficulty:  model.Advanced,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Points != 50 {
		t.Errorf("advanced default points = %d, want 50", task.Points)
	}
	if task.Author != "cloud_walker" {
		t.Errorf("author = %s", task.Author)
	}

	if _, err := svc.Create(ctx, "cloud_walker", TaskInput{
		Title:       "Bad",
		Description: "Bad",
		Difficulty:  "Impossible",
	}); err == nil {
		t.Error("invalid difficulty should be rejected")
	}
}

func TestCommentOrderingAndDelete(t *testing.T) {
	env := newTestEnv()
	svc := NewCommentService(env.comments, env.tasks)
	ctx := context.Background()

	created, err := svc.Create(ctx, "cloud_walker", "t1", "thanks for the tips")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	comments, err := svc.ListForTask(ctx, "t1")
	if err != nil {
		t.Fatalf("ListForTask: %v", err)
	}
	if comments[len(comments)-1].ID != created.ID {
		t.Errorf("newest comment should be last in thread")
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].Timestamp.Before(comments[i-1].Timestamp) {
			t.Fatalf("comments not in chronological order at %d", i)
		}
	}

	outsider := &util.Claims{UserID: "u8", Username: "shell_wizard", Role: model.RoleUser}
	if err := svc.Delete(ctx, outsider, created.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	owner := &util.Claims{UserID: "u2", Username: "cloud_walker", Role: model.RoleUser}
	if err := svc.Delete(ctx, owner, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestChatOfflineWithoutKey(t *testing.T) {
	svc := NewChatService(config.AIConfig{})

	answer := svc.Ask(context.Background(), "how do I write a Dockerfile?", nil)
	if answer != chatKeyMissingReply {
		t.Fatalf("expected offline reply, got %q", answer)
	}
}

func TestChatUpdateConfigTakesEffect(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k2" {
			t.Errorf("Authorization = %q, want reloaded key", got)
		}
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{{Message: ChatMessage{Role: "assistant", Content: "Use a multi-stage build."}}},
		})
	}))
	defer upstream.Close()

	// 启动时没有 key，助手离线
	svc := NewChatService(config.AIConfig{})
	if answer := svc.Ask(context.Background(), "Dockerfile tips?", nil); answer != chatKeyMissingReply {
		t.Fatalf("expected offline reply before reload, got %q", answer)
	}

	// 热加载配置后无需重启即可使用
	svc.UpdateConfig(config.AIConfig{BaseURL: upstream.URL, APIKey: "k2", Model: "test-model"})
	answer := svc.Ask(context.Background(), "Dockerfile tips?", nil)
	if answer != "Use a multi-stage build." {
		t.Fatalf("expected upstream answer after reload, got %q", answer)
	}
}

func TestAdminResetDatabase(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.store, env.users, env.tasks, env.subs, env.comments)
	ctx := context.Background()

	// 改点数据再重置
	env.users.Create(ctx, model.User{ID: "x1", Username: "temp_user", Password: "p"})
	if err := svc.ResetDatabase(ctx); err != nil {
		t.Fatalf("ResetDatabase: %v", err)
	}

	users, _ := env.users.GetAll(ctx)
	if len(users) != 10 {
		t.Fatalf("reset should restore seed data, got %d users", len(users))
	}

	dump, err := svc.DumpDatabase(ctx)
	if err != nil {
		t.Fatalf("DumpDatabase: %v", err)
	}
	if len(dump.Tasks) != 6 || len(dump.Submissions) != 3 || len(dump.Comments) != 2 {
		t.Errorf("unexpected dump sizes: %d tasks %d subs %d comments",
			len(dump.Tasks), len(dump.Submissions), len(dump.Comments))
	}
	for _, u := range dump.Users {
		if u.Password != "" {
			t.Fatalf("dump leaked password for %s", u.Username)
		}
	}
}
