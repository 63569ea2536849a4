package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/middleware"
	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/service"
	"opsnexus_backend/pkg/logger"
	"opsnexus_backend/pkg/recordstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestRouter 用内存后端装配一套最小路由
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-not-for-production-use",
			ExpireTime: time.Hour,
		},
	}

	store := recordstore.NewStore(recordstore.NewMemoryBackend(), nil)
	userRepo := repository.NewUserRepository(store)
	taskRepo := repository.NewTaskRepository(store)
	subRepo := repository.NewSubmissionRepository(store)
	commentRepo := repository.NewCommentRepository(store)

	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo, subRepo, cfg)
	taskSvc := service.NewTaskService(taskRepo)
	subSvc := service.NewSubmissionService(subRepo, taskRepo, userRepo)
	commentSvc := service.NewCommentService(commentRepo, taskRepo)
	adminSvc := service.NewAdminService(store, userRepo, taskRepo, subRepo, commentRepo)

	auth := NewAuthController(authSvc)
	user := NewUserController(userSvc)
	task := NewTaskController(taskSvc)
	sub := NewSubmissionController(subSvc, nil)
	comment := NewCommentController(commentSvc)
	admin := NewAdminController(adminSvc, userSvc)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", auth.Register)
		api.POST("/login", auth.Login)
		api.GET("/tasks", task.ListTasks)
		api.GET("/tasks/:id", task.GetTask)
		api.GET("/leaderboard", user.Leaderboard)
		api.GET("/users/:username", user.GetPublicProfile)
	}
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/profile", auth.GetProfile)
		authed.PUT("/user/profile", user.UpdateProfile)
		authed.POST("/tasks", task.CreateTask)
		authed.DELETE("/tasks/:id", task.DeleteTask)
		authed.POST("/tasks/:id/submissions", sub.Create)
		authed.POST("/submissions/:id/upvote", sub.Upvote)
		authed.POST("/tasks/:id/comments", comment.Create)
	}
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.POST("/database/reset", admin.ResetDatabase)
	}

	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Data.Token
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": "flow_tester",
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d: %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("secret123")) {
		t.Fatal("register response leaked password")
	}

	// 重复注册
	w = doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": "flow_tester",
		"password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", w.Code)
	}

	token := loginAs(t, router, "flow_tester", "secret123")

	w = doJSON(router, http.MethodGet, "/api/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: status %d", w.Code)
	}
	var resp struct {
		Data model.User `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Username != "flow_tester" {
		t.Errorf("profile username = %s", resp.Data.Username)
	}
	if resp.Data.Password != "" {
		t.Error("profile leaked password")
	}

	w = doJSON(router, http.MethodGet, "/api/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("profile without token: status %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"username": "devops_ninja",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", w.Code)
	}
}

func TestUpvoteEndpointConflict(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "cloud_walker", "password123")

	// 种子提交 s1 初始 5 赞
	w := doJSON(router, http.MethodPost, "/api/submissions/s1/upvote", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first upvote: status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodPost, "/api/submissions/s1/upvote", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second upvote: status %d, want 409", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/submissions/missing/upvote", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing submission: status %d, want 404", w.Code)
	}
}

func TestTaskEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "cloud_walker", "password123")

	w := doJSON(router, http.MethodPost, "/api/tasks", token, gin.H{
		"title":       "Write a systemd unit",
		"description": "Create a service unit with restart policy and resource limits.",
		"difficulty":  "Beginner",
		"tools":       []string{"Linux", "systemd"},
		"category":    "Scripting",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: status %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data model.Task `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Data.Author != "cloud_walker" {
		t.Errorf("author = %s", created.Data.Author)
	}

	// 非作者不能删别人的任务
	w = doJSON(router, http.MethodDelete, "/api/tasks/t1", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("delete foreign task: status %d, want 403", w.Code)
	}

	// 自己的可以删
	w = doJSON(router, http.MethodDelete, "/api/tasks/"+created.Data.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete own task: status %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/api/tasks/"+created.Data.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted task should 404, got %d", w.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t)

	userToken := loginAs(t, router, "cloud_walker", "password123")
	w := doJSON(router, http.MethodGet, "/api/admin/users", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status %d, want 403", w.Code)
	}

	adminToken := loginAs(t, router, "devops_ninja", "password123")
	w = doJSON(router, http.MethodGet, "/api/admin/users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: status %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/admin/database/reset", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status %d", w.Code)
	}
}
