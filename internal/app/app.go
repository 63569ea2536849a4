package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/controller"
	"opsnexus_backend/internal/repository"
	"opsnexus_backend/internal/service"
	"opsnexus_backend/pkg/database"
	"opsnexus_backend/pkg/logger"
	"opsnexus_backend/pkg/monitoring"
	"opsnexus_backend/pkg/recordstore"
	"opsnexus_backend/pkg/security"
	"opsnexus_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Store           *recordstore.Store
	corsOrigins     *security.OriginList
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	task       *repository.TaskRepository
	submission *repository.SubmissionRepository
	comment    *repository.CommentRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	task       *service.TaskService
	submission *service.SubmissionService
	comment    *service.CommentService
	badge      *service.BadgeService
	chat       *service.ChatService
	storage    *service.StorageService
	admin      *service.AdminService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	task       *controller.TaskController
	submission *controller.SubmissionController
	comment    *controller.CommentController
	badge      *controller.BadgeController
	chat       *controller.ChatController
	admin      *controller.AdminController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，依次执行注册的回调。
// 只有无需重启就能生效的配置（CORS白名单、AI接入参数）会被应用。
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Runtime config applied")
}

// newStore 按配置选择存储后端。memory 只用于本地开发和测试，
// 进程重启后数据丢失。
func newStore(cfg *config.Config) (*recordstore.Store, error) {
	switch cfg.Store.Backend {
	case "mysql":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return recordstore.NewStore(recordstore.NewMySQLBackend(db), logger.Log), nil
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return recordstore.NewStore(recordstore.NewRedisBackend(rdb), logger.Log), nil
	case "memory":
		return recordstore.NewStore(recordstore.NewMemoryBackend(), logger.Log), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (a *App) initRepositories(store *recordstore.Store) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(store),
		task:       repository.NewTaskRepository(store),
		submission: repository.NewSubmissionRepository(store),
		comment:    repository.NewCommentRepository(store),
	}
}

func (a *App) initServices(repos *repositories, store *recordstore.Store, cfg *config.Config) (*services, error) {
	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       service.NewUserService(repos.user, repos.submission, cfg),
		task:       service.NewTaskService(repos.task),
		submission: service.NewSubmissionService(repos.submission, repos.task, repos.user),
		comment:    service.NewCommentService(repos.comment, repos.task),
		badge:      service.NewBadgeService(),
		chat:       service.NewChatService(cfg.AI),
		storage:    storage,
		admin:      service.NewAdminService(store, repos.user, repos.task, repos.submission, repos.comment),
	}, nil
}

func (a *App) initControllers(s *services, store *recordstore.Store, cfg *config.Config) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		task:       controller.NewTaskController(s.task),
		submission: controller.NewSubmissionController(s.submission, s.storage),
		comment:    controller.NewCommentController(s.comment),
		badge:      controller.NewBadgeController(s.badge),
		chat:       controller.NewChatController(s.chat),
		admin:      controller.NewAdminController(s.admin, s.user),
		health:     controller.NewHealthController(store, cfg.Store.Backend),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.corsOrigins = security.NewOriginList(cfg.CORS.AllowedOrigins)
	router.Use(security.CORS(a.corsOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	store, err := newStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize record store", zap.Error(err))
		log.Fatalf("Failed to initialize record store: %v", err)
	}

	app := &App{
		Config: cfg,
		Store:  store,
	}

	repos := app.initRepositories(store)
	services, err := app.initServices(repos, store, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
		log.Fatalf("Failed to initialize services: %v", err)
	}
	controllers := app.initControllers(services, store, cfg)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("opsnexus-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	// 配置热更新时替换 CORS 白名单和 AI 接入参数
	app.RegisterConfigCallback(func(c *config.Config) {
		app.corsOrigins.Update(c.CORS.AllowedOrigins)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		services.chat.UpdateConfig(c.AI)
	})

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
