package app

import (
	"opsnexus_backend/docs"
	"opsnexus_backend/internal/config"
	"opsnexus_backend/internal/middleware"
	"opsnexus_backend/internal/model"
	"opsnexus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAuthedRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 浏览类接口对游客开放，带合法令牌时注入身份
		public.GET("/tasks", middleware.TryAuthMiddleware(cfg), c.task.ListTasks)
		public.GET("/tasks/:id", middleware.TryAuthMiddleware(cfg), c.task.GetTask)
		public.GET("/tasks/:id/submissions", middleware.TryAuthMiddleware(cfg), c.submission.ListForTask)
		public.GET("/tasks/:id/comments", middleware.TryAuthMiddleware(cfg), c.comment.ListForTask)

		public.GET("/leaderboard", c.user.Leaderboard)
		public.GET("/badges", c.badge.ListBadges)
		public.GET("/users/:username", c.user.GetPublicProfile)
	}
}

func (a *App) registerAuthedRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)

	rg.POST("/tasks", c.task.CreateTask)
	rg.DELETE("/tasks/:id", c.task.DeleteTask)

	rg.POST("/tasks/:id/submissions", c.submission.Create)
	rg.DELETE("/submissions/:id", c.submission.Delete)
	rg.POST("/submissions/:id/upvote", c.submission.Upvote)
	rg.POST("/submissions/screenshot/upload", c.submission.UploadScreenshot)

	rg.POST("/tasks/:id/comments", c.comment.Create)
	rg.DELETE("/comments/:id", c.comment.Delete)

	rg.POST("/chat/ask", c.chat.Ask)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.admin.ListUsers)
		admin.DELETE("/users/:id", c.admin.DeleteUser)
		admin.GET("/database", c.admin.DumpDatabase)
		admin.POST("/database/reset", c.admin.ResetDatabase)
	}
}
