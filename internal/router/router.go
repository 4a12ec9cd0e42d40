package router

import (
	"net/http"

	"pm-go/internal/config"
	"pm-go/internal/handler"
	"pm-go/internal/middleware"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由，limiter 为 nil 时不限制登录失败次数
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	limiter service.LoginLimiter,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	utils.InitValidator()

	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(&cfg.CORS))

	if cfg.Metrics.Enable {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Use(middleware.NewMetrics(registry).Middleware())
		r.GET(cfg.Metrics.Path,
			middleware.InternalAPIAuth(cfg.Metrics.APIKey),
			gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// 初始化Service
	hasher := utils.NewBcryptHasher(cfg.Security.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, jwtManager, limiter, cfg, logger)
	userService := service.NewUserService(userRepo, hasher, logger)
	projectService := service.NewProjectService(projectRepo, userRepo, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, logger)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	manager := middleware.RequireRole(models.RoleAdmin, models.RolePM)
	member := middleware.RequireProjectMember(projectService)

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/login", authHandler.Login)

		// 认证路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(jwtManager))
		{
			// 用户信息
			authorized.GET("/me", authHandler.GetMe)
			authorized.POST("/logout", authHandler.Logout)
			authorized.PUT("/users/me/password", authHandler.ChangePassword)
			authorized.GET("/users/me/first-login", authHandler.FirstLogin)

			// 项目
			authorized.GET("/projects", projectHandler.ListProjects)
			authorized.POST("/projects", manager, projectHandler.CreateProject)
			authorized.PUT("/projects/:id/favorite", projectHandler.ToggleFavorite)
			authorized.POST("/projects/:id/members", manager, projectHandler.AddMember)
			authorized.DELETE("/projects/:id/members/:userId", manager, projectHandler.RemoveMember)

			// 以下路由要求项目成员身份（管理员除外）
			project := authorized.Group("/projects/:id")
			project.Use(member)
			{
				project.GET("", projectHandler.GetProject)
				project.PUT("", manager, projectHandler.UpdateProject)
				project.GET("/members", projectHandler.GetMembers)
				project.GET("/review-categories", projectHandler.GetReviewCategories)

				// WBS任务
				project.GET("/tasks", taskHandler.ListTasks)
				project.POST("/tasks", manager, taskHandler.CreateTask)
				project.PUT("/tasks/:taskId", manager, taskHandler.UpdateTask)
				project.DELETE("/tasks/:taskId", manager, taskHandler.DeleteTask)
			}

			// 管理员接口
			adminGroup := authorized.Group("/admin")
			adminGroup.Use(middleware.AdminMiddleware())
			{
				adminGroup.GET("/users", adminHandler.ListUsers)
				adminGroup.POST("/users", adminHandler.CreateUser)
				adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
				adminGroup.PUT("/users/:id/password", adminHandler.ResetPassword)
				adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			}
		}
	}

	return r
}
