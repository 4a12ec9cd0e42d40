package main

import (
	"context"
	"fmt"
	"time"

	"pm-go/internal/config"
	"pm-go/internal/logging"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/router"
	"pm-go/internal/service"
	"pm-go/internal/utils"
	"pm-go/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

const loginLimiterPrefix = "pm:login_failures:"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP サーバーを起動する",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "データベースのテーブルを作成・更新する",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		logger := logging.NewLogger(&cfg.Log)

		db, err := models.InitDB(&cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("初始化数据库失败: %w", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
		logger.Info("数据库迁移完成")
		return nil
	},
}

func runServe() error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 初始化日志
	logger := logging.NewLogger(&cfg.Log)

	// 初始化数据库
	db, err := models.InitDB(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	// 初始化Redis登录限流，未配置时不启用
	var limiter service.LoginLimiter
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("Redis连接失败，登录限流将降级放行: %v", err)
		}
		cancel()

		limiter = redis_limiter.NewBreakerLimiter(
			redis_limiter.NewRedisLimiter(
				redisClient,
				cfg.Security.LoginMaxFailures,
				loginLimiterPrefix,
				cfg.Security.GetLockDuration(),
			),
			30*time.Second,
			logger,
		)
	} else {
		logger.Info("未配置Redis，登录限流已禁用")
	}

	// 初始化工具
	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化管理员账户
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		utils.NewBcryptHasher(cfg.Security.BcryptCost),
		jwtManager,
		limiter,
		cfg,
		logger,
	)
	if err := authService.InitAdmin(); err != nil {
		logger.Warnf("初始化管理员失败: %v", err)
	}

	// 设置路由
	r := router.SetupRouter(cfg, jwtManager, logger, db, limiter)

	addr := cfg.Server.GetAddress()
	logger.Infof("服务器启动在 %s", addr)
	if !cfg.Server.ProductionMode {
		logger.Infof("开发模式: 管理员账号 %s", cfg.Admin.Email)
	}

	return r.Run(addr)
}
