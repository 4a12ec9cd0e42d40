package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
	configPath   string
)

// 环境变量前缀，例如 PM_JWT_SECRET_KEY
const envPrefix = "PM"

// LoadConfig 加载配置文件
func LoadConfig(configFile string) (*Config, error) {
	var err error
	var cfg *Config

	once.Do(func() {
		cfg, err = loadConfigFromFile(configFile)
		if err == nil {
			globalConfig = cfg
		}
		configPath = configFile
	})

	return globalConfig, err
}

// loadConfigFromFile 从文件加载配置
func loadConfigFromFile(configFile string) (*Config, error) {
	// .env 是可选的，不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取.env文件失败: %w", err)
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	setDefaults(&cfg, v)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys 让未出现在配置文件中的键也能被环境变量覆盖
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"jwt.secret_key",
		"admin.password",
		"database.driver",
		"database.dsn",
		"database.path",
		"redis_service.host",
		"redis_service.password",
		"metrics.api_key",
	} {
		_ = v.BindEnv(key)
	}
}

// setDefaults 设置默认值
func setDefaults(cfg *Config, v *viper.Viper) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/pm.db"
	}
	if !v.IsSet("database.auto_migrate") {
		cfg.Database.AutoMigrate = true
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 480 // 8小时
	}
	if cfg.Security.BcryptCost == 0 {
		cfg.Security.BcryptCost = 12
	}
	if cfg.Security.LoginMaxFailures == 0 {
		cfg.Security.LoginMaxFailures = 5
	}
	if cfg.Security.LoginLockMinutes == 0 {
		cfg.Security.LoginLockMinutes = 15
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@example.com"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "管理者"
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 28
	}
	if !v.IsSet("metrics.enable") {
		cfg.Metrics.Enable = true
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("JWT密钥不能为空")
	}

	if cfg.Admin.Password == "" {
		return fmt.Errorf("管理员密码不能为空")
	}

	if cfg.Security.BcryptCost < 4 || cfg.Security.BcryptCost > 31 {
		return fmt.Errorf("无效的bcrypt cost: %d", cfg.Security.BcryptCost)
	}

	switch cfg.Database.Driver {
	case DriverSQLite:
		// 检查数据库目录是否存在
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	case DriverMySQL:
		if cfg.Database.DSN == "" {
			return fmt.Errorf("mysql驱动需要配置database.dsn")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return globalConfig
}

// ReloadConfig 重新加载配置
func ReloadConfig() (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("未设置配置文件路径")
	}

	cfg, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}
