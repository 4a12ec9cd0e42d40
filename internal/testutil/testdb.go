package testutil

import (
	"testing"

	"pm-go/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB 创建内存SQLite数据库并完成迁移，每个测试独立
func NewInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接都是独立的数据库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// CreateUser 插入测试用户
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		IsActive:     true,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
