package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口，查询自动排除已软删除的用户
type UserRepository interface {
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	GetAdmin() (*models.User, error)
	List() ([]models.User, error)
	Create(user *models.User) error
	Update(id uint64, updates map[string]interface{}) error
	Delete(id uint64) error
}

// GormUserRepository 基于gorm的用户Repository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户Repository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID 根据ID获取用户
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱获取用户
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail 邮箱是否已被使用，包含已软删除的用户
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// GetAdmin 获取任意一个管理员
func (r *GormUserRepository) GetAdmin() (*models.User, error) {
	var user models.User
	if err := r.db.Where("role = ?", models.RoleAdmin).Order("id ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List 获取用户列表
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新指定字段，在单条UPDATE语句中完成
func (r *GormUserRepository) Update(id uint64, updates map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 软删除用户
func (r *GormUserRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
