package service

import (
	"fmt"
	"strings"

	"pm-go/internal/apperror"
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// UserService 用户管理服务（管理员）
type UserService struct {
	userRepo repository.UserRepository
	hasher   utils.PasswordHasher
	logger   *logrus.Logger
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository, hasher utils.PasswordHasher, logger *logrus.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// ListUsers 获取用户列表
func (s *UserService) ListUsers() ([]dto.UserResponse, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("获取用户列表失败: %w", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

// CreateUser 创建用户，首次登录时必须修改密码
func (s *UserService) CreateUser(req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := models.Role(req.Role)
	if !role.IsValid() {
		return nil, apperror.Validation("ロールが不正です")
	}
	if !utils.ValidatePasswordPolicy(req.InitialPassword) {
		return nil, apperror.Validation(msgPasswordPolicy)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}
	if exists {
		return nil, apperror.Conflict(msgEmailAlreadyTaken)
	}

	hash, err := s.hasher.Hash(req.InitialPassword)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		Name:               req.Name,
		Email:              email,
		Role:               role,
		IsActive:           true,
		PasswordHash:       hash,
		PasswordHistory:    models.StringList{},
		MustChangePassword: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, conflictOr(err, msgEmailAlreadyTaken, "创建用户失败")
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("用户创建成功")

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateUser 更新用户的名称、角色和启用状态
func (s *UserService) UpdateUser(id uint64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return nil, notFoundOr(err, msgUserNotFound, "获取用户失败")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.IsValid() {
			return nil, apperror.Validation("ロールが不正です")
		}
		updates["role"] = role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(id, updates); err != nil {
			return nil, fmt.Errorf("更新用户失败: %w", err)
		}
		s.logger.WithFields(logrus.Fields{"user_id": id, "fields": len(updates)}).Info("用户已更新")
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, msgUserNotFound, "获取用户失败")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ResetPassword 管理员重置密码，旧哈希进入历史，用户下次登录须修改密码
func (s *UserService) ResetPassword(id uint64, newPassword string) error {
	if !utils.ValidatePasswordPolicy(newPassword) {
		return apperror.Validation(msgPasswordPolicy)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, msgUserNotFound, "获取用户失败")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	err = s.userRepo.Update(id, map[string]interface{}{
		"password_hash":        hash,
		"password_history":     rotateHistory(user.PasswordHash, user.PasswordHistory),
		"must_change_password": true,
	})
	if err != nil {
		return fmt.Errorf("重置密码失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": id}).Info("密码已重置")
	return nil
}

// DeleteUser 软删除用户
func (s *UserService) DeleteUser(id uint64) error {
	if err := s.userRepo.Delete(id); err != nil {
		return notFoundOr(err, msgUserNotFound, "删除用户失败")
	}

	s.logger.WithFields(logrus.Fields{"user_id": id}).Info("用户已删除")
	return nil
}
