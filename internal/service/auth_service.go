package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pm-go/internal/apperror"
	"pm-go/internal/config"
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgUserNotFound      = "ユーザーが見つかりません"
	msgInvalidLogin      = "メールアドレスまたはパスワードが正しくありません"
	msgLoginLocked       = "ログイン試行回数が上限に達しました。しばらくしてから再度お試しください"
	msgWrongCurrent      = "現在のパスワードが正しくありません"
	msgSameAsCurrent     = "現在のパスワードと同じパスワードは使用できません"
	msgReusedPassword    = "過去3回分のパスワードは使用できません"
	msgPasswordPolicy    = "パスワードは8文字以上で、英字と数字をそれぞれ1文字以上含めてください"
	msgEmailAlreadyTaken = "このメールアドレスは既に使用されています"
)

// LoginLimiter 登录失败次数限制
type LoginLimiter interface {
	IsBlocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// AuthService 认证服务
type AuthService struct {
	userRepo   repository.UserRepository
	hasher     utils.PasswordHasher
	jwtManager *utils.JWTManager
	limiter    LoginLimiter
	cfg        *config.Config
	logger     *logrus.Logger
}

// NewAuthService 创建认证服务，limiter为nil时不限制登录失败次数
func NewAuthService(
	userRepo repository.UserRepository,
	hasher utils.PasswordHasher,
	jwtManager *utils.JWTManager,
	limiter LoginLimiter,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtManager: jwtManager,
		limiter:    limiter,
		cfg:        cfg,
		logger:     logger,
	}
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	key := strings.ToLower(strings.TrimSpace(req.Email))

	if s.limiter != nil {
		blocked, err := s.limiter.IsBlocked(ctx, key)
		if err != nil {
			s.logger.WithError(err).Warn("读取登录失败次数失败")
		} else if blocked {
			return nil, apperror.Unauthorized(msgLoginLocked)
		}
	}

	user, err := s.userRepo.FindByEmail(key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("获取用户失败: %w", err)
		}
		s.recordFailure(ctx, key)
		return nil, apperror.Unauthorized(msgInvalidLogin)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.recordFailure(ctx, key)
		return nil, apperror.Unauthorized(msgInvalidLogin)
	}

	// 停用账号按登录失败处理
	if !user.IsActive {
		s.recordFailure(ctx, key)
		return nil, apperror.Unauthorized(msgInvalidLogin)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.WithError(err).Warn("清除登录失败次数失败")
		}
	}

	token, err := s.jwtManager.GenerateToken(user.ID, string(user.Role), user.MustChangePassword)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("用户登录成功")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.jwtManager.ExpireSeconds(),
		User:        *toUserInfo(user),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	count, err := s.limiter.RecordFailure(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("记录登录失败次数失败")
		return
	}
	s.logger.WithFields(logrus.Fields{"email": key, "failures": count}).Warn("登录失败")
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(userID uint64) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, msgUserNotFound, "获取用户失败")
	}
	return toUserInfo(user), nil
}

// ChangePassword 修改密码，校验当前密码并拒绝最近3代内用过的密码
func (s *AuthService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFoundOr(err, msgUserNotFound, "获取用户失败")
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperror.Unauthorized(msgWrongCurrent)
	}
	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return apperror.Conflict(msgSameAsCurrent)
	}
	if reusesHistory(s.hasher, newPassword, user.PasswordHistory) {
		return apperror.Conflict(msgReusedPassword)
	}
	if !utils.ValidatePasswordPolicy(newPassword) {
		return apperror.Validation(msgPasswordPolicy)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	// 哈希、历史和标记在同一次更新中写入
	err = s.userRepo.Update(userID, map[string]interface{}{
		"password_hash":        newHash,
		"password_history":     rotateHistory(user.PasswordHash, user.PasswordHistory),
		"must_change_password": false,
	})
	if err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID}).Info("密码已修改")
	return nil
}

// ValidateFirstLogin 返回是否需要修改初始密码
func (s *AuthService) ValidateFirstLogin(userID uint64) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false, notFoundOr(err, msgUserNotFound, "获取用户失败")
	}
	return user.MustChangePassword, nil
}

// InitAdmin 初始化管理员账户
func (s *AuthService) InitAdmin() error {
	admin, err := s.userRepo.GetAdmin()
	if err == nil && admin != nil {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("检查管理员失败: %w", err)
	}

	// 配置中可以直接写bcrypt哈希
	passwordHash := s.cfg.Admin.Password
	if !utils.IsBcryptHash(passwordHash) {
		hashed, err := s.hasher.Hash(passwordHash)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}
		passwordHash = hashed
	}

	user := &models.User{
		Name:            s.cfg.Admin.Name,
		Email:           strings.ToLower(s.cfg.Admin.Email),
		Role:            models.RoleAdmin,
		IsActive:        true,
		PasswordHash:    passwordHash,
		PasswordHistory: models.StringList{},
	}
	if err := s.userRepo.Create(user); err != nil {
		return conflictOr(err, msgEmailAlreadyTaken, "创建管理员失败")
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("已创建初始管理员")
	return nil
}
