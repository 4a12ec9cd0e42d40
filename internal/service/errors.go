package service

import (
	"errors"
	"fmt"

	"pm-go/internal/apperror"

	"gorm.io/gorm"
)

// notFoundOr 记录不存在时转换为NotFound，其他错误附加上下文后原样返回
func notFoundOr(err error, message, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// conflictOr 唯一约束冲突时转换为Conflict
func conflictOr(err error, message, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
