package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost 密码哈希的工作因子
const PasswordCost = 12

// PasswordMinLength 密码最小长度
const PasswordMinLength = 8

// PasswordHasher 密码哈希接口
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher 基于bcrypt的实现，每次哈希使用新的盐
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher 创建bcrypt哈希器
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash 哈希密码
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify 验证密码，比较在bcrypt内部以常量时间完成
func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsBcryptHash 判断字符串是否已经是bcrypt哈希
func IsBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// ValidatePasswordPolicy 密码策略: 8位以上，至少包含一个英文字母和一个数字
func ValidatePasswordPolicy(password string) bool {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return false
	}

	var hasLetter, hasDigit bool
	for i := 0; i < len(password); i++ {
		c := password[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
