package service

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"
)

// PasswordHistoryMax 保留的历史密码代数
const PasswordHistoryMax = 3

// rotateHistory 将被替换的哈希放在最前，保留最近3代
func rotateHistory(replaced string, history models.StringList) models.StringList {
	rotated := make(models.StringList, 0, PasswordHistoryMax)
	rotated = append(rotated, replaced)
	for _, h := range history {
		if len(rotated) == PasswordHistoryMax {
			break
		}
		rotated = append(rotated, h)
	}
	return rotated
}

// reusesHistory 新密码是否与历史中任意一代一致
func reusesHistory(hasher utils.PasswordHasher, plain string, history models.StringList) bool {
	for i, h := range history {
		if i == PasswordHistoryMax {
			break
		}
		if hasher.Verify(plain, h) {
			return true
		}
	}
	return false
}
