package middleware

import (
	"strings"

	"pm-go/internal/models"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID             = "user_id"
	ctxRole               = "role"
	ctxMustChangePassword = "must_change_password"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "認証が必要です")
			c.Abort()
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Unauthorized(c, "認証形式が不正です")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.Unauthorized(c, "トークンが無効または期限切れです")
			c.Abort()
			return
		}

		role := models.Role(claims.Role)
		if !role.IsValid() {
			utils.Unauthorized(c, "トークンが無効または期限切れです")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, role)
		c.Set(ctxMustChangePassword, claims.MustChangePassword)

		c.Next()
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint64)
	return id, ok
}

// GetRole 从上下文获取角色
func GetRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(ctxRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.Role)
	return r, ok
}

// IsAdmin 从上下文判断是否为管理员
func IsAdmin(c *gin.Context) bool {
	role, _ := GetRole(c)
	return role == models.RoleAdmin
}
