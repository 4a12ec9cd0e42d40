package middleware

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole 角色权限中间件，须放在AuthMiddleware之后
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			utils.Unauthorized(c, "認証が必要です")
			c.Abort()
			return
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "アクセス権限がありません")
		c.Abort()
	}
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
