package middleware

import (
	"crypto/subtle"

	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// InternalAPIAuth 内部接口认证中间件，用于保护 /metrics 等运维接口
// apiKey 为空时不做校验
func InternalAPIAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		requestKey := c.GetHeader("X-Internal-API-Key")
		if subtle.ConstantTimeCompare([]byte(requestKey), []byte(apiKey)) != 1 {
			utils.Unauthorized(c, "内部APIキーが不正です")
			c.Abort()
			return
		}

		c.Next()
	}
}
