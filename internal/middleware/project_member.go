package middleware

import (
	"strconv"

	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// MembershipChecker 判断用户是否为项目成员
type MembershipChecker interface {
	IsMember(projectID, userID uint64) (bool, error)
}

// RequireProjectMember 非成员访问项目时返回404，管理员不受限制
func RequireProjectMember(checker MembershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}

		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			utils.BadRequest(c, "プロジェクトIDが不正です")
			c.Abort()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			utils.Unauthorized(c, "認証が必要です")
			c.Abort()
			return
		}

		isMember, err := checker.IsMember(projectID, userID)
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}
		if !isMember {
			utils.NotFound(c, "プロジェクトが見つかりません")
			c.Abort()
			return
		}

		c.Next()
	}
}
