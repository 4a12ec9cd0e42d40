package handler

import (
	"strconv"

	"pm-go/internal/middleware"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON 绑定并校验请求体，失败时已写入400响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequest(c, utils.FormatValidationError(err).Error())
		return false
	}
	return true
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "IDが不正です")
		return 0, false
	}
	return id, true
}

// currentUserID 获取当前登录用户ID，未认证时已写入401响应
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.Unauthorized(c, "認証が必要です")
		return 0, false
	}
	return userID, true
}
