package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login 用户登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "ログインしました", resp)
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=dto.UserInfo}
// @Router /api/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	userInfo, err := h.authService.GetMe(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, userInfo)
}

// Logout 用户登出，JWT无状态，由客户端删除Token
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.SuccessWithMessage(c, "ログアウトしました", nil)
}

// ChangePassword 修改自己的密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "密码信息"
// @Success 204
// @Router /api/users/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.NoContent(c)
}

// FirstLogin 是否需要修改初始密码
// @Router /api/users/me/first-login [get]
func (h *AuthHandler) FirstLogin(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	must, err := h.authService.ValidateFirstLogin(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.FirstLoginResponse{MustChangePassword: must})
}
