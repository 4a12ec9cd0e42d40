package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员用户管理处理器
type AdminHandler struct {
	userService *service.UserService
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=[]dto.UserResponse}
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, users)
}

// CreateUser 创建用户
// @Router /api/admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Created(c, user)
}

// UpdateUser 更新用户
// @Router /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// ResetPassword 重置用户密码
// @Router /api/admin/users/{id}/password [put]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(id, req.NewPassword); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.NoContent(c)
}

// DeleteUser 删除用户
// @Router /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.NoContent(c)
}
