package dto

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Role            string `json:"role" binding:"required,oneof=admin pmo pm developer"`
	InitialPassword string `json:"initial_password" binding:"required,password"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin pmo pm developer"`
	IsActive *bool   `json:"is_active"`
}

// ResetPasswordRequest 管理员重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,password"`
}

// UserResponse 用户响应
type UserResponse struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	IsActive           bool   `json:"is_active"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
