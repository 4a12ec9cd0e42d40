package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型，删除为软删除
type User struct {
	ID                 uint64         `gorm:"primarykey" json:"id"`
	Name               string         `gorm:"size:100;not null" json:"name"`
	Email              string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role               Role           `gorm:"size:20;not null;default:'developer'" json:"role"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	PasswordHash       string         `gorm:"size:255;not null" json:"-"`
	PasswordHistory    StringList     `gorm:"type:text" json:"-"` // 最近3代，新的在前
	MustChangePassword bool           `gorm:"default:false" json:"must_change_password"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
