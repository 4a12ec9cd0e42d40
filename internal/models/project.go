package models

import (
	"time"
)

// Project 项目模型
type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	StartDate   string        `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD
	EndDate     *string       `gorm:"size:10" json:"end_date"`
	Description *string       `gorm:"type:text" json:"description"`
	CreatedBy   uint64        `gorm:"not null;index" json:"created_by"`
	BugSequence int           `gorm:"default:0" json:"bug_sequence"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// 关联
	Creator          User             `gorm:"foreignKey:CreatedBy" json:"-"`
	Members          []ProjectMember  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	ReviewCategories []ReviewCategory `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"review_categories,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// ProjectMember 项目成员，(project_id, user_id) 唯一
type ProjectMember struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_project_user;index" json:"user_id"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (ProjectMember) TableName() string {
	return "project_members"
}

// ReviewCategory 指摘区分，(project_id, name) 唯一
type ReviewCategory struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;uniqueIndex:idx_project_category" json:"project_id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_project_category" json:"name"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (ReviewCategory) TableName() string {
	return "review_categories"
}
