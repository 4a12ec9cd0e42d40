package models

import (
	"time"
)

// MaxTaskLevel WBS最大层级
const MaxTaskLevel = 3

// Task WBS任务模型
type Task struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	ProjectID    uint64     `gorm:"not null;index:idx_task_project_parent" json:"project_id"`
	ParentTaskID *uint64    `gorm:"index:idx_task_project_parent" json:"parent_task_id"`
	Level        int        `gorm:"not null;default:1" json:"level"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	AssigneeID   *uint64    `gorm:"index" json:"assignee_id"`
	StartDate    *string    `gorm:"size:10" json:"start_date"` // YYYY-MM-DD
	EndDate      *string    `gorm:"size:10" json:"end_date"`
	Status       TaskStatus `gorm:"size:20;not null;default:'未着手'" json:"status"`
	PlannedHours *float64   `json:"planned_hours"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// 实绩工时，由日报明细汇总，不落库
	ActualHours float64 `gorm:"-" json:"actual_hours"`

	// 关联
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}

// DailyReport 日报
type DailyReport struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_report_user_date" json:"user_id"`
	WorkDate  string    `gorm:"size:10;not null;uniqueIndex:idx_report_user_date" json:"work_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Entries []DailyReportEntry `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// TableName 指定表名
func (DailyReport) TableName() string {
	return "daily_reports"
}

// DailyReportEntry 日报明细，关联到任务
type DailyReportEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ReportID  uint64    `gorm:"not null;index" json:"report_id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	WorkHours float64   `gorm:"not null" json:"work_hours"`
	Memo      *string   `gorm:"type:text" json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (DailyReportEntry) TableName() string {
	return "daily_report_entries"
}
