package dto

// TaskResponse 任务响应
type TaskResponse struct {
	ID           uint64   `json:"id"`
	ProjectID    uint64   `json:"project_id"`
	ParentTaskID *uint64  `json:"parent_task_id"`
	Level        int      `json:"level"`
	Name         string   `json:"name"`
	AssigneeID   *uint64  `json:"assignee_id"`
	AssigneeName *string  `json:"assignee_name"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	Status       string   `json:"status"`
	PlannedHours *float64 `json:"planned_hours"`
	ActualHours  float64  `json:"actual_hours"`
	DisplayOrder int      `json:"display_order"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	ParentTaskID *uint64  `json:"parent_task_id" binding:"omitempty,gt=0"`
	Name         string   `json:"name" binding:"required,max=255"`
	AssigneeID   *uint64  `json:"assignee_id" binding:"omitempty,gt=0"`
	StartDate    *string  `json:"start_date" binding:"omitempty,date"`
	EndDate      *string  `json:"end_date" binding:"omitempty,date"`
	Status       *string  `json:"status" binding:"omitempty,oneof=未着手 進行中 完了 保留"`
	PlannedHours *float64 `json:"planned_hours" binding:"omitempty,gte=0"`
	DisplayOrder *int     `json:"display_order" binding:"omitempty,gte=0"`
}

// UpdateTaskRequest 更新任务请求，仅更新传入的字段
type UpdateTaskRequest struct {
	Name         *string           `json:"name" binding:"omitempty,min=1,max=255"`
	AssigneeID   Nullable[uint64]  `json:"assignee_id" binding:"omitempty,gt=0"`
	StartDate    Nullable[string]  `json:"start_date" binding:"omitempty,date"`
	EndDate      Nullable[string]  `json:"end_date" binding:"omitempty,date"`
	Status       *string           `json:"status" binding:"omitempty,oneof=未着手 進行中 完了 保留"`
	PlannedHours Nullable[float64] `json:"planned_hours" binding:"omitempty,gte=0"`
	DisplayOrder *int              `json:"display_order" binding:"omitempty,gte=0"`
}
