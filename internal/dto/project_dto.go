package dto

// ProjectListItem 项目列表项
type ProjectListItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
	PMName      string  `json:"pm_name"`
	IsFavorite  bool    `json:"is_favorite"`
}

// ProjectDetail 项目详情
type ProjectDetail struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
	PMID        uint64  `json:"pm_id"`
	PMName      string  `json:"pm_name"`
	BugSequence int     `json:"bug_sequence"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	StartDate   string  `json:"start_date" binding:"required,date"`
	EndDate     *string `json:"end_date" binding:"omitempty,date"`
	Description *string `json:"description"`
	PMID        uint64  `json:"pm_id" binding:"required,gt=0"`
}

// UpdateProjectRequest 更新项目请求，仅更新传入的字段
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active archived"`
	StartDate   *string          `json:"start_date" binding:"omitempty,date"`
	EndDate     Nullable[string] `json:"end_date" binding:"omitempty,date"`
	Description Nullable[string] `json:"description"`
}

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required"`
}

// FavoriteResponse 收藏响应
type FavoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// ProjectMember 项目成员
type ProjectMember struct {
	UserID     uint64 `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsFavorite bool   `json:"is_favorite"`
}

// AddMemberRequest 添加成员请求
type AddMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required,gt=0"`
}

// ReviewCategoryResponse 指摘区分
type ReviewCategoryResponse struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}
