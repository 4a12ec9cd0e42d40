package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/middleware"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param status query string false "active / archived / all，默认 active"
// @Success 200 {object} utils.Response{data=[]dto.ProjectListItem}
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetRole(c)

	projects, err := h.projectService.GetProjects(userID, role, c.Query("status"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, projects)
}

// CreateProject 创建项目
// @Summary 创建项目
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} utils.Response{data=dto.ProjectDetail}
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Created(c, project)
}

// GetProject 获取项目详情
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, project)
}

// UpdateProject 更新项目
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(projectID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, project)
}

// ToggleFavorite 设置当前用户的收藏标记
// @Router /api/projects/{id}/favorite [put]
func (h *ProjectHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectService.ToggleFavorite(projectID, userID, *req.IsFavorite); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.FavoriteResponse{IsFavorite: *req.IsFavorite})
}

// GetMembers 获取项目成员
// @Router /api/projects/{id}/members [get]
func (h *ProjectHandler) GetMembers(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.GetMembers(projectID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, members)
}

// AddMember 添加项目成员
// @Router /api/projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectService.AddMember(projectID, req.UserID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.NoContent(c)
}

// RemoveMember 移除项目成员
// @Router /api/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, userID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.NoContent(c)
}

// GetReviewCategories 获取评审分类
func (h *ProjectHandler) GetReviewCategories(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	categories, err := h.projectService.GetReviewCategories(projectID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}
