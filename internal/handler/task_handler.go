package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// TaskHandler WBS任务处理器
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks 获取项目的任务列表
// @Summary 获取任务列表
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} utils.Response{data=[]dto.TaskResponse}
// @Router /api/projects/{id}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskService.FindByProject(projectID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, tasks)
}

// CreateTask 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body dto.CreateTaskRequest true "任务信息"
// @Success 201 {object} utils.Response{data=dto.TaskResponse}
// @Router /api/projects/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(projectID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Created(c, task)
}

// UpdateTask 更新任务
// @Router /api/projects/{id}/tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(projectID, taskID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, task)
}

// DeleteTask 删除任务
// @Router /api/projects/{id}/tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.Delete(projectID, taskID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.NoContent(c)
}
