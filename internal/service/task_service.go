package service

import (
	"fmt"

	"pm-go/internal/apperror"
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	msgTaskNotFound      = "タスクが見つかりません"
	msgParentNotFound    = "親タスクが見つかりません"
	msgAssigneeNotFound  = "担当者が見つかりません"
	msgTooDeep           = "タスクは3階層までしか作成できません"
	msgDateOrder         = "終了日は開始日以降の日付を入力してください"
	msgDateFormat        = "日付は YYYY-MM-DD 形式で入力してください"
	msgHasReportEntries  = "日報明細が紐付いているタスクは削除できません"
	msgHasChildren       = "子タスクが存在するタスクは削除できません"
	msgInvalidTaskStatus = "ステータスが不正です"
	msgNegativeHours     = "予定工数は0以上で入力してください"
	msgNegativeOrder     = "表示順は0以上で入力してください"
)

// TaskService WBS任务服务
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

// NewTaskService 创建任务服务
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// FindByProject 获取项目的全部任务，实绩工时只统计任务自身的日报明细
func (s *TaskService) FindByProject(projectID uint64) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("获取任务列表失败: %w", err)
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, toTaskResponse(&tasks[i]))
	}
	return result, nil
}

// Create 创建任务，层级由父任务决定，最多3层
func (s *TaskService) Create(projectID uint64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	level := 1
	if req.ParentTaskID != nil {
		parent, err := s.taskRepo.FindByID(projectID, *req.ParentTaskID)
		if err != nil {
			return nil, notFoundOr(err, msgParentNotFound, "获取父任务失败")
		}
		if parent.Level >= models.MaxTaskLevel {
			return nil, apperror.InvalidHierarchy(msgTooDeep)
		}
		level = parent.Level + 1
	}

	status := models.TaskStatusNotStarted
	if req.Status != nil {
		status = models.TaskStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperror.Validation(msgInvalidTaskStatus)
		}
	}
	if req.PlannedHours != nil && *req.PlannedHours < 0 {
		return nil, apperror.Validation(msgNegativeHours)
	}
	if req.AssigneeID != nil {
		if err := s.ensureAssignee(*req.AssigneeID); err != nil {
			return nil, err
		}
	}

	var displayOrder int
	if req.DisplayOrder != nil {
		if *req.DisplayOrder < 0 {
			return nil, apperror.Validation(msgNegativeOrder)
		}
		displayOrder = *req.DisplayOrder
	} else {
		maxOrder, err := s.taskRepo.GetMaxDisplayOrder(projectID, req.ParentTaskID)
		if err != nil {
			return nil, fmt.Errorf("获取显示顺序失败: %w", err)
		}
		displayOrder = maxOrder + 1
	}

	task := &models.Task{
		ProjectID:    projectID,
		ParentTaskID: req.ParentTaskID,
		Level:        level,
		Name:         req.Name,
		AssigneeID:   req.AssigneeID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       status,
		PlannedHours: req.PlannedHours,
		DisplayOrder: displayOrder,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("创建任务失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"task_id":    task.ID,
		"level":      level,
	}).Info("任务创建成功")

	return s.reload(projectID, task.ID)
}

// Update 部分更新任务，日期校验使用合并后的值
func (s *TaskService) Update(projectID, taskID uint64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	existing, err := s.taskRepo.FindByID(projectID, taskID)
	if err != nil {
		return nil, notFoundOr(err, msgTaskNotFound, "获取任务失败")
	}

	startDate := existing.StartDate
	if req.StartDate.Set {
		startDate = req.StartDate.Ptr()
	}
	endDate := existing.EndDate
	if req.EndDate.Set {
		endDate = req.EndDate.Ptr()
	}
	if err := checkDates(startDate, endDate); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AssigneeID.Set {
		if req.AssigneeID.Valid {
			if err := s.ensureAssignee(req.AssigneeID.Value); err != nil {
				return nil, err
			}
		}
		updates["assignee_id"] = req.AssigneeID.Interface()
	}
	if req.StartDate.Set {
		updates["start_date"] = req.StartDate.Interface()
	}
	if req.EndDate.Set {
		updates["end_date"] = req.EndDate.Interface()
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperror.Validation(msgInvalidTaskStatus)
		}
		updates["status"] = status
	}
	if req.PlannedHours.Set {
		if req.PlannedHours.Valid && req.PlannedHours.Value < 0 {
			return nil, apperror.Validation(msgNegativeHours)
		}
		updates["planned_hours"] = req.PlannedHours.Interface()
	}
	if req.DisplayOrder != nil {
		if *req.DisplayOrder < 0 {
			return nil, apperror.Validation(msgNegativeOrder)
		}
		updates["display_order"] = *req.DisplayOrder
	}

	if len(updates) > 0 {
		if err := s.taskRepo.Update(taskID, updates); err != nil {
			return nil, fmt.Errorf("更新任务失败: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"task_id":    taskID,
			"fields":     len(updates),
		}).Info("任务已更新")
	}

	return s.reload(projectID, taskID)
}

// Delete 删除任务，存在日报明细或子任务时拒绝
func (s *TaskService) Delete(projectID, taskID uint64) error {
	if _, err := s.taskRepo.FindByID(projectID, taskID); err != nil {
		return notFoundOr(err, msgTaskNotFound, "获取任务失败")
	}

	entries, err := s.taskRepo.CountReportEntries(taskID)
	if err != nil {
		return fmt.Errorf("检查日报明细失败: %w", err)
	}
	if entries > 0 {
		return apperror.Validation(msgHasReportEntries)
	}

	children, err := s.taskRepo.CountChildren(taskID)
	if err != nil {
		return fmt.Errorf("检查子任务失败: %w", err)
	}
	if children > 0 {
		return apperror.Validation(msgHasChildren)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("删除任务失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"project_id": projectID, "task_id": taskID}).Info("任务已删除")
	return nil
}

// ensureAssignee 负责人必须是存在且未删除的用户
func (s *TaskService) ensureAssignee(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return notFoundOr(err, msgAssigneeNotFound, "获取负责人失败")
	}
	return nil
}

// reload 重新读取任务以取得负责人和实绩工时
func (s *TaskService) reload(projectID, taskID uint64) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(projectID, taskID)
	if err != nil {
		return nil, notFoundOr(err, msgTaskNotFound, "获取任务失败")
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// checkDates 两个日期都存在时要求结束日不早于开始日
func checkDates(startDate, endDate *string) error {
	for _, d := range []*string{startDate, endDate} {
		if d != nil && !utils.IsValidDate(*d) {
			return apperror.Validation(msgDateFormat)
		}
	}
	// YYYY-MM-DD 按字典序比较即为日期顺序
	if startDate != nil && endDate != nil && *endDate < *startDate {
		return apperror.Validation(msgDateOrder)
	}
	return nil
}
