package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository WBS任务数据访问接口，返回的任务均已填充实绩工时
type TaskRepository interface {
	FindByProject(projectID uint64) ([]models.Task, error)
	FindByID(projectID, taskID uint64) (*models.Task, error)
	GetMaxDisplayOrder(projectID uint64, parentTaskID *uint64) (int, error)
	CountChildren(taskID uint64) (int64, error)
	CountReportEntries(taskID uint64) (int64, error)
	Create(task *models.Task) error
	Update(id uint64, updates map[string]interface{}) error
	Delete(id uint64) error
}

// GormTaskRepository 基于gorm的任务Repository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务Repository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

type taskHours struct {
	TaskID uint64
	Total  float64
}

// FindByProject 获取项目的全部任务，按层级和显示顺序排列
func (r *GormTaskRepository) FindByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("level ASC, display_order ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]uint64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	hours, err := r.sumActualHours(ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].ActualHours = hours[tasks[i].ID]
	}
	return tasks, nil
}

// FindByID 获取项目下的任务，不属于该项目时返回 gorm.ErrRecordNotFound
func (r *GormTaskRepository) FindByID(projectID, taskID uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Assignee").
		Where("project_id = ?", projectID).
		First(&task, taskID).Error
	if err != nil {
		return nil, err
	}

	hours, err := r.sumActualHours([]uint64{task.ID})
	if err != nil {
		return nil, err
	}
	task.ActualHours = hours[task.ID]
	return &task, nil
}

// sumActualHours 汇总各任务直接关联的日报工时，不向上级累计
func (r *GormTaskRepository) sumActualHours(taskIDs []uint64) (map[uint64]float64, error) {
	var rows []taskHours
	err := r.db.Model(&models.DailyReportEntry{}).
		Select("task_id, COALESCE(SUM(work_hours), 0) AS total").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hours := make(map[uint64]float64, len(rows))
	for _, row := range rows {
		hours[row.TaskID] = row.Total
	}
	return hours, nil
}

// GetMaxDisplayOrder 同一父任务下的最大显示顺序，无兄弟任务时为0
func (r *GormTaskRepository) GetMaxDisplayOrder(projectID uint64, parentTaskID *uint64) (int, error) {
	query := r.db.Model(&models.Task{}).Where("project_id = ?", projectID)
	if parentTaskID == nil {
		query = query.Where("parent_task_id IS NULL")
	} else {
		query = query.Where("parent_task_id = ?", *parentTaskID)
	}

	var maxOrder int
	err := query.Select("COALESCE(MAX(display_order), 0)").Scan(&maxOrder).Error
	return maxOrder, err
}

// CountChildren 子任务数量
func (r *GormTaskRepository) CountChildren(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("parent_task_id = ?", taskID).Count(&count).Error
	return count, err
}

// CountReportEntries 关联的日报明细数量
func (r *GormTaskRepository) CountReportEntries(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.DailyReportEntry{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

// Create 创建任务
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// Update 更新任务的指定字段
func (r *GormTaskRepository) Update(id uint64, updates map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除任务
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
