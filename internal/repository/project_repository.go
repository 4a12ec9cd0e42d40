package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectCriteria 项目查询条件，零值表示不过滤
type ProjectCriteria struct {
	Status       models.ProjectStatus
	MemberUserID *uint64
}

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	FindAll(criteria ProjectCriteria) ([]models.Project, error)
	FindByID(id uint64) (*models.Project, error)
	Exists(id uint64) (bool, error)
	CreateFull(project *models.Project, memberUserIDs []uint64, categories []models.ReviewCategory) error
	Update(id uint64, updates map[string]interface{}) error

	FindMembers(projectID uint64) ([]models.ProjectMember, error)
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)
	AddMember(projectID, userID uint64) error
	RemoveMember(projectID, userID uint64) error
	SetFavorite(projectID, userID uint64, isFavorite bool) error

	FindReviewCategories(projectID uint64) ([]models.ReviewCategory, error)
}

// GormProjectRepository 基于gorm的项目Repository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目Repository
func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// withDetail 预加载创建者和成员，成员按加入顺序排列
func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_members.created_at ASC, project_members.id ASC")
		}).
		Preload("Members.User")
}

// FindAll 按条件获取项目列表，新建的在前
func (r *GormProjectRepository) FindAll(criteria ProjectCriteria) ([]models.Project, error) {
	query := r.db.Model(&models.Project{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.MemberUserID != nil {
		memberOf := r.db.Model(&models.ProjectMember{}).
			Select("project_id").
			Where("user_id = ?", *criteria.MemberUserID)
		query = query.Where("id IN (?)", memberOf)
	}

	var projects []models.Project
	err := withDetail(query).Order("created_at DESC, id DESC").Find(&projects).Error
	return projects, err
}

// FindByID 根据ID获取项目详情
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := withDetail(r.db).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists 项目是否存在
func (r *GormProjectRepository) Exists(id uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateFull 在一个事务中创建项目、成员和指摘区分
func (r *GormProjectRepository) CreateFull(project *models.Project, memberUserIDs []uint64, categories []models.ReviewCategory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		if len(memberUserIDs) > 0 {
			members := make([]models.ProjectMember, 0, len(memberUserIDs))
			for _, userID := range memberUserIDs {
				members = append(members, models.ProjectMember{
					ProjectID: project.ID,
					UserID:    userID,
				})
			}
			if err := tx.Omit(clause.Associations).Create(&members).Error; err != nil {
				return err
			}
		}

		if len(categories) > 0 {
			for i := range categories {
				categories[i].ProjectID = project.ID
			}
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Update 更新项目的指定字段
func (r *GormProjectRepository) Update(id uint64, updates map[string]interface{}) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error
}

// FindMembers 获取项目成员
func (r *GormProjectRepository) FindMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&members).Error
	return members, err
}

// FindMember 获取单个成员关系
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember 添加成员，重复时由唯一索引拒绝
func (r *GormProjectRepository) AddMember(projectID, userID uint64) error {
	member := &models.ProjectMember{ProjectID: projectID, UserID: userID}
	return r.db.Omit(clause.Associations).Create(member).Error
}

// RemoveMember 移除成员，成员关系不存在时返回 gorm.ErrRecordNotFound
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	result := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetFavorite 设置成员的收藏标记
func (r *GormProjectRepository) SetFavorite(projectID, userID uint64, isFavorite bool) error {
	return r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("is_favorite", isFavorite).Error
}

// FindReviewCategories 获取指摘区分，按sort_order排列
func (r *GormProjectRepository) FindReviewCategories(projectID uint64) ([]models.ReviewCategory, error) {
	var categories []models.ReviewCategory
	err := r.db.Where("project_id = ?", projectID).Order("sort_order ASC, id ASC").Find(&categories).Error
	return categories, err
}
