package service

import (
	"errors"
	"fmt"

	"pm-go/internal/apperror"
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgProjectNotFound = "プロジェクトが見つかりません"
	msgMemberNotFound  = "プロジェクトメンバーが見つかりません"
	msgAlreadyMember   = "すでにプロジェクトのメンバーです"
	msgPMNotFound      = "PMに指定されたユーザーが見つかりません"
	msgInvalidStatus   = "statusはactive、archived、allのいずれかを指定してください"
)

// StatusFilterAll 不按状态过滤
const StatusFilterAll = "all"

// defaultReviewCategories 项目创建时自动生成的指摘区分
func defaultReviewCategories() []models.ReviewCategory {
	return []models.ReviewCategory{
		{Name: "設計漏れ", SortOrder: 1},
		{Name: "実装誤り", SortOrder: 2},
		{Name: "テスト不足", SortOrder: 3},
		{Name: "スタイル", SortOrder: 4},
		{Name: "その他", SortOrder: 5},
	}
}

// ProjectService 项目服务
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	logger      *logrus.Logger
}

// NewProjectService 创建项目服务
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// GetProjects 获取项目列表，admin可见全部，其他角色只能看到自己参与的项目
func (s *ProjectService) GetProjects(userID uint64, role models.Role, statusFilter string) ([]dto.ProjectListItem, error) {
	criteria := repository.ProjectCriteria{}

	switch statusFilter {
	case "":
		criteria.Status = models.ProjectStatusActive
	case StatusFilterAll:
	default:
		status := models.ProjectStatus(statusFilter)
		if !status.IsValid() {
			return nil, apperror.Validation(msgInvalidStatus)
		}
		criteria.Status = status
	}

	if role != models.RoleAdmin {
		criteria.MemberUserID = &userID
	}

	projects, err := s.projectRepo.FindAll(criteria)
	if err != nil {
		return nil, fmt.Errorf("获取项目列表失败: %w", err)
	}

	result := make([]dto.ProjectListItem, 0, len(projects))
	for i := range projects {
		result = append(result, toProjectListItem(&projects[i], userID))
	}
	return result, nil
}

// GetProjectByID 获取项目详情
func (s *ProjectService) GetProjectByID(projectID uint64) (*dto.ProjectDetail, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, notFoundOr(err, msgProjectNotFound, "获取项目失败")
	}
	return toProjectDetail(project), nil
}

// CreateProject 创建项目，PM和创建者加入成员，并生成5个默认指摘区分
func (s *ProjectService) CreateProject(creatorID uint64, req *dto.CreateProjectRequest) (*dto.ProjectDetail, error) {
	if _, err := s.userRepo.FindByID(req.PMID); err != nil {
		return nil, notFoundOr(err, msgPMNotFound, "获取PM失败")
	}

	project := &models.Project{
		Name:        req.Name,
		Status:      models.ProjectStatusActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		CreatedBy:   creatorID,
	}

	memberIDs := []uint64{req.PMID}
	if creatorID != req.PMID {
		memberIDs = append(memberIDs, creatorID)
	}

	if err := s.projectRepo.CreateFull(project, memberIDs, defaultReviewCategories()); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"creator_id": creatorID}).Error("创建项目失败")
		return nil, fmt.Errorf("创建项目失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"project_id": project.ID,
		"creator_id": creatorID,
		"pm_id":      req.PMID,
	}).Info("项目创建成功")

	return s.GetProjectByID(project.ID)
}

// UpdateProject 更新项目，只修改传入的字段
func (s *ProjectService) UpdateProject(projectID uint64, req *dto.UpdateProjectRequest) (*dto.ProjectDetail, error) {
	if err := s.ensureProject(projectID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperror.Validation("statusはactive、archivedのいずれかを指定してください")
		}
		updates["status"] = status
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate.Set {
		if req.EndDate.Valid && !utils.IsValidDate(req.EndDate.Value) {
			return nil, apperror.Validation(msgDateFormat)
		}
		updates["end_date"] = req.EndDate.Interface()
	}
	if req.Description.Set {
		updates["description"] = req.Description.Interface()
	}

	if len(updates) > 0 {
		if err := s.projectRepo.Update(projectID, updates); err != nil {
			return nil, fmt.Errorf("更新项目失败: %w", err)
		}
		s.logger.WithFields(logrus.Fields{"project_id": projectID, "fields": len(updates)}).Info("项目已更新")
	}

	return s.GetProjectByID(projectID)
}

// ToggleFavorite 设置收藏，仅项目成员可操作
func (s *ProjectService) ToggleFavorite(projectID, userID uint64, isFavorite bool) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		return notFoundOr(err, msgProjectNotFound, "获取成员失败")
	}

	if err := s.projectRepo.SetFavorite(projectID, userID, isFavorite); err != nil {
		return fmt.Errorf("更新收藏失败: %w", err)
	}
	return nil
}

// GetMembers 获取项目成员
func (s *ProjectService) GetMembers(projectID uint64) ([]dto.ProjectMember, error) {
	if err := s.ensureProject(projectID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.FindMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("获取成员失败: %w", err)
	}

	result := make([]dto.ProjectMember, 0, len(members))
	for _, m := range members {
		result = append(result, dto.ProjectMember{
			UserID:     m.UserID,
			Name:       m.User.Name,
			Email:      m.User.Email,
			Role:       string(m.User.Role),
			IsFavorite: m.IsFavorite,
		})
	}
	return result, nil
}

// AddMember 添加成员，已是成员时返回Conflict
func (s *ProjectService) AddMember(projectID, userID uint64) error {
	if err := s.ensureProject(projectID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return notFoundOr(err, msgUserNotFound, "获取用户失败")
	}

	_, err := s.projectRepo.FindMember(projectID, userID)
	if err == nil {
		return apperror.Conflict(msgAlreadyMember)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("获取成员失败: %w", err)
	}

	// 并发添加时由唯一索引兜底
	if err := s.projectRepo.AddMember(projectID, userID); err != nil {
		return conflictOr(err, msgAlreadyMember, "添加成员失败")
	}

	s.logger.WithFields(logrus.Fields{"project_id": projectID, "user_id": userID}).Info("成员已添加")
	return nil
}

// RemoveMember 移除成员
func (s *ProjectService) RemoveMember(projectID, userID uint64) error {
	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return notFoundOr(err, msgMemberNotFound, "移除成员失败")
	}

	s.logger.WithFields(logrus.Fields{"project_id": projectID, "user_id": userID}).Info("成员已移除")
	return nil
}

// GetReviewCategories 获取项目的指摘区分
func (s *ProjectService) GetReviewCategories(projectID uint64) ([]dto.ReviewCategoryResponse, error) {
	if err := s.ensureProject(projectID); err != nil {
		return nil, err
	}

	categories, err := s.projectRepo.FindReviewCategories(projectID)
	if err != nil {
		return nil, fmt.Errorf("获取指摘区分失败: %w", err)
	}

	result := make([]dto.ReviewCategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, dto.ReviewCategoryResponse{
			ID:        c.ID,
			ProjectID: c.ProjectID,
			Name:      c.Name,
			SortOrder: c.SortOrder,
		})
	}
	return result, nil
}

// IsMember 用户是否为项目成员
func (s *ProjectService) IsMember(projectID, userID uint64) (bool, error) {
	_, err := s.projectRepo.FindMember(projectID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("获取成员失败: %w", err)
}

func (s *ProjectService) ensureProject(projectID uint64) error {
	exists, err := s.projectRepo.Exists(projectID)
	if err != nil {
		return fmt.Errorf("获取项目失败: %w", err)
	}
	if !exists {
		return apperror.NotFound(msgProjectNotFound)
	}
	return nil
}
