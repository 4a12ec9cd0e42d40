package service

import (
	"time"

	"pm-go/internal/dto"
	"pm-go/internal/models"
)

func toUserInfo(u *models.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               string(u.Role),
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
	}
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               string(u.Role),
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          u.UpdatedAt.Format(time.RFC3339),
	}
}

// resolvePM 取成员中第一个角色为pm的用户，没有时取创建者
func resolvePM(p *models.Project) (uint64, string) {
	for _, m := range p.Members {
		if m.User.ID != 0 && m.User.Role == models.RolePM {
			return m.UserID, m.User.Name
		}
	}
	return p.CreatedBy, p.Creator.Name
}

// isFavoriteOf 调用者自己的收藏标记，非成员为false
func isFavoriteOf(p *models.Project, userID uint64) bool {
	if userID == 0 {
		return false
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.IsFavorite
		}
	}
	return false
}

func toProjectListItem(p *models.Project, userID uint64) dto.ProjectListItem {
	_, pmName := resolvePM(p)
	return dto.ProjectListItem{
		ID:          p.ID,
		Name:        p.Name,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Description: p.Description,
		PMName:      pmName,
		IsFavorite:  isFavoriteOf(p, userID),
	}
}

func toProjectDetail(p *models.Project) *dto.ProjectDetail {
	pmID, pmName := resolvePM(p)
	return &dto.ProjectDetail{
		ID:          p.ID,
		Name:        p.Name,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Description: p.Description,
		PMID:        pmID,
		PMName:      pmName,
		BugSequence: p.BugSequence,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toTaskResponse(t *models.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		ParentTaskID: t.ParentTaskID,
		Level:        t.Level,
		Name:         t.Name,
		AssigneeID:   t.AssigneeID,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Status:       string(t.Status),
		PlannedHours: t.PlannedHours,
		ActualHours:  t.ActualHours,
		DisplayOrder: t.DisplayOrder,
	}
	if t.AssigneeID != nil && t.Assignee != nil && t.Assignee.ID != 0 {
		name := t.Assignee.Name
		resp.AssigneeName = &name
	}
	return resp
}
