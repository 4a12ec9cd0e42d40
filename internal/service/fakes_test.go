package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

var errStorage = errors.New("storage unavailable")

// fakeUserRepo 内存用户Repository
type fakeUserRepo struct {
	users   map[uint64]*models.User
	nextID  uint64
	updates int
	failOn  string
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint64]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(id uint64) (*models.User, error) {
	if r.failOn == "find" {
		return nil, errStorage
	}
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	copied.PasswordHistory = append(models.StringList{}, u.PasswordHistory...)
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.DeletedAt.Valid {
			return r.FindByID(u.ID)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetAdmin() (*models.User, error) {
	for _, u := range r.users {
		if u.Role == models.RoleAdmin && !u.DeletedAt.Valid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List() ([]models.User, error) {
	ids := make([]uint64, 0, len(r.users))
	for id, u := range r.users {
		if !u.DeletedAt.Valid {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, *r.users[id])
	}
	return users, nil
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if r.failOn == "create" {
		return gorm.ErrDuplicatedKey
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(id uint64, updates map[string]interface{}) error {
	if r.failOn == "update" {
		return errStorage
	}
	r.updates++
	u := r.users[id]
	for k, v := range updates {
		switch k {
		case "name":
			u.Name = v.(string)
		case "role":
			u.Role = v.(models.Role)
		case "is_active":
			u.IsActive = v.(bool)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "password_history":
			u.PasswordHistory = v.(models.StringList)
		case "must_change_password":
			u.MustChangePassword = v.(bool)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(id uint64) error {
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeProjectRepo 内存项目Repository
type fakeProjectRepo struct {
	users      *fakeUserRepo
	projects   map[uint64]*models.Project
	members    []models.ProjectMember
	categories []models.ReviewCategory
	nextID     uint64
	writes     int
	failCreate bool
	// addMemberErr 模拟检查通过后插入失败，例如并发添加触发唯一索引
	addMemberErr error
}

func newFakeProjectRepo(users *fakeUserRepo) *fakeProjectRepo {
	return &fakeProjectRepo{users: users, projects: make(map[uint64]*models.Project), nextID: 1}
}

func (r *fakeProjectRepo) hydrate(p models.Project) models.Project {
	if creator, ok := r.users.users[p.CreatedBy]; ok {
		p.Creator = *creator
	}
	p.Members = nil
	for _, m := range r.members {
		if m.ProjectID == p.ID {
			if u, ok := r.users.users[m.UserID]; ok {
				m.User = *u
			}
			p.Members = append(p.Members, m)
		}
	}
	return p
}

func (r *fakeProjectRepo) FindAll(criteria repository.ProjectCriteria) ([]models.Project, error) {
	var result []models.Project
	for id := uint64(1); id < r.nextID; id++ {
		p, ok := r.projects[id]
		if !ok {
			continue
		}
		if criteria.Status != "" && p.Status != criteria.Status {
			continue
		}
		if criteria.MemberUserID != nil {
			if _, err := r.FindMember(p.ID, *criteria.MemberUserID); err != nil {
				continue
			}
		}
		result = append([]models.Project{r.hydrate(*p)}, result...)
	}
	return result, nil
}

func (r *fakeProjectRepo) FindByID(id uint64) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	hydrated := r.hydrate(*p)
	return &hydrated, nil
}

func (r *fakeProjectRepo) Exists(id uint64) (bool, error) {
	_, ok := r.projects[id]
	return ok, nil
}

func (r *fakeProjectRepo) CreateFull(project *models.Project, memberUserIDs []uint64, categories []models.ReviewCategory) error {
	if r.failCreate {
		return errStorage
	}
	project.ID = r.nextID
	r.nextID++
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	stored := *project
	r.projects[project.ID] = &stored

	for _, uid := range memberUserIDs {
		r.members = append(r.members, models.ProjectMember{ID: uint64(len(r.members) + 1), ProjectID: project.ID, UserID: uid})
	}
	for _, c := range categories {
		c.ProjectID = project.ID
		c.ID = uint64(len(r.categories) + 1)
		r.categories = append(r.categories, c)
	}
	r.writes++
	return nil
}

func (r *fakeProjectRepo) Update(id uint64, updates map[string]interface{}) error {
	r.writes++
	p := r.projects[id]
	for k, v := range updates {
		switch k {
		case "name":
			p.Name = v.(string)
		case "status":
			p.Status = v.(models.ProjectStatus)
		case "start_date":
			p.StartDate = v.(string)
		case "end_date":
			if v == nil {
				p.EndDate = nil
			} else {
				s := v.(string)
				p.EndDate = &s
			}
		case "description":
			if v == nil {
				p.Description = nil
			} else {
				s := v.(string)
				p.Description = &s
			}
		}
	}
	return nil
}

func (r *fakeProjectRepo) FindMembers(projectID uint64) ([]models.ProjectMember, error) {
	p, err := r.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	return p.Members, nil
}

func (r *fakeProjectRepo) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	for i := range r.members {
		if r.members[i].ProjectID == projectID && r.members[i].UserID == userID {
			m := r.members[i]
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) AddMember(projectID, userID uint64) error {
	if r.addMemberErr != nil {
		return r.addMemberErr
	}
	if _, err := r.FindMember(projectID, userID); err == nil {
		return gorm.ErrDuplicatedKey
	}
	r.writes++
	r.members = append(r.members, models.ProjectMember{ID: uint64(len(r.members) + 1), ProjectID: projectID, UserID: userID})
	return nil
}

func (r *fakeProjectRepo) RemoveMember(projectID, userID uint64) error {
	for i := range r.members {
		if r.members[i].ProjectID == projectID && r.members[i].UserID == userID {
			r.writes++
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) SetFavorite(projectID, userID uint64, isFavorite bool) error {
	r.writes++
	for i := range r.members {
		if r.members[i].ProjectID == projectID && r.members[i].UserID == userID {
			r.members[i].IsFavorite = isFavorite
		}
	}
	return nil
}

func (r *fakeProjectRepo) FindReviewCategories(projectID uint64) ([]models.ReviewCategory, error) {
	var result []models.ReviewCategory
	for _, c := range r.categories {
		if c.ProjectID == projectID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

var _ repository.ProjectRepository = (*fakeProjectRepo)(nil)

// fakeTaskRepo 内存任务Repository
type fakeTaskRepo struct {
	tasks   map[uint64]*models.Task
	entries map[uint64][]float64
	nextID  uint64
	deleted []uint64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uint64]*models.Task), entries: make(map[uint64][]float64), nextID: 1}
}

func (r *fakeTaskRepo) withHours(t models.Task) models.Task {
	t.ActualHours = 0
	for _, h := range r.entries[t.ID] {
		t.ActualHours += h
	}
	return t
}

func (r *fakeTaskRepo) FindByProject(projectID uint64) ([]models.Task, error) {
	var result []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			result = append(result, r.withHours(*t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Level != result[j].Level {
			return result[i].Level < result[j].Level
		}
		return result[i].DisplayOrder < result[j].DisplayOrder
	})
	return result, nil
}

func (r *fakeTaskRepo) FindByID(projectID, taskID uint64) (*models.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, gorm.ErrRecordNotFound
	}
	found := r.withHours(*t)
	return &found, nil
}

func (r *fakeTaskRepo) GetMaxDisplayOrder(projectID uint64, parentTaskID *uint64) (int, error) {
	maxOrder := 0
	for _, t := range r.tasks {
		if t.ProjectID != projectID || !sameParent(t.ParentTaskID, parentTaskID) {
			continue
		}
		if t.DisplayOrder > maxOrder {
			maxOrder = t.DisplayOrder
		}
	}
	return maxOrder, nil
}

func sameParent(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeTaskRepo) CountChildren(taskID uint64) (int64, error) {
	var count int64
	for _, t := range r.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == taskID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) CountReportEntries(taskID uint64) (int64, error) {
	return int64(len(r.entries[taskID])), nil
}

func (r *fakeTaskRepo) Create(task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) Update(id uint64, updates map[string]interface{}) error {
	t := r.tasks[id]
	for k, v := range updates {
		switch k {
		case "name":
			t.Name = v.(string)
		case "status":
			t.Status = v.(models.TaskStatus)
		case "display_order":
			t.DisplayOrder = v.(int)
		case "start_date":
			t.StartDate = optString(v)
		case "end_date":
			t.EndDate = optString(v)
		case "assignee_id":
			if v == nil {
				t.AssigneeID = nil
			} else {
				id := v.(uint64)
				t.AssigneeID = &id
			}
		case "planned_hours":
			if v == nil {
				t.PlannedHours = nil
			} else {
				h := v.(float64)
				t.PlannedHours = &h
			}
		}
	}
	return nil
}

func optString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func (r *fakeTaskRepo) Delete(id uint64) error {
	delete(r.tasks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)

// fakeLimiter 内存登录失败计数
type fakeLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func newFakeLimiter(maxFailures int) *fakeLimiter {
	return &fakeLimiter{max: maxFailures, failures: make(map[string]int)}
}

func (l *fakeLimiter) IsBlocked(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[key] >= l.max, nil
}

func (l *fakeLimiter) RecordFailure(_ context.Context, key string) (int, error) {
	l.failures[key]++
	return l.failures[key], nil
}

func (l *fakeLimiter) Reset(_ context.Context, key string) error {
	delete(l.failures, key)
	return nil
}
