package service

import (
	"testing"

	"pm-go/internal/apperror"
	"pm-go/internal/dto"
	"pm-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type projectFixture struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	svc      *ProjectService
}

func newProjectFixture() *projectFixture {
	users := newFakeUserRepo(
		&models.User{ID: 1, Name: "管理者", Email: "admin@example.com", Role: models.RoleAdmin},
		&models.User{ID: 5, Name: "PM太郎", Email: "pm@example.com", Role: models.RolePM},
		&models.User{ID: 10, Name: "作成者", Email: "creator@example.com", Role: models.RolePMO},
		&models.User{ID: 20, Name: "開発者", Email: "dev@example.com", Role: models.RoleDeveloper},
		&models.User{ID: 99, Name: "部外者", Email: "other@example.com", Role: models.RoleDeveloper},
	)
	projects := newFakeProjectRepo(users)
	return &projectFixture{
		users:    users,
		projects: projects,
		svc:      NewProjectService(projects, users, nullLogger()),
	}
}

func (f *projectFixture) create(t *testing.T, creatorID, pmID uint64) *dto.ProjectDetail {
	t.Helper()
	detail, err := f.svc.CreateProject(creatorID, &dto.CreateProjectRequest{
		Name:      "新規プロジェクト",
		StartDate: "2026-01-01",
		PMID:      pmID,
	})
	require.NoError(t, err)
	return detail
}

func memberIDs(t *testing.T, svc *ProjectService, projectID uint64) []uint64 {
	t.Helper()
	members, err := svc.GetMembers(projectID)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func TestCreateProject_CreatorDiffersFromPM(t *testing.T) {
	f := newProjectFixture()

	detail := f.create(t, 10, 5)

	assert.ElementsMatch(t, []uint64{5, 10}, memberIDs(t, f.svc, detail.ID))
	assert.Equal(t, 1, f.projects.writes, "one atomic write")
	assert.Equal(t, uint64(5), detail.PMID)
	assert.Equal(t, "PM太郎", detail.PMName)
	assert.Equal(t, "active", detail.Status)

	categories, err := f.svc.GetReviewCategories(detail.ID)
	require.NoError(t, err)
	require.Len(t, categories, 5)
	names := []string{"設計漏れ", "実装誤り", "テスト不足", "スタイル", "その他"}
	for i, c := range categories {
		assert.Equal(t, names[i], c.Name)
		assert.Equal(t, i+1, c.SortOrder)
	}
}

func TestCreateProject_CreatorIsPM(t *testing.T) {
	f := newProjectFixture()

	detail := f.create(t, 5, 5)

	assert.Equal(t, []uint64{5}, memberIDs(t, f.svc, detail.ID))
}

func TestCreateProject_Failures(t *testing.T) {
	f := newProjectFixture()

	_, err := f.svc.CreateProject(10, &dto.CreateProjectRequest{Name: "P", StartDate: "2026-01-01", PMID: 404})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.projects.failCreate = true
	_, err = f.svc.CreateProject(10, &dto.CreateProjectRequest{Name: "P", StartDate: "2026-01-01", PMID: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.Empty(t, f.projects.projects)
	assert.Empty(t, f.projects.members)
}

func TestResolvePM_FallsBackToCreator(t *testing.T) {
	f := newProjectFixture()

	// PM 座位由 developer 担任时，回退到创建者
	detail := f.create(t, 10, 20)

	assert.Equal(t, uint64(10), detail.PMID)
	assert.Equal(t, "作成者", detail.PMName)
}

func TestGetProjects(t *testing.T) {
	f := newProjectFixture()
	first := f.create(t, 10, 5)
	second := f.create(t, 1, 5)
	require.NoError(t, f.svc.AddMember(second.ID, 20))

	archived := "archived"
	_, err := f.svc.UpdateProject(first.ID, &dto.UpdateProjectRequest{Status: &archived})
	require.NoError(t, err)

	all, err := f.svc.GetProjects(1, models.RoleAdmin, StatusFilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.svc.GetProjects(1, models.RoleAdmin, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	devView, err := f.svc.GetProjects(20, models.RoleDeveloper, StatusFilterAll)
	require.NoError(t, err)
	require.Len(t, devView, 1)
	assert.Equal(t, second.ID, devView[0].ID)
	assert.Equal(t, "PM太郎", devView[0].PMName)

	outsider, err := f.svc.GetProjects(99, models.RoleDeveloper, StatusFilterAll)
	require.NoError(t, err)
	assert.Empty(t, outsider)

	_, err = f.svc.GetProjects(1, models.RoleAdmin, "deleted")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGetProjects_FavoriteIsCallerScoped(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)
	require.NoError(t, f.svc.ToggleFavorite(p.ID, 5, true))

	pmView, err := f.svc.GetProjects(5, models.RolePM, "active")
	require.NoError(t, err)
	require.Len(t, pmView, 1)
	assert.True(t, pmView[0].IsFavorite)

	creatorView, err := f.svc.GetProjects(10, models.RolePMO, "active")
	require.NoError(t, err)
	require.Len(t, creatorView, 1)
	assert.False(t, creatorView[0].IsFavorite)

	adminView, err := f.svc.GetProjects(1, models.RoleAdmin, "active")
	require.NoError(t, err)
	require.Len(t, adminView, 1)
	assert.False(t, adminView[0].IsFavorite, "admin is not a member")
}

func TestGetProjectByID_NotFound(t *testing.T) {
	f := newProjectFixture()
	_, err := f.svc.GetProjectByID(1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateProject_PartialAndNullable(t *testing.T) {
	f := newProjectFixture()
	desc := "説明"
	end := "2026-12-31"
	created, err := f.svc.CreateProject(10, &dto.CreateProjectRequest{
		Name: "P", StartDate: "2026-01-01", EndDate: &end, Description: &desc, PMID: 5,
	})
	require.NoError(t, err)

	name := "改名"
	updated, err := f.svc.UpdateProject(created.ID, &dto.UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "改名", updated.Name)
	require.NotNil(t, updated.EndDate)
	require.NotNil(t, updated.Description, "unsupplied fields are untouched")

	updated, err = f.svc.UpdateProject(created.ID, &dto.UpdateProjectRequest{
		EndDate:     dto.Null[string](),
		Description: dto.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "改名", updated.Name)

	_, err = f.svc.UpdateProject(404, &dto.UpdateProjectRequest{Name: &name})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestToggleFavorite_NonMember(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)
	writes := f.projects.writes

	err := f.svc.ToggleFavorite(p.ID, 99, true)

	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, writes, f.projects.writes, "no write occurs")
}

func TestToggleFavorite_UnknownProject(t *testing.T) {
	f := newProjectFixture()
	err := f.svc.ToggleFavorite(1, 99, true)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAddMember(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)

	require.NoError(t, f.svc.AddMember(p.ID, 20))
	assert.Contains(t, memberIDs(t, f.svc, p.ID), uint64(20))

	err := f.svc.AddMember(p.ID, 20)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	err = f.svc.AddMember(p.ID, 404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = f.svc.AddMember(404, 20)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAddMember_ConcurrentInsert(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)

	f.projects.addMemberErr = gorm.ErrDuplicatedKey
	err := f.svc.AddMember(p.ID, 20)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	f.projects.addMemberErr = errStorage
	err = f.svc.AddMember(p.ID, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	_, isAppErr := apperror.As(err)
	assert.False(t, isAppErr)
}

func TestUpdateProject_RejectsMalformedEndDate(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)
	writes := f.projects.writes

	for _, bad := range []string{"", "2026/12/31", "2026-02-30"} {
		_, err := f.svc.UpdateProject(p.ID, &dto.UpdateProjectRequest{EndDate: dto.NewNullable(bad)})
		assert.True(t, apperror.Is(err, apperror.KindValidation), "end_date %q", bad)
	}
	assert.Equal(t, writes, f.projects.writes)
}

func TestRemoveMember(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)

	require.NoError(t, f.svc.RemoveMember(p.ID, 10))
	assert.Equal(t, []uint64{5}, memberIDs(t, f.svc, p.ID))

	err := f.svc.RemoveMember(p.ID, 10)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGetMembers(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)
	require.NoError(t, f.svc.ToggleFavorite(p.ID, 10, true))

	members, err := f.svc.GetMembers(p.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "pm@example.com", members[0].Email)
	assert.Equal(t, "pm", members[0].Role)
	assert.False(t, members[0].IsFavorite)
	assert.True(t, members[1].IsFavorite)

	_, err = f.svc.GetMembers(404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestIsMember(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t, 10, 5)

	ok, err := f.svc.IsMember(p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.IsMember(p.ID, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetReviewCategories_NotFound(t *testing.T) {
	f := newProjectFixture()
	_, err := f.svc.GetReviewCategories(404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
