package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock type for the shared.ProjectRepository type
type ProjectRepository struct {
	mock.Mock
}

var _ shared.ProjectRepository = &ProjectRepository{}

func (_m *ProjectRepository) Read(ctx context.Context, id uuid.UUID) (models.Project, error) {
	ret := _m.Called(ctx, id)

	var r0 models.Project
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) models.Project); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Project)
	}

	return r0, ret.Error(1)
}

func (_m *ProjectRepository) Create(ctx context.Context, tx shared.DB, project *models.Project) error {
	ret := _m.Called(ctx, tx, project)
	return ret.Error(0)
}

func (_m *ProjectRepository) GetByNameAndVersion(ctx context.Context, name string, version string) (models.Project, error) {
	ret := _m.Called(ctx, name, version)

	var r0 models.Project
	if rf, ok := ret.Get(0).(func(context.Context, string, string) models.Project); ok {
		r0 = rf(ctx, name, version)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Project)
	}

	return r0, ret.Error(1)
}

func (_m *ProjectRepository) ListPaged(ctx context.Context, filter *querybuilder.ProjectFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Project], error) {
	ret := _m.Called(ctx, filter, opts)

	var r0 shared.Paged[models.Project]
	if rf, ok := ret.Get(0).(func(context.Context, *querybuilder.ProjectFilterBuilder, shared.QueryOptions) shared.Paged[models.Project]); ok {
		r0 = rf(ctx, filter, opts)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(shared.Paged[models.Project])
	}

	return r0, ret.Error(1)
}

func (_m *ProjectRepository) GetDirectChildren(ctx context.Context, parentID uuid.UUID) ([]models.Project, error) {
	ret := _m.Called(ctx, parentID)

	var r0 []models.Project
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) []models.Project); ok {
		r0 = rf(ctx, parentID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Project)
	}

	return r0, ret.Error(1)
}

func (_m *ProjectRepository) GrantTeam(ctx context.Context, tx shared.DB, projectID uuid.UUID, teamID uuid.UUID) error {
	ret := _m.Called(ctx, tx, projectID, teamID)
	return ret.Error(0)
}

func (_m *ProjectRepository) Transaction(ctx context.Context, fn func(tx shared.DB) error) error {
	ret := _m.Called(ctx, fn)
	return ret.Error(0)
}

// NewProjectRepository creates a new instance of ProjectRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProjectRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProjectRepository {
	m := &ProjectRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
