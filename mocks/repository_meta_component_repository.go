package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// RepositoryMetaComponentRepository is a mock type for the shared.RepositoryMetaComponentRepository type
type RepositoryMetaComponentRepository struct {
	mock.Mock
}

var _ shared.RepositoryMetaComponentRepository = &RepositoryMetaComponentRepository{}

func (_m *RepositoryMetaComponentRepository) Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error) {
	ret := _m.Called(ctx, meta)

	var r0 models.RepositoryMetaComponent
	if rf, ok := ret.Get(0).(func(context.Context, models.RepositoryMetaComponent) models.RepositoryMetaComponent); ok {
		r0 = rf(ctx, meta)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.RepositoryMetaComponent)
	}

	return r0, ret.Error(1)
}

func (_m *RepositoryMetaComponentRepository) FindByCoordinates(ctx context.Context, coordinates models.RepositoryMetaCoordinates) (models.RepositoryMetaComponent, error) {
	ret := _m.Called(ctx, coordinates)

	var r0 models.RepositoryMetaComponent
	if rf, ok := ret.Get(0).(func(context.Context, models.RepositoryMetaCoordinates) models.RepositoryMetaComponent); ok {
		r0 = rf(ctx, coordinates)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.RepositoryMetaComponent)
	}

	return r0, ret.Error(1)
}

func (_m *RepositoryMetaComponentRepository) FindByCoordinatesBatch(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) ([]models.RepositoryMetaComponent, error) {
	ret := _m.Called(ctx, coordinates)

	var r0 []models.RepositoryMetaComponent
	if rf, ok := ret.Get(0).(func(context.Context, []models.RepositoryMetaCoordinates) []models.RepositoryMetaComponent); ok {
		r0 = rf(ctx, coordinates)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.RepositoryMetaComponent)
	}

	return r0, ret.Error(1)
}

// NewRepositoryMetaComponentRepository creates a new instance of RepositoryMetaComponentRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRepositoryMetaComponentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *RepositoryMetaComponentRepository {
	m := &RepositoryMetaComponentRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
