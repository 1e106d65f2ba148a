package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// RepositoryMetaService is a mock type for the shared.RepositoryMetaService type
type RepositoryMetaService struct {
	mock.Mock
}

var _ shared.RepositoryMetaService = &RepositoryMetaService{}

func (_m *RepositoryMetaService) Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error) {
	ret := _m.Called(ctx, meta)

	var r0 models.RepositoryMetaComponent
	if rf, ok := ret.Get(0).(func(context.Context, models.RepositoryMetaComponent) models.RepositoryMetaComponent); ok {
		r0 = rf(ctx, meta)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.RepositoryMetaComponent)
	}

	return r0, ret.Error(1)
}

func (_m *RepositoryMetaService) Lookup(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) (map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent, error) {
	ret := _m.Called(ctx, coordinates)

	var r0 map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent
	if rf, ok := ret.Get(0).(func(context.Context, []models.RepositoryMetaCoordinates) map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent); ok {
		r0 = rf(ctx, coordinates)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent)
	}

	return r0, ret.Error(1)
}

// NewRepositoryMetaService creates a new instance of RepositoryMetaService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRepositoryMetaService(t interface {
	mock.TestingT
	Cleanup(func())
}) *RepositoryMetaService {
	m := &RepositoryMetaService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
