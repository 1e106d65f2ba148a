package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// ComponentRepository is a mock type for the shared.ComponentRepository type
type ComponentRepository struct {
	mock.Mock
}

var _ shared.ComponentRepository = &ComponentRepository{}

func (_m *ComponentRepository) Read(ctx context.Context, id uuid.UUID) (models.Component, error) {
	ret := _m.Called(ctx, id)

	var r0 models.Component
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) models.Component); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Component)
	}

	return r0, ret.Error(1)
}

func (_m *ComponentRepository) Create(ctx context.Context, component *models.Component) error {
	ret := _m.Called(ctx, component)
	return ret.Error(0)
}

func (_m *ComponentRepository) AddVulnerability(ctx context.Context, componentID uuid.UUID, vulnerabilityID uuid.UUID) error {
	ret := _m.Called(ctx, componentID, vulnerabilityID)
	return ret.Error(0)
}

func (_m *ComponentRepository) Search(ctx context.Context, filter *querybuilder.ComponentFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Component], error) {
	ret := _m.Called(ctx, filter, opts)

	var r0 shared.Paged[models.Component]
	if rf, ok := ret.Get(0).(func(context.Context, *querybuilder.ComponentFilterBuilder, shared.QueryOptions) shared.Paged[models.Component]); ok {
		r0 = rf(ctx, filter, opts)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(shared.Paged[models.Component])
	}

	return r0, ret.Error(1)
}

// NewComponentRepository creates a new instance of ComponentRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewComponentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ComponentRepository {
	m := &ComponentRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
