package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// FindingRepository is a mock type for the shared.FindingRepository type
type FindingRepository struct {
	mock.Mock
}

var _ shared.FindingRepository = &FindingRepository{}

func (_m *FindingRepository) Count(ctx context.Context, stmt querybuilder.Statement) (int64, error) {
	ret := _m.Called(ctx, stmt)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, querybuilder.Statement) int64); ok {
		r0 = rf(ctx, stmt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

func (_m *FindingRepository) Find(ctx context.Context, stmt querybuilder.Statement) ([]models.FindingRow, error) {
	ret := _m.Called(ctx, stmt)

	var r0 []models.FindingRow
	if rf, ok := ret.Get(0).(func(context.Context, querybuilder.Statement) []models.FindingRow); ok {
		r0 = rf(ctx, stmt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.FindingRow)
	}

	return r0, ret.Error(1)
}

func (_m *FindingRepository) FindGrouped(ctx context.Context, stmt querybuilder.Statement) ([]models.GroupedFindingRow, error) {
	ret := _m.Called(ctx, stmt)

	var r0 []models.GroupedFindingRow
	if rf, ok := ret.Get(0).(func(context.Context, querybuilder.Statement) []models.GroupedFindingRow); ok {
		r0 = rf(ctx, stmt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.GroupedFindingRow)
	}

	return r0, ret.Error(1)
}

// NewFindingRepository creates a new instance of FindingRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewFindingRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *FindingRepository {
	m := &FindingRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
