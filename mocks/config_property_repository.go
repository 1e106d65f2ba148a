package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// ConfigPropertyRepository is a mock type for the shared.ConfigPropertyRepository type
type ConfigPropertyRepository struct {
	mock.Mock
}

var _ shared.ConfigPropertyRepository = &ConfigPropertyRepository{}

func (_m *ConfigPropertyRepository) GetBool(ctx context.Context, group string, name string, fallback bool) (bool, error) {
	ret := _m.Called(ctx, group, name, fallback)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string, string, bool) bool); ok {
		r0 = rf(ctx, group, name, fallback)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(bool)
	}

	return r0, ret.Error(1)
}

func (_m *ConfigPropertyRepository) Set(ctx context.Context, property models.ConfigProperty) error {
	ret := _m.Called(ctx, property)
	return ret.Error(0)
}

// NewConfigPropertyRepository creates a new instance of ConfigPropertyRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewConfigPropertyRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ConfigPropertyRepository {
	m := &ConfigPropertyRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
