package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// PermissionChecker is a mock type for the shared.PermissionChecker type
type PermissionChecker struct {
	mock.Mock
}

var _ shared.PermissionChecker = &PermissionChecker{}

func (_m *PermissionChecker) HasPermission(ctx context.Context, principal models.Principal, teamIDs []uuid.UUID, permission string) (bool, error) {
	ret := _m.Called(ctx, principal, teamIDs, permission)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, models.Principal, []uuid.UUID, string) bool); ok {
		r0 = rf(ctx, principal, teamIDs, permission)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(bool)
	}

	return r0, ret.Error(1)
}

func (_m *PermissionChecker) GrantToTeam(teamID uuid.UUID, permission string) error {
	ret := _m.Called(teamID, permission)
	return ret.Error(0)
}

func (_m *PermissionChecker) GrantToPrincipal(principal models.Principal, permission string) error {
	ret := _m.Called(principal, permission)
	return ret.Error(0)
}

// NewPermissionChecker creates a new instance of PermissionChecker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPermissionChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *PermissionChecker {
	m := &PermissionChecker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
