package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// ACLInjector is a mock type for the shared.ACLInjector type
type ACLInjector struct {
	mock.Mock
}

var _ shared.ACLInjector = &ACLInjector{}

func (_m *ACLInjector) Scope(ctx context.Context, principal models.Principal) shared.ACLScope {
	ret := _m.Called(ctx, principal)

	var r0 shared.ACLScope
	if rf, ok := ret.Get(0).(func(context.Context, models.Principal) shared.ACLScope); ok {
		r0 = rf(ctx, principal)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(shared.ACLScope)
	}

	return r0
}

func (_m *ACLInjector) HasAccess(ctx context.Context, principal models.Principal, projectID uuid.UUID) bool {
	ret := _m.Called(ctx, principal, projectID)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, models.Principal, uuid.UUID) bool); ok {
		r0 = rf(ctx, principal, projectID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

func (_m *ACLInjector) UpdateNewProjectACL(ctx context.Context, tx shared.DB, principal models.Principal, projectID uuid.UUID) error {
	ret := _m.Called(ctx, tx, principal, projectID)
	return ret.Error(0)
}

// NewACLInjector creates a new instance of ACLInjector. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewACLInjector(t interface {
	mock.TestingT
	Cleanup(func())
}) *ACLInjector {
	m := &ACLInjector{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
