package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// DescendantResolver is a mock type for the shared.DescendantResolver type
type DescendantResolver struct {
	mock.Mock
}

var _ shared.DescendantResolver = &DescendantResolver{}

func (_m *DescendantResolver) Descendants(ctx context.Context, roots []uuid.UUID) ([]uuid.UUID, error) {
	ret := _m.Called(ctx, roots)

	var r0 []uuid.UUID
	if rf, ok := ret.Get(0).(func(context.Context, []uuid.UUID) []uuid.UUID); ok {
		r0 = rf(ctx, roots)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}

	return r0, ret.Error(1)
}

// NewDescendantResolver creates a new instance of DescendantResolver. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDescendantResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *DescendantResolver {
	m := &DescendantResolver{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
