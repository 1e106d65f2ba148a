package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// IndexEventDispatcher is a mock type for the shared.IndexEventDispatcher type
type IndexEventDispatcher struct {
	mock.Mock
}

var _ shared.IndexEventDispatcher = &IndexEventDispatcher{}

func (_m *IndexEventDispatcher) Dispatch(ctx context.Context, event shared.IndexEvent) {
	_m.Called(ctx, event)
}

// NewIndexEventDispatcher creates a new instance of IndexEventDispatcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewIndexEventDispatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *IndexEventDispatcher {
	m := &IndexEventDispatcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
