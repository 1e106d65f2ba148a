package mocks

import (
	"context"

	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// PubSubBroker is a mock type for the shared.PubSubBroker type
type PubSubBroker struct {
	mock.Mock
}

var _ shared.PubSubBroker = &PubSubBroker{}

func (_m *PubSubBroker) Publish(ctx context.Context, message shared.PubSubMessage) error {
	ret := _m.Called(ctx, message)
	return ret.Error(0)
}

func (_m *PubSubBroker) Subscribe(topic shared.PubSubChannel) (<-chan map[string]any, error) {
	ret := _m.Called(topic)

	var r0 <-chan map[string]any
	if rf, ok := ret.Get(0).(func(shared.PubSubChannel) <-chan map[string]any); ok {
		r0 = rf(topic)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan map[string]any)
	}

	return r0, ret.Error(1)
}

// NewPubSubBroker creates a new instance of PubSubBroker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPubSubBroker(t interface {
	mock.TestingT
	Cleanup(func())
}) *PubSubBroker {
	m := &PubSubBroker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
