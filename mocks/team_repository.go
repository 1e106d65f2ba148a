package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// TeamRepository is a mock type for the shared.TeamRepository type
type TeamRepository struct {
	mock.Mock
}

var _ shared.TeamRepository = &TeamRepository{}

func (_m *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	ret := _m.Called(ctx, team)
	return ret.Error(0)
}

func (_m *TeamRepository) AddMember(ctx context.Context, teamID uuid.UUID, principal models.Principal) error {
	ret := _m.Called(ctx, teamID, principal)
	return ret.Error(0)
}

func (_m *TeamRepository) GetTeamIDsOfPrincipal(ctx context.Context, principal models.Principal) ([]uuid.UUID, error) {
	ret := _m.Called(ctx, principal)

	var r0 []uuid.UUID
	if rf, ok := ret.Get(0).(func(context.Context, models.Principal) []uuid.UUID); ok {
		r0 = rf(ctx, principal)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}

	return r0, ret.Error(1)
}

func (_m *TeamRepository) GetProjectIDsGrantedToTeams(ctx context.Context, teamIDs []uuid.UUID) ([]uuid.UUID, error) {
	ret := _m.Called(ctx, teamIDs)

	var r0 []uuid.UUID
	if rf, ok := ret.Get(0).(func(context.Context, []uuid.UUID) []uuid.UUID); ok {
		r0 = rf(ctx, teamIDs)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}

	return r0, ret.Error(1)
}

// NewTeamRepository creates a new instance of TeamRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTeamRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *TeamRepository {
	m := &TeamRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
