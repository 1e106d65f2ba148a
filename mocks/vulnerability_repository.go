package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// VulnerabilityRepository is a mock type for the shared.VulnerabilityRepository type
type VulnerabilityRepository struct {
	mock.Mock
}

var _ shared.VulnerabilityRepository = &VulnerabilityRepository{}

func (_m *VulnerabilityRepository) Create(ctx context.Context, vulnerability *models.Vulnerability) error {
	ret := _m.Called(ctx, vulnerability)
	return ret.Error(0)
}

func (_m *VulnerabilityRepository) GetBySourceAndVulnID(ctx context.Context, source string, vulnID string) (models.Vulnerability, error) {
	ret := _m.Called(ctx, source, vulnID)

	var r0 models.Vulnerability
	if rf, ok := ret.Get(0).(func(context.Context, string, string) models.Vulnerability); ok {
		r0 = rf(ctx, source, vulnID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Vulnerability)
	}

	return r0, ret.Error(1)
}

func (_m *VulnerabilityRepository) GetAliases(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID][]models.VulnerabilityAlias, error) {
	ret := _m.Called(ctx, vulnerabilityIDs)

	var r0 map[uuid.UUID][]models.VulnerabilityAlias
	if rf, ok := ret.Get(0).(func(context.Context, []uuid.UUID) map[uuid.UUID][]models.VulnerabilityAlias); ok {
		r0 = rf(ctx, vulnerabilityIDs)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[uuid.UUID][]models.VulnerabilityAlias)
	}

	return r0, ret.Error(1)
}

func (_m *VulnerabilityRepository) GetTexts(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID]models.Vulnerability, error) {
	ret := _m.Called(ctx, vulnerabilityIDs)

	var r0 map[uuid.UUID]models.Vulnerability
	if rf, ok := ret.Get(0).(func(context.Context, []uuid.UUID) map[uuid.UUID]models.Vulnerability); ok {
		r0 = rf(ctx, vulnerabilityIDs)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[uuid.UUID]models.Vulnerability)
	}

	return r0, ret.Error(1)
}

// NewVulnerabilityRepository creates a new instance of VulnerabilityRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewVulnerabilityRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *VulnerabilityRepository {
	m := &VulnerabilityRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
