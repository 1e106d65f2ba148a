package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/mock"
)

// AnalysisRepository is a mock type for the shared.AnalysisRepository type
type AnalysisRepository struct {
	mock.Mock
}

var _ shared.AnalysisRepository = &AnalysisRepository{}

func (_m *AnalysisRepository) MakeAnalysis(ctx context.Context, key shared.AnalysisKey, update shared.AnalysisUpdate) (models.Analysis, error) {
	ret := _m.Called(ctx, key, update)

	var r0 models.Analysis
	if rf, ok := ret.Get(0).(func(context.Context, shared.AnalysisKey, shared.AnalysisUpdate) models.Analysis); ok {
		r0 = rf(ctx, key, update)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Analysis)
	}

	return r0, ret.Error(1)
}

func (_m *AnalysisRepository) MakeComment(ctx context.Context, analysisID uuid.UUID, comment string, commenter string) (models.AnalysisComment, error) {
	ret := _m.Called(ctx, analysisID, comment, commenter)

	var r0 models.AnalysisComment
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, string, string) models.AnalysisComment); ok {
		r0 = rf(ctx, analysisID, comment, commenter)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.AnalysisComment)
	}

	return r0, ret.Error(1)
}

func (_m *AnalysisRepository) GetMostSpecific(ctx context.Context, projectID uuid.UUID, componentID uuid.UUID, vulnerabilityID uuid.UUID) (models.Analysis, error) {
	ret := _m.Called(ctx, projectID, componentID, vulnerabilityID)

	var r0 models.Analysis
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) models.Analysis); ok {
		r0 = rf(ctx, projectID, componentID, vulnerabilityID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.Analysis)
	}

	return r0, ret.Error(1)
}

func (_m *AnalysisRepository) CountAudited(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, projectID, componentID)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, *uuid.UUID) int64); ok {
		r0 = rf(ctx, projectID, componentID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

func (_m *AnalysisRepository) CountSuppressed(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, projectID, componentID)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, *uuid.UUID) int64); ok {
		r0 = rf(ctx, projectID, componentID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

// NewAnalysisRepository creates a new instance of AnalysisRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAnalysisRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *AnalysisRepository {
	m := &AnalysisRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
