package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/services"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComponentServiceFindByHash(t *testing.T) {
	user := models.User{Model: models.Model{ID: uuid.New()}, Username: "alice"}
	projectID := uuid.New()
	sha256 := strings.Repeat("a", 64)
	opts, err := shared.NewQueryOptions(shared.PageInfo{Limit: 5}, nil)
	require.NoError(t, err)

	acl := mocks.NewACLInjector(t)
	acl.On("Scope", mock.Anything, user).Return(shared.RestrictedScope([]uuid.UUID{projectID}))

	repository := mocks.NewComponentRepository(t)
	repository.On("Search", mock.Anything, mock.MatchedBy(func(filter *querybuilder.ComponentFilterBuilder) bool {
		where, params, err := filter.Build(querybuilder.Postgres)
		return err == nil &&
			strings.Contains(where, `"components"."sha256" = @hash_1`) &&
			strings.Contains(where, `"components"."blake2b_256" = @hash_3`) &&
			strings.Contains(where, `"components"."project_id" IN @acl_1`) &&
			params["hash_1"] == sha256
	}), opts).Return(shared.NewPaged(opts.PageInfo(), 0, []models.Component{}), nil)

	page, err := services.NewComponentService(repository, acl).FindByHash(context.Background(), user, sha256, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}
