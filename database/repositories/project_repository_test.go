package repositories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/database/repositories"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewProjectRepository(db)

	shop := models.Project{Name: "shop", Version: "1.0", Classifier: "APPLICATION", Tags: []models.Tag{{Name: "pci"}}}
	require.NoError(t, repository.Create(ctx, nil, &shop))
	backend := models.Project{Name: "shop-backend", ParentID: &shop.ID, Tags: []models.Tag{{Name: "pci"}, {Name: "internal"}}}
	require.NoError(t, repository.Create(ctx, nil, &backend))
	inactive := false
	legacy := models.Project{Name: "legacy", Active: &inactive}
	require.NoError(t, repository.Create(ctx, nil, &legacy))

	opts, err := shared.NewQueryOptions(shared.PageInfo{Limit: 10}, nil)
	require.NoError(t, err)

	t.Run("tags are shared by name", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "pci").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		read, err := repository.Read(ctx, backend.ID)
		require.NoError(t, err)
		assert.Len(t, read.Tags, 2)
	})

	t.Run("reading a missing project is not found", func(t *testing.T) {
		_, err := repository.Read(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds projects by name and version", func(t *testing.T) {
		project, err := repository.GetByNameAndVersion(ctx, "shop", "1.0")
		require.NoError(t, err)
		assert.Equal(t, shop.ID, project.ID)
	})

	t.Run("lists by filter sorted by name", func(t *testing.T) {
		page, err := repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder(), opts)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, []string{"legacy", "shop", "shop-backend"}, []string{page.Data[0].Name, page.Data[1].Name, page.Data[2].Name})

		page, err = repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder().WithTag("internal"), opts)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, backend.ID, page.Data[0].ID)

		page, err = repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder().WithParent(shop.ID), opts)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
	})

	t.Run("an offset without a limit skips the first rows", func(t *testing.T) {
		skipOpts, err := shared.NewQueryOptions(shared.PageInfo{Offset: 1}, nil)
		require.NoError(t, err)
		page, err := repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder(), skipOpts)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "shop", page.Data[0].Name)
	})

	t.Run("inactive and child projects can be excluded", func(t *testing.T) {
		page, err := repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder().ExcludeInactive().ExcludeChildProjects(), opts)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, shop.ID, page.Data[0].ID)
	})

	t.Run("the scope limits the listed projects", func(t *testing.T) {
		filter := querybuilder.NewProjectFilterBuilder().WithScope(shared.RestrictedScope([]uuid.UUID{shop.ID, legacy.ID}))
		page, err := repository.ListPaged(ctx, filter, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		filter = querybuilder.NewProjectFilterBuilder().WithScope(shared.DenyAllScope())
		page, err = repository.ListPaged(ctx, filter, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("scopes above the bind limit are matched by literal ids", func(t *testing.T) {
		ids := []uuid.UUID{shop.ID, legacy.ID}
		for len(ids) <= querybuilder.SQLite.MaxBoundIDs() {
			ids = append(ids, uuid.New())
		}
		filter := querybuilder.NewProjectFilterBuilder().WithScope(shared.RestrictedScope(ids))
		page, err := repository.ListPaged(ctx, filter, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("unknown sort fields are rejected", func(t *testing.T) {
		_, err := repository.ListPaged(ctx, querybuilder.NewProjectFilterBuilder(), opts.WithSort("owner", shared.SortAsc))
		assert.ErrorIs(t, err, shared.ErrUnknownSortField)
	})

	t.Run("granting a team twice keeps one grant", func(t *testing.T) {
		team := models.Team{Name: "appsec"}
		require.NoError(t, repositories.NewTeamRepository(db).Create(ctx, &team))

		require.NoError(t, repository.GrantTeam(ctx, nil, shop.ID, team.ID))
		require.NoError(t, repository.GrantTeam(ctx, nil, shop.ID, team.ID))

		granted, err := repositories.NewTeamRepository(db).GetProjectIDsGrantedToTeams(ctx, []uuid.UUID{team.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{shop.ID}, granted)
	})

	t.Run("children are listed by name", func(t *testing.T) {
		children, err := repository.GetDirectChildren(ctx, shop.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, backend.ID, children[0].ID)
	})
}

func TestTeamRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewTeamRepository(db)

	first := models.Team{Name: "first"}
	second := models.Team{Name: "second"}
	require.NoError(t, repository.Create(ctx, &first))
	require.NoError(t, repository.Create(ctx, &second))

	user := models.User{Username: "alice"}
	require.NoError(t, db.Create(&user).Error)
	apiKey := models.APIKey{KeyPrefix: "odt_abc"}
	require.NoError(t, db.Create(&apiKey).Error)

	require.NoError(t, repository.AddMember(ctx, first.ID, user))
	require.NoError(t, repository.AddMember(ctx, second.ID, user))
	require.NoError(t, repository.AddMember(ctx, second.ID, user))
	require.NoError(t, repository.AddMember(ctx, first.ID, apiKey))

	teamIDs, err := repository.GetTeamIDsOfPrincipal(ctx, user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, teamIDs)

	teamIDs, err = repository.GetTeamIDsOfPrincipal(ctx, apiKey)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, teamIDs)

	projectIDs, err := repository.GetProjectIDsGrantedToTeams(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, projectIDs)
}
