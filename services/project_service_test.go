package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/services"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectServiceCreate(t *testing.T) {
	ctx := context.Background()
	apiKey := models.APIKey{Model: models.Model{ID: uuid.New()}, KeyPrefix: "odt_abc"}

	t.Run("creates the project and updates the acl in one transaction", func(t *testing.T) {
		project := &models.Project{Model: models.Model{ID: uuid.New()}, Name: "shop"}

		repository := mocks.NewProjectRepository(t)
		repository.On("Transaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(shared.DB) error)
			assert.NoError(t, fn(nil))
		}).Return(nil)
		repository.On("Create", mock.Anything, mock.Anything, project).Return(nil)

		acl := mocks.NewACLInjector(t)
		acl.On("UpdateNewProjectACL", mock.Anything, mock.Anything, apiKey, project.ID).Return(nil)

		dispatcher := mocks.NewIndexEventDispatcher(t)
		dispatcher.On("Dispatch", mock.Anything, shared.IndexEvent{Action: shared.IndexActionCommit, Entity: "project"}).Return()

		err := services.NewProjectService(repository, acl, dispatcher).Create(ctx, apiKey, project)
		require.NoError(t, err)
	})

	t.Run("a failed transaction dispatches nothing", func(t *testing.T) {
		repository := mocks.NewProjectRepository(t)
		repository.On("Transaction", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

		err := services.NewProjectService(repository, mocks.NewACLInjector(t), mocks.NewIndexEventDispatcher(t)).Create(ctx, apiKey, &models.Project{Name: "shop"})
		assert.Error(t, err)
	})

	t.Run("a project needs a name", func(t *testing.T) {
		err := services.NewProjectService(mocks.NewProjectRepository(t), mocks.NewACLInjector(t), mocks.NewIndexEventDispatcher(t)).Create(ctx, apiKey, &models.Project{})
		assert.Error(t, err)
	})

	t.Run("a parent outside the scope is denied", func(t *testing.T) {
		parentID := uuid.New()
		acl := mocks.NewACLInjector(t)
		acl.On("HasAccess", mock.Anything, apiKey, parentID).Return(false)

		err := services.NewProjectService(mocks.NewProjectRepository(t), acl, mocks.NewIndexEventDispatcher(t)).Create(ctx, apiKey, &models.Project{Name: "child", ParentID: &parentID})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}

func TestProjectServiceList(t *testing.T) {
	ctx := context.Background()
	user := models.User{Model: models.Model{ID: uuid.New()}, Username: "alice"}
	opts, err := shared.NewQueryOptions(shared.PageInfo{}, nil)
	require.NoError(t, err)

	t.Run("restricted scopes add the acl fragment", func(t *testing.T) {
		projectID := uuid.New()
		acl := mocks.NewACLInjector(t)
		acl.On("Scope", mock.Anything, user).Return(shared.RestrictedScope([]uuid.UUID{projectID}))

		repository := mocks.NewProjectRepository(t)
		repository.On("ListPaged", mock.Anything, mock.MatchedBy(func(filter *querybuilder.ProjectFilterBuilder) bool {
			where, params, err := filter.Build(querybuilder.SQLite)
			return err == nil && where == `"projects"."id" IN @acl_1` && len(params) == 1
		}), opts).Return(shared.NewPaged(shared.PageInfo{}, 1, []models.Project{{Model: models.Model{ID: projectID}}}), nil)

		page, err := services.NewProjectService(repository, acl, mocks.NewIndexEventDispatcher(t)).List(ctx, user, nil, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("deny all returns an empty page", func(t *testing.T) {
		acl := mocks.NewACLInjector(t)
		acl.On("Scope", mock.Anything, user).Return(shared.DenyAllScope())

		page, err := services.NewProjectService(mocks.NewProjectRepository(t), acl, mocks.NewIndexEventDispatcher(t)).List(ctx, user, querybuilder.NewProjectFilterBuilder().WithName("shop"), opts)
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Data)
	})
}

func TestProjectServiceGetChildren(t *testing.T) {
	ctx := context.Background()
	user := models.User{Model: models.Model{ID: uuid.New()}, Username: "alice"}
	parentID := uuid.New()
	visible := models.Project{Model: models.Model{ID: uuid.New()}, Name: "visible", ParentID: &parentID}
	hidden := models.Project{Model: models.Model{ID: uuid.New()}, Name: "hidden", ParentID: &parentID}

	acl := mocks.NewACLInjector(t)
	acl.On("Scope", mock.Anything, user).Return(shared.RestrictedScope([]uuid.UUID{parentID, visible.ID}))

	repository := mocks.NewProjectRepository(t)
	repository.On("GetDirectChildren", mock.Anything, parentID).Return([]models.Project{hidden, visible}, nil)

	children, err := services.NewProjectService(repository, acl, mocks.NewIndexEventDispatcher(t)).GetChildren(ctx, user, parentID)
	require.NoError(t, err)
	assert.Equal(t, []models.Project{visible}, children)
}
