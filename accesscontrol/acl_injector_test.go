package accesscontrol_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/accesscontrol"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type injectorMocks struct {
	teams       *mocks.TeamRepository
	properties  *mocks.ConfigPropertyRepository
	permissions *mocks.PermissionChecker
	resolver    *mocks.DescendantResolver
	projects    *mocks.ProjectRepository
}

func newInjector(t *testing.T) (shared.ACLInjector, injectorMocks) {
	m := injectorMocks{
		teams:       mocks.NewTeamRepository(t),
		properties:  mocks.NewConfigPropertyRepository(t),
		permissions: mocks.NewPermissionChecker(t),
		resolver:    mocks.NewDescendantResolver(t),
		projects:    mocks.NewProjectRepository(t),
	}
	cfg := shared.Config{ACL: shared.ACLConfig{Enabled: true, Resolver: shared.ResolverCTE}}
	return accesscontrol.NewACLInjector(cfg, m.teams, m.properties, m.permissions, m.resolver, m.projects), m
}

func (m injectorMocks) aclEnabled(enabled bool, err error) {
	m.properties.On("GetBool", mock.Anything, models.ConfigGroupAccessManagement, models.ConfigPropertyACLEnabled, true).Return(enabled, err)
}

func TestACLInjectorScope(t *testing.T) {
	ctx := context.Background()
	user := models.User{Model: models.Model{ID: uuid.New()}, Username: "alice"}
	teamID := uuid.New()
	granted := uuid.New()
	child := uuid.New()

	t.Run("requests without principal are not restricted", func(t *testing.T) {
		injector, _ := newInjector(t)
		assert.True(t, injector.Scope(ctx, nil).IsUnrestricted())

		var nilUser *models.User
		assert.True(t, injector.Scope(ctx, nilUser).IsUnrestricted())
	})

	t.Run("a disabled acl is not restricted", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(false, nil)

		assert.True(t, injector.Scope(ctx, user).IsUnrestricted())
	})

	t.Run("access management overrides the acl", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{teamID}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{teamID}, models.PermissionAccessManagement).Return(true, nil)

		assert.True(t, injector.Scope(ctx, user).IsUnrestricted())
	})

	t.Run("granted projects are expanded to their descendants", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{teamID}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{teamID}, models.PermissionAccessManagement).Return(false, nil)
		m.teams.On("GetProjectIDsGrantedToTeams", mock.Anything, []uuid.UUID{teamID}).Return([]uuid.UUID{granted}, nil)
		m.resolver.On("Descendants", mock.Anything, []uuid.UUID{granted}).Return([]uuid.UUID{granted, child}, nil)

		scope := injector.Scope(ctx, user)
		assert.False(t, scope.IsUnrestricted())
		assert.ElementsMatch(t, []uuid.UUID{granted, child}, scope.ProjectIDs())
		assert.True(t, scope.Allows(child))
		assert.False(t, scope.Allows(uuid.New()))
	})

	t.Run("an unreadable switch keeps the acl enforced", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(false, errors.New("no such table"))
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{}, models.PermissionAccessManagement).Return(false, nil)

		assert.True(t, injector.Scope(ctx, user).IsDenyAll())
	})

	t.Run("principals without teams see nothing", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{}, models.PermissionAccessManagement).Return(false, nil)

		assert.True(t, injector.Scope(ctx, user).IsDenyAll())
	})

	t.Run("resolution errors deny everything", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{teamID}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{teamID}, models.PermissionAccessManagement).Return(false, nil)
		m.teams.On("GetProjectIDsGrantedToTeams", mock.Anything, []uuid.UUID{teamID}).Return([]uuid.UUID{granted}, nil)
		m.resolver.On("Descendants", mock.Anything, []uuid.UUID{granted}).Return(nil, errors.New("recursion limit"))

		scope := injector.Scope(ctx, user)
		assert.True(t, scope.IsDenyAll())
		assert.False(t, scope.Allows(granted))
	})

	t.Run("permission check errors deny everything", func(t *testing.T) {
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, user).Return([]uuid.UUID{teamID}, nil)
		m.permissions.On("HasPermission", mock.Anything, user, []uuid.UUID{teamID}, models.PermissionAccessManagement).Return(false, errors.New("enforcer not ready"))

		assert.True(t, injector.Scope(ctx, user).IsDenyAll())
	})
}

func TestACLInjectorUpdateNewProjectACL(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	firstTeam := uuid.New()
	secondTeam := uuid.New()

	t.Run("api keys grant the project to their first team", func(t *testing.T) {
		apiKey := models.APIKey{Model: models.Model{ID: uuid.New()}, KeyPrefix: "odt_abc"}
		injector, m := newInjector(t)
		m.aclEnabled(true, nil)
		m.teams.On("GetTeamIDsOfPrincipal", mock.Anything, apiKey).Return([]uuid.UUID{firstTeam, secondTeam}, nil)
		m.projects.On("GrantTeam", mock.Anything, mock.Anything, projectID, firstTeam).Return(nil)

		assert.NoError(t, injector.UpdateNewProjectACL(ctx, nil, apiKey, projectID))
	})

	t.Run("users grant nothing", func(t *testing.T) {
		injector, _ := newInjector(t)
		user := models.User{Model: models.Model{ID: uuid.New()}, Username: "alice"}

		assert.NoError(t, injector.UpdateNewProjectACL(ctx, nil, user, projectID))
	})

	t.Run("nothing is granted while the acl is disabled", func(t *testing.T) {
		apiKey := models.APIKey{Model: models.Model{ID: uuid.New()}, KeyPrefix: "odt_def"}
		injector, m := newInjector(t)
		m.aclEnabled(false, nil)

		assert.NoError(t, injector.UpdateNewProjectACL(ctx, nil, apiKey, projectID))
	})
}
