// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accesscontrol

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/monitoring"
	"github.com/l3montree-dev/devguard-findings/shared"
)

var ErrAccessDenied = shared.ErrAccessDenied

var _ shared.ACLInjector = &aclInjector{}

// aclInjector resolves the projects a principal may read. Every failure while
// resolving produces a scope that denies everything.
type aclInjector struct {
	teams       shared.TeamRepository
	properties  shared.ConfigPropertyRepository
	permissions shared.PermissionChecker
	resolver    shared.DescendantResolver
	projects    shared.ProjectRepository

	enabledByDefault bool
}

func NewACLInjector(
	cfg shared.Config,
	teams shared.TeamRepository,
	properties shared.ConfigPropertyRepository,
	permissions shared.PermissionChecker,
	resolver shared.DescendantResolver,
	projects shared.ProjectRepository,
) *aclInjector {
	return &aclInjector{
		teams:            teams,
		properties:       properties,
		permissions:      permissions,
		resolver:         resolver,
		projects:         projects,
		enabledByDefault: cfg.ACL.Enabled,
	}
}

func isNilPrincipal(principal models.Principal) bool {
	if principal == nil {
		return true
	}
	v := reflect.ValueOf(principal)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// enabled reads the runtime switch. If it cannot be read the ACL stays enforced.
func (a *aclInjector) enabled(ctx context.Context) bool {
	enabled, err := a.properties.GetBool(ctx, models.ConfigGroupAccessManagement, models.ConfigPropertyACLEnabled, a.enabledByDefault)
	if err != nil {
		slog.Warn("could not read acl switch, enforcing acl", "err", err)
		return true
	}
	return enabled
}

func denyAll(message string, err error) shared.ACLScope {
	monitoring.ACLResolutionFailedAmount.Inc()
	monitoring.Alert(message, err)
	return shared.DenyAllScope()
}

func (a *aclInjector) Scope(ctx context.Context, principal models.Principal) shared.ACLScope {
	if isNilPrincipal(principal) || !a.enabled(ctx) {
		return shared.UnrestrictedScope()
	}

	teamIDs, err := a.teams.GetTeamIDsOfPrincipal(ctx, principal)
	if err != nil {
		return denyAll("could not load teams of principal", err)
	}

	override, err := a.permissions.HasPermission(ctx, principal, teamIDs, models.PermissionAccessManagement)
	if err != nil {
		return denyAll("could not check access management permission", err)
	}
	if override {
		return shared.UnrestrictedScope()
	}

	if len(teamIDs) == 0 {
		monitoring.ACLDeniedAllAmount.Inc()
		return shared.DenyAllScope()
	}

	granted, err := a.teams.GetProjectIDsGrantedToTeams(ctx, teamIDs)
	if err != nil {
		return denyAll("could not load projects granted to teams", err)
	}
	if len(granted) == 0 {
		monitoring.ACLDeniedAllAmount.Inc()
		return shared.DenyAllScope()
	}

	projectIDs, err := a.resolver.Descendants(ctx, granted)
	if err != nil {
		return denyAll("could not resolve descendant projects", err)
	}
	return shared.RestrictedScope(projectIDs)
}

func (a *aclInjector) HasAccess(ctx context.Context, principal models.Principal, projectID uuid.UUID) bool {
	return a.Scope(ctx, principal).Allows(projectID)
}

func (a *aclInjector) UpdateNewProjectACL(ctx context.Context, tx shared.DB, principal models.Principal, projectID uuid.UUID) error {
	if isNilPrincipal(principal) || principal.GetKind() != models.PrincipalKindAPIKey || !a.enabled(ctx) {
		return nil
	}
	teamIDs, err := a.teams.GetTeamIDsOfPrincipal(ctx, principal)
	if err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	return a.projects.GrantTeam(ctx, tx, projectID, teamIDs[0])
}
