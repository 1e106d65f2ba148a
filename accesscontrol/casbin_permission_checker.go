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
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/gorm"
)

// permissions are granted to single principals or to teams, there is no role hierarchy.
const permissionModel = `
[request_definition]
r = sub, perm

[policy_definition]
p = sub, perm

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.perm == p.perm
`

var _ shared.PermissionChecker = &casbinPermissionChecker{}

type casbinPermissionChecker struct {
	enforcer *casbin.SyncedEnforcer
}

func principalSubject(principal models.Principal) string {
	return string(principal.GetKind()) + "::" + principal.GetID().String()
}

func teamSubject(teamID uuid.UUID) string {
	return "team::" + teamID.String()
}

func NewCasbinPermissionChecker(db *gorm.DB, broker shared.PubSubBroker) (*casbinPermissionChecker, error) {
	enforcer, err := buildEnforcer(db, broker)
	if err != nil {
		return nil, err
	}
	return &casbinPermissionChecker{enforcer: enforcer}, nil
}

// HasPermission reports whether the principal holds the permission directly or through one of its teams.
func (c *casbinPermissionChecker) HasPermission(ctx context.Context, principal models.Principal, teamIDs []uuid.UUID, permission string) (bool, error) {
	subjects := make([]string, 0, len(teamIDs)+1)
	subjects = append(subjects, principalSubject(principal))
	for _, teamID := range teamIDs {
		subjects = append(subjects, teamSubject(teamID))
	}

	for _, sub := range subjects {
		ok, err := c.enforcer.Enforce(sub, permission)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *casbinPermissionChecker) GrantToTeam(teamID uuid.UUID, permission string) error {
	_, err := c.enforcer.AddPolicy(teamSubject(teamID), permission)
	return err
}

func (c *casbinPermissionChecker) GrantToPrincipal(principal models.Principal, permission string) error {
	_, err := c.enforcer.AddPolicy(principalSubject(principal), permission)
	return err
}

func buildEnforcer(db *gorm.DB, broker shared.PubSubBroker) (*casbin.SyncedEnforcer, error) {
	// the adapter creates the casbin_rule table if it does not exist
	a, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewSyncedEnforcer(m, a)
	if err != nil {
		return nil, err
	}

	// reload the policy on every instance when one of them changes it
	watcher, err := newCasbinPubSubWatcher(broker)
	if err != nil {
		return nil, err
	}
	if err := e.SetWatcher(watcher); err != nil {
		return nil, fmt.Errorf("could not set watcher: %w", err)
	}
	err = watcher.SetUpdateCallback(func(string) {
		if err := e.LoadPolicy(); err != nil {
			slog.Error("error while loading policy after update", "err", err)
		} else {
			slog.Debug("policy successfully reloaded after update")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not set update callback: %w", err)
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("could not load policy: %w", err)
	}
	return e, nil
}
