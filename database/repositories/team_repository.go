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

package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *teamRepository {
	return &teamRepository{db: db}
}

func membershipTable(principal models.Principal) (table string, column string, err error) {
	switch principal.GetKind() {
	case models.PrincipalKindUser:
		return "user_teams", "user_id", nil
	case models.PrincipalKindAPIKey:
		return "api_key_teams", "api_key_id", nil
	}
	return "", "", fmt.Errorf("unknown principal kind %q", principal.GetKind())
}

func (t *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return t.db.WithContext(ctx).Omit("Users.*", "APIKeys.*", "Projects.*").Create(team).Error
}

func (t *teamRepository) AddMember(ctx context.Context, teamID uuid.UUID, principal models.Principal) error {
	table, column, err := membershipTable(principal)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{column: principal.GetID(), "team_id": teamID}).Error
}

func (t *teamRepository) GetTeamIDsOfPrincipal(ctx context.Context, principal models.Principal) ([]uuid.UUID, error) {
	table, column, err := membershipTable(principal)
	if err != nil {
		return nil, err
	}
	var teamIDs []uuid.UUID
	err = t.db.WithContext(ctx).Table(table).
		Where(column+" = ?", principal.GetID()).
		Order("team_id ASC").
		Pluck("team_id", &teamIDs).Error
	return teamIDs, err
}

func (t *teamRepository) GetProjectIDsGrantedToTeams(ctx context.Context, teamIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(teamIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	var projectIDs []uuid.UUID
	err := t.db.WithContext(ctx).Table("project_access_teams").
		Distinct().
		Where("team_id IN ?", teamIDs).
		Pluck("project_id", &projectIDs).Error
	return projectIDs, err
}
