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

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type findingAttributionRepository struct {
	db *gorm.DB
}

func NewFindingAttributionRepository(db *gorm.DB) *findingAttributionRepository {
	return &findingAttributionRepository{db: db}
}

// Attribute keeps the first attribution of a finding. It reports whether the row was written.
func (f *findingAttributionRepository) Attribute(ctx context.Context, attribution *models.FindingAttribution) (bool, error) {
	res := f.db.WithContext(ctx).
		Omit("Component", "Vulnerability").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "component_id"}, {Name: "vulnerability_id"}},
			DoNothing: true,
		}).
		Create(attribution)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (f *findingAttributionRepository) Get(ctx context.Context, componentID, vulnerabilityID uuid.UUID) (models.FindingAttribution, error) {
	var attribution models.FindingAttribution
	err := f.db.WithContext(ctx).
		Where("component_id = ? AND vulnerability_id = ?", componentID, vulnerabilityID).
		First(&attribution).Error
	return attribution, translateNotFound(err)
}
