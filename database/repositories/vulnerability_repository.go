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
	"github.com/l3montree-dev/devguard-findings/utils"
	"gorm.io/gorm"
)

type vulnerabilityRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Vulnerability]
}

func NewVulnerabilityRepository(db *gorm.DB) *vulnerabilityRepository {
	return &vulnerabilityRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Vulnerability](db),
	}
}

func (v *vulnerabilityRepository) Create(ctx context.Context, vulnerability *models.Vulnerability) error {
	return v.db.WithContext(ctx).Create(vulnerability).Error
}

func (v *vulnerabilityRepository) GetBySourceAndVulnID(ctx context.Context, source, vulnID string) (models.Vulnerability, error) {
	var vulnerability models.Vulnerability
	err := v.db.WithContext(ctx).Preload("Aliases").Where("source = ? AND vuln_id = ?", source, vulnID).First(&vulnerability).Error
	return vulnerability, translateNotFound(err)
}

func (v *vulnerabilityRepository) GetAliases(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID][]models.VulnerabilityAlias, error) {
	if len(vulnerabilityIDs) == 0 {
		return map[uuid.UUID][]models.VulnerabilityAlias{}, nil
	}
	var aliases []models.VulnerabilityAlias
	err := v.db.WithContext(ctx).
		Where("vulnerability_id IN ?", vulnerabilityIDs).
		Order("source ASC").Order("alias_id ASC").
		Find(&aliases).Error
	if err != nil {
		return nil, err
	}
	return utils.GroupBy(aliases, func(a models.VulnerabilityAlias) uuid.UUID {
		return a.VulnerabilityID
	}), nil
}

func (v *vulnerabilityRepository) GetTexts(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID]models.Vulnerability, error) {
	if len(vulnerabilityIDs) == 0 {
		return map[uuid.UUID]models.Vulnerability{}, nil
	}
	var vulnerabilities []models.Vulnerability
	err := v.db.WithContext(ctx).
		Select("id", "description", "recommendation").
		Where("id IN ?", vulnerabilityIDs).
		Find(&vulnerabilities).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]models.Vulnerability, len(vulnerabilities))
	for _, vuln := range vulnerabilities {
		result[vuln.ID] = vuln
	}
	return result, nil
}
