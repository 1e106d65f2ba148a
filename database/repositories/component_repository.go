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
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var componentSortColumns = map[string]string{
	"name":    "components.name",
	"group":   "components.group_name",
	"version": "components.version",
	"purl":    "components.purl",
}

type componentRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Component]
}

func NewComponentRepository(db *gorm.DB) *componentRepository {
	return &componentRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Component](db),
	}
}

func (c *componentRepository) Create(ctx context.Context, component *models.Component) error {
	return c.db.WithContext(ctx).Omit("Vulnerabilities.*").Create(component).Error
}

func (c *componentRepository) AddVulnerability(ctx context.Context, componentID, vulnerabilityID uuid.UUID) error {
	return c.db.WithContext(ctx).Table("components_vulnerabilities").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"component_id": componentID, "vulnerability_id": vulnerabilityID}).Error
}

func (c *componentRepository) Search(ctx context.Context, filter *querybuilder.ComponentFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Component], error) {
	page := opts.PageInfo()
	d, err := c.dialect()
	if err != nil {
		return shared.Paged[models.Component]{}, err
	}
	where, params, err := filter.Build(d)
	if err != nil {
		return shared.Paged[models.Component]{}, errors.Wrap(err, "could not build component filter")
	}

	order := "components.name ASC"
	if sort := opts.Sort(); sort != nil {
		column, ok := componentSortColumns[sort.Field]
		if !ok {
			return shared.Paged[models.Component]{}, errors.Wrapf(shared.ErrUnknownSortField, "%q", sort.Field)
		}
		order = orderBy(column, sort)
	}

	q := whereNamed(c.db.WithContext(ctx).Model(&models.Component{}), where, params)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return shared.Paged[models.Component]{}, err
	}

	q = q.Preload("Project").Order(order).Order("components.id ASC")
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	var components []models.Component
	if err := q.Find(&components).Error; err != nil {
		return shared.Paged[models.Component]{}, err
	}
	return shared.NewPaged(page, total, components), nil
}
