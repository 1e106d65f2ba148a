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
	"errors"
	"strconv"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type configPropertyRepository struct {
	db *gorm.DB
}

func NewConfigPropertyRepository(db *gorm.DB) *configPropertyRepository {
	return &configPropertyRepository{db: db}
}

// GetBool reads a boolean property. A missing row yields the fallback.
func (c *configPropertyRepository) GetBool(ctx context.Context, group, name string, fallback bool) (bool, error) {
	var property models.ConfigProperty
	err := c.db.WithContext(ctx).Where("group_name = ? AND property_name = ?", group, name).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	value, err := strconv.ParseBool(property.PropertyValue)
	if err != nil {
		return fallback, err
	}
	return value, nil
}

func (c *configPropertyRepository) Set(ctx context.Context, property models.ConfigProperty) error {
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_name"}, {Name: "property_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"property_value", "property_type", "description", "updated_at"}),
	}).Create(&property).Error
}
