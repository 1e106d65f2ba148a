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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cacheKeyColumns = []clause.Column{{Name: "cache_type"}, {Name: "target_host"}, {Name: "target_type"}, {Name: "target"}}

type componentAnalysisCacheRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.ComponentAnalysisCache]
}

func NewComponentAnalysisCacheRepository(db *gorm.DB) *componentAnalysisCacheRepository {
	return &componentAnalysisCacheRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.ComponentAnalysisCache](db),
	}
}

func byCacheKey(db *gorm.DB, key shared.ComponentAnalysisCacheKey) *gorm.DB {
	return db.Where("cache_type = ? AND target_host = ? AND target_type = ? AND target = ?", key.CacheType, key.TargetHost, key.TargetType, key.Target)
}

func (c *componentAnalysisCacheRepository) Get(ctx context.Context, key shared.ComponentAnalysisCacheKey) (models.ComponentAnalysisCache, error) {
	var entry models.ComponentAnalysisCache
	err := byCacheKey(c.db.WithContext(ctx), key).First(&entry).Error
	return entry, translateNotFound(err)
}

// Update upserts the result for key. Concurrent writers to the same key are resolved by the store, last writer wins.
func (c *componentAnalysisCacheRepository) Update(ctx context.Context, key shared.ComponentAnalysisCacheKey, result datatypes.JSON, at time.Time) (models.ComponentAnalysisCache, error) {
	var entry models.ComponentAnalysisCache
	err := c.Transaction(ctx, func(tx shared.DB) error {
		row := &models.ComponentAnalysisCache{
			CacheType:      key.CacheType,
			TargetHost:     key.TargetHost,
			TargetType:     key.TargetType,
			Target:         key.Target,
			LastOccurrence: at,
			Result:         result,
		}
		if err := c.Upsert(ctx, tx, []*models.ComponentAnalysisCache{row}, cacheKeyColumns, []string{"last_occurrence", "result", "updated_at"}); err != nil {
			return err
		}
		return byCacheKey(tx, key).First(&entry).Error
	})
	return entry, err
}

func (c *componentAnalysisCacheRepository) Clear(ctx context.Context) error {
	return c.db.WithContext(ctx).Where("1 = 1").Delete(&models.ComponentAnalysisCache{}).Error
}
