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

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"gorm.io/gorm"
)

// findingRepository executes composed finding statements.
type findingRepository struct {
	db *gorm.DB
}

func NewFindingRepository(db *gorm.DB) *findingRepository {
	return &findingRepository{db: db}
}

func (f *findingRepository) Count(ctx context.Context, stmt querybuilder.Statement) (int64, error) {
	var total int64
	err := rawNamed(f.db.WithContext(ctx), stmt.CountSQL, stmt.Params).Scan(&total).Error
	return total, err
}

func (f *findingRepository) Find(ctx context.Context, stmt querybuilder.Statement) ([]models.FindingRow, error) {
	var rows []models.FindingRow
	err := rawNamed(f.db.WithContext(ctx), stmt.SQL, stmt.Params).Scan(&rows).Error
	return rows, err
}

func (f *findingRepository) FindGrouped(ctx context.Context, stmt querybuilder.Statement) ([]models.GroupedFindingRow, error) {
	var rows []models.GroupedFindingRow
	err := rawNamed(f.db.WithContext(ctx), stmt.SQL, stmt.Params).Scan(&rows).Error
	return rows, err
}
