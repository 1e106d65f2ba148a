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

	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepository[ID comparable, T any] struct {
	db *gorm.DB
}

func newGormRepository[ID comparable, T any](db *gorm.DB) *GormRepository[ID, T] {
	return &GormRepository[ID, T]{
		db: db,
	}
}

// GetDB returns the transaction if one is running, the repository connection otherwise.
func (g *GormRepository[ID, T]) GetDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return g.db.WithContext(ctx)
}

func (g *GormRepository[ID, T]) Transaction(ctx context.Context, fn func(tx shared.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func (g *GormRepository[ID, T]) Read(ctx context.Context, id ID) (T, error) {
	var t T
	err := g.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return t, translateNotFound(err)
}

func (g *GormRepository[ID, T]) Upsert(ctx context.Context, tx *gorm.DB, ts []*T, conflictingColumns []clause.Column, updateOnly []string) error {
	if len(ts) == 0 {
		return nil
	}
	onConflict := clause.OnConflict{Columns: conflictingColumns}
	if len(updateOnly) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(updateOnly)
	} else {
		onConflict.UpdateAll = true
	}
	return g.GetDB(ctx, tx).Clauses(onConflict).Create(ts).Error
}

func (g *GormRepository[ID, T]) dialect() (querybuilder.Dialect, error) {
	return querybuilder.DialectByName(g.db.Dialector.Name())
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(shared.ErrNotFound, err)
	}
	return err
}

// whereNamed applies a rendered filter. gorm only resolves @name placeholders when a
// parameter map is passed.
func whereNamed(q *gorm.DB, where string, params map[string]any) *gorm.DB {
	if len(params) == 0 {
		return q.Where(where)
	}
	return q.Where(where, params)
}

func rawNamed(q *gorm.DB, sql string, params map[string]any) *gorm.DB {
	if len(params) == 0 {
		return q.Raw(sql)
	}
	return q.Raw(sql, params)
}

func orderBy(column string, sort *shared.SortQuery) string {
	if sort != nil && sort.Direction == shared.SortDesc {
		return column + " DESC"
	}
	return column + " ASC"
}
