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
	"slices"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const closureName = "project_closure"

// maxIDsPerQuery keeps IN lists below the parameter limits of every supported store.
const maxIDsPerQuery = 1000

// recursiveCTEResolver lets the store compute the closure with a recursive common table expression.
type recursiveCTEResolver struct {
	db      *gorm.DB
	dialect querybuilder.Dialect
}

func NewRecursiveCTEResolver(db *gorm.DB, dialect querybuilder.Dialect) *recursiveCTEResolver {
	return &recursiveCTEResolver{db: db, dialect: dialect}
}

func (r *recursiveCTEResolver) closureQuery(roots []uuid.UUID) (string, map[string]any, error) {
	rd := querybuilder.NewRenderer(r.dialect)
	anchor, err := rd.Expr("roots", querybuilder.In(querybuilder.Col("projects", "id"), roots))
	if err != nil {
		return "", nil, err
	}
	q := r.dialect.QuoteIdent
	projects := q("projects")
	closure := q(closureName)
	id := q("id")

	sql := r.dialect.RecursiveWith(closureName, "id") + " (" +
		"SELECT " + projects + "." + id + " FROM " + projects + " WHERE " + anchor +
		" " + r.dialect.RecursiveUnion() + " " +
		"SELECT " + projects + "." + id + " FROM " + projects +
		" INNER JOIN " + closure + " ON " + projects + "." + q("parent_id") + " = " + closure + "." + id +
		") SELECT DISTINCT " + id + " FROM " + closure
	return sql, rd.Params(), nil
}

func (r *recursiveCTEResolver) Descendants(ctx context.Context, roots []uuid.UUID) ([]uuid.UUID, error) {
	result := make([]uuid.UUID, 0, len(roots))
	for chunk := range slices.Chunk(roots, maxIDsPerQuery) {
		sql, params, err := r.closureQuery(chunk)
		if err != nil {
			return nil, err
		}
		var ids []uuid.UUID
		if err := r.db.WithContext(ctx).Raw(sql, params).Scan(&ids).Error; err != nil {
			return nil, errors.Wrap(err, "could not resolve project closure")
		}
		result = append(result, ids...)
	}
	return result, nil
}

// bfsResolver walks the hierarchy one level per query. It works on every store.
type bfsResolver struct {
	db *gorm.DB
}

func NewBFSResolver(db *gorm.DB) *bfsResolver {
	return &bfsResolver{db: db}
}

func (b *bfsResolver) Descendants(ctx context.Context, roots []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(roots))
	result := make([]uuid.UUID, 0, len(roots))
	frontier := make([]uuid.UUID, 0, len(roots))
	for _, id := range roots {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
		frontier = append(frontier, id)
	}

	for len(frontier) > 0 {
		var next []uuid.UUID
		for chunk := range slices.Chunk(frontier, maxIDsPerQuery) {
			var children []uuid.UUID
			err := b.db.WithContext(ctx).Model(&models.Project{}).
				Where("parent_id IN ?", chunk).
				Pluck("id", &children).Error
			if err != nil {
				return nil, errors.Wrap(err, "could not load child projects")
			}
			for _, child := range children {
				if _, ok := seen[child]; ok {
					continue
				}
				seen[child] = struct{}{}
				result = append(result, child)
				next = append(next, child)
			}
		}
		frontier = next
	}
	return result, nil
}

// NewDescendantResolver picks the resolver configured with acl.resolver. Stores the
// renderer does not know fall back to the in-process walk.
func NewDescendantResolver(cfg shared.Config, db *gorm.DB) shared.DescendantResolver {
	if cfg.ACL.Resolver == shared.ResolverBFS {
		return NewBFSResolver(db)
	}
	dialect, err := querybuilder.DialectByName(db.Dialector.Name())
	if err != nil {
		slog.Warn("no recursive query support for dialect, walking the hierarchy in process", "dialect", db.Dialector.Name())
		return NewBFSResolver(db)
	}
	return NewRecursiveCTEResolver(db, dialect)
}
