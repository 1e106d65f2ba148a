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

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/gorm"
)

const repositoryMetaTable = "repository_meta_components"

type repositoryMetaComponentRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.RepositoryMetaComponent]
}

func NewRepositoryMetaComponentRepository(db *gorm.DB) *repositoryMetaComponentRepository {
	return &repositoryMetaComponentRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.RepositoryMetaComponent](db),
	}
}

func coordinatesOf(db *gorm.DB, c models.RepositoryMetaCoordinates) *gorm.DB {
	return db.Where("repository_type = ? AND namespace = ? AND name = ?", c.RepositoryType, c.Namespace, c.Name)
}

// Synchronize stores what the package repository reported. An existing row for the
// coordinates is overwritten, last writer wins.
func (r *repositoryMetaComponentRepository) Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error) {
	var stored models.RepositoryMetaComponent
	err := r.Transaction(ctx, func(tx shared.DB) error {
		err := coordinatesOf(tx, meta.Coordinates()).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stored = meta
			stored.ID = uuid.Nil
			return tx.Create(&stored).Error
		}
		if err != nil {
			return err
		}
		stored.LatestVersion = meta.LatestVersion
		stored.IsDeprecated = meta.IsDeprecated
		stored.DeprecationMessage = meta.DeprecationMessage
		stored.Published = meta.Published
		stored.LastCheck = meta.LastCheck
		return tx.Save(&stored).Error
	})
	return stored, err
}

func (r *repositoryMetaComponentRepository) FindByCoordinates(ctx context.Context, coordinates models.RepositoryMetaCoordinates) (models.RepositoryMetaComponent, error) {
	var meta models.RepositoryMetaComponent
	err := coordinatesOf(r.db.WithContext(ctx), coordinates).First(&meta).Error
	return meta, translateNotFound(err)
}

func (r *repositoryMetaComponentRepository) FindByCoordinatesBatch(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) ([]models.RepositoryMetaComponent, error) {
	if len(coordinates) == 0 {
		return []models.RepositoryMetaComponent{}, nil
	}
	d, err := r.dialect()
	if err != nil {
		return nil, err
	}

	matches := make([]querybuilder.Expr, len(coordinates))
	for i, c := range coordinates {
		matches[i] = querybuilder.And(
			querybuilder.Eq(querybuilder.Col(repositoryMetaTable, "repository_type"), string(c.RepositoryType)),
			querybuilder.Eq(querybuilder.Col(repositoryMetaTable, "namespace"), c.Namespace),
			querybuilder.Eq(querybuilder.Col(repositoryMetaTable, "name"), c.Name),
		)
	}
	where, params, err := querybuilder.Render(d, querybuilder.Or(matches...))
	if err != nil {
		return nil, err
	}

	var metas []models.RepositoryMetaComponent
	err = whereNamed(r.db.WithContext(ctx).Model(&models.RepositoryMetaComponent{}), where, params).Find(&metas).Error
	return metas, err
}
