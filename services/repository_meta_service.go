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

package services

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
)

// repositoryMetaService serves repository metadata lookups from an expiring LRU in
// front of the store. Only found entries are cached.
type repositoryMetaService struct {
	repository shared.RepositoryMetaComponentRepository
	cache      *expirable.LRU[models.RepositoryMetaCoordinates, models.RepositoryMetaComponent]
}

var _ shared.RepositoryMetaService = &repositoryMetaService{}

func NewRepositoryMetaService(cfg shared.Config, repository shared.RepositoryMetaComponentRepository) *repositoryMetaService {
	return &repositoryMetaService{
		repository: repository,
		cache:      expirable.NewLRU[models.RepositoryMetaCoordinates, models.RepositoryMetaComponent](cfg.RepositoryMeta.CacheSize, nil, cfg.RepositoryMeta.CacheTTL),
	}
}

func (s *repositoryMetaService) Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error) {
	stored, err := s.repository.Synchronize(ctx, meta)
	if err != nil {
		s.cache.Remove(meta.Coordinates())
		return models.RepositoryMetaComponent{}, errors.Wrap(err, "could not synchronize repository metadata")
	}
	s.cache.Add(stored.Coordinates(), stored)
	return stored, nil
}

func (s *repositoryMetaService) Lookup(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) (map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent, error) {
	result := make(map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent, len(coordinates))
	missing := make([]models.RepositoryMetaCoordinates, 0)
	seen := make(map[models.RepositoryMetaCoordinates]struct{}, len(coordinates))
	for _, c := range coordinates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		if meta, ok := s.cache.Get(c); ok {
			result[c] = meta
			continue
		}
		missing = append(missing, c)
	}
	if len(missing) == 0 {
		return result, nil
	}

	metas, err := s.repository.FindByCoordinatesBatch(ctx, missing)
	if err != nil {
		return nil, errors.Wrap(err, "could not load repository metadata")
	}
	for _, meta := range metas {
		s.cache.Add(meta.Coordinates(), meta)
		result[meta.Coordinates()] = meta
	}
	return result, nil
}
