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

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
)

type componentService struct {
	componentRepository shared.ComponentRepository
	aclInjector         shared.ACLInjector
}

var _ shared.ComponentService = &componentService{}

func NewComponentService(componentRepository shared.ComponentRepository, aclInjector shared.ACLInjector) *componentService {
	return &componentService{
		componentRepository: componentRepository,
		aclInjector:         aclInjector,
	}
}

func (s *componentService) Search(ctx context.Context, principal models.Principal, filter *querybuilder.ComponentFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Component], error) {
	if filter == nil {
		filter = querybuilder.NewComponentFilterBuilder()
	}
	scope := s.aclInjector.Scope(ctx, principal)
	if scope.IsDenyAll() {
		return shared.NewPaged(opts.PageInfo(), 0, []models.Component{}), nil
	}
	return s.componentRepository.Search(ctx, filter.WithScope(scope), opts)
}

// FindByHash matches the hash against every digest column of its length.
func (s *componentService) FindByHash(ctx context.Context, principal models.Principal, hash string, opts shared.QueryOptions) (shared.Paged[models.Component], error) {
	return s.Search(ctx, principal, querybuilder.NewComponentFilterBuilder().WithHash(hash), opts)
}
