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
	"github.com/l3montree-dev/devguard-findings/database"
	"github.com/l3montree-dev/devguard-findings/findings"
	"github.com/l3montree-dev/devguard-findings/shared"
	"go.uber.org/fx"
)

func NewComposer(db shared.DB) (*findings.Composer, error) {
	dialect, err := database.DialectOf(db)
	if err != nil {
		return nil, err
	}
	return findings.NewComposer(dialect), nil
}

func NewEnricher(vulnerabilityRepository shared.VulnerabilityRepository, repositoryMetaService shared.RepositoryMetaService) *findings.Enricher {
	return findings.NewEnricher(vulnerabilityRepository, vulnerabilityRepository, repositoryMetaService)
}

// Module provides all service-layer constructors
var Module = fx.Options(
	fx.Provide(NewComposer),
	fx.Provide(NewEnricher),
	fx.Provide(fx.Annotate(NewIndexEventDispatcher, fx.As(new(shared.IndexEventDispatcher)))),
	fx.Provide(fx.Annotate(NewRepositoryMetaService, fx.As(new(shared.RepositoryMetaService)))),
	fx.Provide(fx.Annotate(NewFindingService, fx.As(new(shared.FindingService)))),
	fx.Provide(fx.Annotate(NewProjectService, fx.As(new(shared.ProjectService)))),
	fx.Provide(fx.Annotate(NewComponentService, fx.As(new(shared.ComponentService)))),
	fx.Provide(fx.Annotate(NewAnalysisService, fx.As(new(shared.AnalysisService)))),
	fx.Invoke(database.RegisterIndexCallbacks),
)
