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
	"github.com/l3montree-dev/devguard-findings/shared"
	"go.uber.org/fx"
)

// Module provides all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewProjectRepository, fx.As(new(shared.ProjectRepository)))),
	fx.Provide(fx.Annotate(NewComponentRepository, fx.As(new(shared.ComponentRepository)))),
	fx.Provide(fx.Annotate(NewVulnerabilityRepository, fx.As(new(shared.VulnerabilityRepository)))),
	fx.Provide(fx.Annotate(NewAnalysisRepository, fx.As(new(shared.AnalysisRepository)))),
	fx.Provide(fx.Annotate(NewFindingAttributionRepository, fx.As(new(shared.FindingAttributionRepository)))),
	fx.Provide(fx.Annotate(NewRepositoryMetaComponentRepository, fx.As(new(shared.RepositoryMetaComponentRepository)))),
	fx.Provide(fx.Annotate(NewComponentAnalysisCacheRepository, fx.As(new(shared.ComponentAnalysisCacheRepository)))),
	fx.Provide(fx.Annotate(NewTeamRepository, fx.As(new(shared.TeamRepository)))),
	fx.Provide(fx.Annotate(NewConfigPropertyRepository, fx.As(new(shared.ConfigPropertyRepository)))),
	fx.Provide(fx.Annotate(NewFindingRepository, fx.As(new(shared.FindingRepository)))),
)
