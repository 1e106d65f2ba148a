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

package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/dtos"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"gorm.io/datatypes"
)

type ProjectRepository interface {
	Read(ctx context.Context, id uuid.UUID) (models.Project, error)
	Create(ctx context.Context, tx DB, project *models.Project) error
	GetByNameAndVersion(ctx context.Context, name, version string) (models.Project, error)
	ListPaged(ctx context.Context, filter *querybuilder.ProjectFilterBuilder, opts QueryOptions) (Paged[models.Project], error)
	GetDirectChildren(ctx context.Context, parentID uuid.UUID) ([]models.Project, error)
	GrantTeam(ctx context.Context, tx DB, projectID, teamID uuid.UUID) error
	Transaction(ctx context.Context, fn func(tx DB) error) error
}

type ComponentRepository interface {
	Read(ctx context.Context, id uuid.UUID) (models.Component, error)
	Create(ctx context.Context, component *models.Component) error
	AddVulnerability(ctx context.Context, componentID, vulnerabilityID uuid.UUID) error
	Search(ctx context.Context, filter *querybuilder.ComponentFilterBuilder, opts QueryOptions) (Paged[models.Component], error)
}

type VulnerabilityRepository interface {
	Create(ctx context.Context, vulnerability *models.Vulnerability) error
	GetBySourceAndVulnID(ctx context.Context, source, vulnID string) (models.Vulnerability, error)
	GetAliases(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID][]models.VulnerabilityAlias, error)
	// GetTexts loads only the large text columns.
	GetTexts(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID]models.Vulnerability, error)
}

// AnalysisKey is the scope of an analysis. A nil ProjectID addresses the global decision.
type AnalysisKey struct {
	ProjectID       *uuid.UUID
	ComponentID     uuid.UUID
	VulnerabilityID uuid.UUID
}

// AnalysisUpdate only overwrites the fields that are set.
type AnalysisUpdate struct {
	State         *models.AnalysisState
	Justification *models.AnalysisJustification
	Response      *models.AnalysisResponse
	Details       *string
	Suppressed    *bool
}

type AnalysisRepository interface {
	MakeAnalysis(ctx context.Context, key AnalysisKey, update AnalysisUpdate) (models.Analysis, error)
	MakeComment(ctx context.Context, analysisID uuid.UUID, comment, commenter string) (models.AnalysisComment, error)
	GetMostSpecific(ctx context.Context, projectID, componentID, vulnerabilityID uuid.UUID) (models.Analysis, error)
	CountAudited(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error)
	CountSuppressed(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error)
}

type FindingAttributionRepository interface {
	// Attribute stores the attribution unless one exists for the component and vulnerability.
	Attribute(ctx context.Context, attribution *models.FindingAttribution) (bool, error)
	Get(ctx context.Context, componentID, vulnerabilityID uuid.UUID) (models.FindingAttribution, error)
}

type RepositoryMetaComponentRepository interface {
	Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error)
	FindByCoordinates(ctx context.Context, coordinates models.RepositoryMetaCoordinates) (models.RepositoryMetaComponent, error)
	FindByCoordinatesBatch(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) ([]models.RepositoryMetaComponent, error)
}

type ComponentAnalysisCacheKey struct {
	CacheType  models.CacheType
	TargetHost string
	TargetType string
	Target     string
}

type ComponentAnalysisCacheRepository interface {
	Get(ctx context.Context, key ComponentAnalysisCacheKey) (models.ComponentAnalysisCache, error)
	Update(ctx context.Context, key ComponentAnalysisCacheKey, result datatypes.JSON, at time.Time) (models.ComponentAnalysisCache, error)
	Clear(ctx context.Context) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	AddMember(ctx context.Context, teamID uuid.UUID, principal models.Principal) error
	GetTeamIDsOfPrincipal(ctx context.Context, principal models.Principal) ([]uuid.UUID, error)
	GetProjectIDsGrantedToTeams(ctx context.Context, teamIDs []uuid.UUID) ([]uuid.UUID, error)
}

type ConfigPropertyRepository interface {
	GetBool(ctx context.Context, group, name string, fallback bool) (bool, error)
	Set(ctx context.Context, property models.ConfigProperty) error
}

type FindingRepository interface {
	Count(ctx context.Context, stmt querybuilder.Statement) (int64, error)
	Find(ctx context.Context, stmt querybuilder.Statement) ([]models.FindingRow, error)
	FindGrouped(ctx context.Context, stmt querybuilder.Statement) ([]models.GroupedFindingRow, error)
}

// DescendantResolver expands project ids to themselves plus every descendant.
type DescendantResolver interface {
	Descendants(ctx context.Context, roots []uuid.UUID) ([]uuid.UUID, error)
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, principal models.Principal, teamIDs []uuid.UUID, permission string) (bool, error)
	GrantToTeam(teamID uuid.UUID, permission string) error
	GrantToPrincipal(principal models.Principal, permission string) error
}

type ACLInjector interface {
	Scope(ctx context.Context, principal models.Principal) ACLScope
	HasAccess(ctx context.Context, principal models.Principal, projectID uuid.UUID) bool
	// UpdateNewProjectACL grants a project created by an api key to the first team of the key.
	UpdateNewProjectACL(ctx context.Context, tx DB, principal models.Principal, projectID uuid.UUID) error
}

type IndexEventDispatcher interface {
	Dispatch(ctx context.Context, event IndexEvent)
}

type FindingService interface {
	ListFindings(ctx context.Context, principal models.Principal, filters map[string]string, opts QueryOptions) (Paged[dtos.Finding], error)
	ListGroupedFindings(ctx context.Context, principal models.Principal, filters map[string]string, opts QueryOptions) (Paged[dtos.GroupedFinding], error)
	ListProjectFindings(ctx context.Context, principal models.Principal, projectID uuid.UUID, includeSuppressed bool) ([]dtos.Finding, error)
}

type ProjectService interface {
	List(ctx context.Context, principal models.Principal, filter *querybuilder.ProjectFilterBuilder, opts QueryOptions) (Paged[models.Project], error)
	Create(ctx context.Context, principal models.Principal, project *models.Project) error
	GetChildren(ctx context.Context, principal models.Principal, parentID uuid.UUID) ([]models.Project, error)
	HasAccess(ctx context.Context, principal models.Principal, projectID uuid.UUID) bool
	// UpdateNewProjectACL grants a project created by an api key to the first team of the key.
	UpdateNewProjectACL(ctx context.Context, tx DB, principal models.Principal, projectID uuid.UUID) error
}

type ComponentService interface {
	Search(ctx context.Context, principal models.Principal, filter *querybuilder.ComponentFilterBuilder, opts QueryOptions) (Paged[models.Component], error)
	FindByHash(ctx context.Context, principal models.Principal, hash string, opts QueryOptions) (Paged[models.Component], error)
}

type AnalysisService interface {
	Triage(ctx context.Context, principal models.Principal, key AnalysisKey, update AnalysisUpdate, comment string) (models.Analysis, error)
}

type RepositoryMetaService interface {
	Synchronize(ctx context.Context, meta models.RepositoryMetaComponent) (models.RepositoryMetaComponent, error)
	Lookup(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) (map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent, error)
}
