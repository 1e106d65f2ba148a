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

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// FindingRow is one row of the finding query before projection.
type FindingRow struct {
	ComponentID      uuid.UUID `gorm:"column:component_id"`
	ComponentName    string    `gorm:"column:component_name"`
	ComponentGroup   *string   `gorm:"column:component_group"`
	ComponentVersion *string   `gorm:"column:component_version"`
	ComponentPurl    *string   `gorm:"column:component_purl"`
	ComponentCpe     *string   `gorm:"column:component_cpe"`

	ProjectID      uuid.UUID `gorm:"column:project_id"`
	ProjectName    string    `gorm:"column:project_name"`
	ProjectVersion *string   `gorm:"column:project_version"`

	VulnerabilityRow

	AnalyzerIdentity    *string    `gorm:"column:analyzer_identity"`
	AttributedOn        *time.Time `gorm:"column:attributed_on"`
	AlternateIdentifier *string    `gorm:"column:alternate_identifier"`
	ReferenceURL        *string    `gorm:"column:reference_url"`

	AnalysisState *string `gorm:"column:analysis_state"`
	IsSuppressed  bool    `gorm:"column:is_suppressed"`
}

type VulnerabilityRow struct {
	VulnerabilityID             uuid.UUID  `gorm:"column:vulnerability_id"`
	VulnerabilitySource         string     `gorm:"column:vulnerability_source"`
	VulnID                      string     `gorm:"column:vuln_id"`
	Title                       *string    `gorm:"column:title"`
	Subtitle                    *string    `gorm:"column:subtitle"`
	Severity                    *string    `gorm:"column:severity"`
	CVSSV2BaseScore             *float64   `gorm:"column:cvss_v2_base_score"`
	CVSSV3BaseScore             *float64   `gorm:"column:cvss_v3_base_score"`
	CVSSV2Vector                *string    `gorm:"column:cvss_v2_vector"`
	CVSSV3Vector                *string    `gorm:"column:cvss_v3_vector"`
	OWASPRRLikelihoodScore      *float64   `gorm:"column:owasp_rr_likelihood_score"`
	OWASPRRTechnicalImpactScore *float64   `gorm:"column:owasp_rr_technical_impact_score"`
	OWASPRRBusinessImpactScore  *float64   `gorm:"column:owasp_rr_business_impact_score"`
	// CWEs holds the raw json array
	CWEs      *string    `gorm:"column:cwes"`
	Published *time.Time `gorm:"column:published"`
}

// GroupedFindingRow is one row of the grouped finding query. Aggregated timestamps are
// read as text because not every driver reports a type for aggregate columns.
type GroupedFindingRow struct {
	VulnerabilityRow

	AnalyzerIdentity     *string        `gorm:"column:analyzer_identity"`
	AffectedProjectCount int64          `gorm:"column:affected_project_count"`
	FirstSeen            sql.NullString `gorm:"column:first_seen"`
	LastSeen             sql.NullString `gorm:"column:last_seen"`
}
