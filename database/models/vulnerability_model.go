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
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Severity string

const (
	SeverityCritical   Severity = "CRITICAL"
	SeverityHigh       Severity = "HIGH"
	SeverityMedium     Severity = "MEDIUM"
	SeverityLow        Severity = "LOW"
	SeverityInfo       Severity = "INFO"
	SeverityUnassigned Severity = "UNASSIGNED"
)

type Vulnerability struct {
	Model
	Source string `json:"source" gorm:"type:text;not null;index:idx_vulnerability_source_vuln_id,unique"`
	VulnID string `json:"vulnId" gorm:"column:vuln_id;type:text;not null;index:idx_vulnerability_source_vuln_id,unique"`

	Title          string `json:"title" gorm:"type:text"`
	Subtitle       string `json:"subtitle" gorm:"type:text"`
	Description    string `json:"description" gorm:"type:text"`
	Recommendation string `json:"recommendation" gorm:"type:text"`

	Severity        Severity `json:"severity" gorm:"type:text"`
	CVSSV2BaseScore *float64 `json:"cvssV2BaseScore" gorm:"column:cvss_v2_base_score"`
	CVSSV2Vector    string   `json:"cvssV2Vector" gorm:"column:cvss_v2_vector;type:text"`
	CVSSV3BaseScore *float64 `json:"cvssV3BaseScore" gorm:"column:cvss_v3_base_score"`
	CVSSV3Vector    string   `json:"cvssV3Vector" gorm:"column:cvss_v3_vector;type:text"`

	OWASPRRLikelihoodScore      *float64 `json:"owaspLikelihoodScore" gorm:"column:owasp_rr_likelihood_score"`
	OWASPRRTechnicalImpactScore *float64 `json:"owaspTechnicalImpactScore" gorm:"column:owasp_rr_technical_impact_score"`
	OWASPRRBusinessImpactScore  *float64 `json:"owaspBusinessImpactScore" gorm:"column:owasp_rr_business_impact_score"`

	CWEs      datatypes.JSONSlice[int] `json:"cwes" gorm:"column:cwes"`
	Published *time.Time               `json:"published"`

	Aliases []VulnerabilityAlias `json:"aliases,omitempty" gorm:"foreignKey:VulnerabilityID;constraint:OnDelete:CASCADE;"`
}

func (v Vulnerability) TableName() string {
	return "vulnerabilities"
}

func (v Vulnerability) IndexEntity() string {
	return "vulnerability"
}

// VulnerabilityAlias points from one vulnerability to the identifier another source uses for it.
type VulnerabilityAlias struct {
	Model
	VulnerabilityID uuid.UUID `json:"vulnerabilityId" gorm:"type:uuid;not null;index"`
	Source          string    `json:"source" gorm:"type:text;not null"`
	AliasID         string    `json:"vulnId" gorm:"column:alias_id;type:text;not null"`
}

func (a VulnerabilityAlias) TableName() string {
	return "vulnerability_aliases"
}

type AffectedVersionAttribution struct {
	Model
	VulnerabilityID uuid.UUID     `json:"vulnerabilityId" gorm:"type:uuid;not null;index"`
	Vulnerability   Vulnerability `json:"-" gorm:"foreignKey:VulnerabilityID;constraint:OnDelete:CASCADE;"`
	Source          string        `json:"source" gorm:"type:text;not null"`
	FirstSeen       time.Time     `json:"firstSeen" gorm:"not null"`
	LastSeen        time.Time     `json:"lastSeen" gorm:"not null"`
}

func (a AffectedVersionAttribution) TableName() string {
	return "affected_version_attributions"
}
