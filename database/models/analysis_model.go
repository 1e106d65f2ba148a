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
)

type AnalysisState string

const (
	AnalysisStateExploitable   AnalysisState = "EXPLOITABLE"
	AnalysisStateInTriage      AnalysisState = "IN_TRIAGE"
	AnalysisStateFalsePositive AnalysisState = "FALSE_POSITIVE"
	AnalysisStateNotAffected   AnalysisState = "NOT_AFFECTED"
	AnalysisStateResolved      AnalysisState = "RESOLVED"
	AnalysisStateNotSet        AnalysisState = "NOT_SET"
)

type AnalysisJustification string

const (
	JustificationCodeNotPresent               AnalysisJustification = "CODE_NOT_PRESENT"
	JustificationCodeNotReachable             AnalysisJustification = "CODE_NOT_REACHABLE"
	JustificationRequiresConfiguration        AnalysisJustification = "REQUIRES_CONFIGURATION"
	JustificationRequiresDependency           AnalysisJustification = "REQUIRES_DEPENDENCY"
	JustificationRequiresEnvironment          AnalysisJustification = "REQUIRES_ENVIRONMENT"
	JustificationProtectedByCompiler          AnalysisJustification = "PROTECTED_BY_COMPILER"
	JustificationProtectedAtRuntime           AnalysisJustification = "PROTECTED_AT_RUNTIME"
	JustificationProtectedAtPerimeter         AnalysisJustification = "PROTECTED_AT_PERIMETER"
	JustificationProtectedByMitigatingControl AnalysisJustification = "PROTECTED_BY_MITIGATING_CONTROL"
	JustificationNotSet                       AnalysisJustification = "NOT_SET"
)

type AnalysisResponse string

const (
	ResponseCanNotFix           AnalysisResponse = "CAN_NOT_FIX"
	ResponseWillNotFix          AnalysisResponse = "WILL_NOT_FIX"
	ResponseUpdate              AnalysisResponse = "UPDATE"
	ResponseRollback            AnalysisResponse = "ROLLBACK"
	ResponseWorkaroundAvailable AnalysisResponse = "WORKAROUND_AVAILABLE"
	ResponseNotSet              AnalysisResponse = "NOT_SET"
)

// Analysis is the audit decision for a vulnerability on a component. A nil
// ProjectID marks a global decision that applies to the component in every project.
type Analysis struct {
	Model
	ProjectID       *uuid.UUID    `json:"projectId" gorm:"type:uuid;index:idx_analysis_scope,unique"`
	Project         *Project      `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
	ComponentID     uuid.UUID     `json:"componentId" gorm:"type:uuid;not null;index:idx_analysis_scope,unique"`
	Component       Component     `json:"-" gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE;"`
	VulnerabilityID uuid.UUID     `json:"vulnerabilityId" gorm:"type:uuid;not null;index:idx_analysis_scope,unique"`
	Vulnerability   Vulnerability `json:"-" gorm:"foreignKey:VulnerabilityID;constraint:OnDelete:CASCADE;"`

	State         AnalysisState         `json:"state" gorm:"type:text"`
	Justification AnalysisJustification `json:"justification" gorm:"type:text"`
	Response      AnalysisResponse      `json:"response" gorm:"type:text"`
	Details       string                `json:"details" gorm:"type:text"`
	Suppressed    bool                  `json:"isSuppressed" gorm:"not null;default:false"`

	Comments []AnalysisComment `json:"comments" gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE;"`
}

func (a Analysis) TableName() string {
	return "analyses"
}

// IsAudited mirrors the audited metric: a decision was made and the finding is not suppressed.
func (a Analysis) IsAudited() bool {
	return a.State != "" && a.State != AnalysisStateNotSet && a.State != AnalysisStateInTriage && !a.Suppressed
}

type AnalysisComment struct {
	Model
	AnalysisID uuid.UUID `json:"analysisId" gorm:"type:uuid;not null;index"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	Commenter  string    `json:"commenter" gorm:"type:text"`
}

func (c AnalysisComment) TableName() string {
	return "analysis_comments"
}
