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
	"github.com/l3montree-dev/devguard-findings/utils"
	"gorm.io/gorm"
)

const MaxReferenceURLLength = 255

// FindingAttribution records which analyzer reported a vulnerability on a component first.
type FindingAttribution struct {
	Model
	ProjectID       uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	ComponentID     uuid.UUID `json:"componentId" gorm:"type:uuid;not null;index:idx_attribution_component_vulnerability,unique"`
	VulnerabilityID uuid.UUID `json:"vulnerabilityId" gorm:"type:uuid;not null;index:idx_attribution_component_vulnerability,unique"`

	Component     Component     `json:"-" gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE;"`
	Vulnerability Vulnerability `json:"-" gorm:"foreignKey:VulnerabilityID;constraint:OnDelete:CASCADE;"`

	AnalyzerIdentity    string    `json:"analyzerIdentity" gorm:"type:text;not null"`
	AttributedOn        time.Time `json:"attributedOn" gorm:"not null"`
	AlternateIdentifier string    `json:"alternateIdentifier" gorm:"type:text"`
	ReferenceURL        string    `json:"referenceUrl" gorm:"column:reference_url;type:varchar(255)"`
}

func (f FindingAttribution) TableName() string {
	return "finding_attributions"
}

func (f *FindingAttribution) SetReferenceURL(url string) {
	f.ReferenceURL = utils.TruncateRunes(url, MaxReferenceURLLength)
}

func (f *FindingAttribution) BeforeSave(tx *gorm.DB) error {
	f.SetReferenceURL(f.ReferenceURL)
	return nil
}
