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

	"gorm.io/datatypes"
)

type CacheType string

const CacheTypeVulnerability CacheType = "VULNERABILITY"

type ComponentAnalysisCache struct {
	Model
	CacheType      CacheType      `json:"cacheType" gorm:"type:text;not null;index:idx_component_analysis_cache_key,unique"`
	TargetHost     string         `json:"targetHost" gorm:"type:text;not null;index:idx_component_analysis_cache_key,unique"`
	TargetType     string         `json:"targetType" gorm:"type:text;not null;index:idx_component_analysis_cache_key,unique"`
	Target         string         `json:"target" gorm:"type:text;not null;index:idx_component_analysis_cache_key,unique"`
	LastOccurrence time.Time      `json:"lastOccurrence" gorm:"not null"`
	Result         datatypes.JSON `json:"result"`
}

func (c ComponentAnalysisCache) TableName() string {
	return "component_analysis_caches"
}

// IsExpired reports whether the entry is older than the given validity period.
func (c ComponentAnalysisCache) IsExpired(now time.Time, validity time.Duration) bool {
	return now.Sub(c.LastOccurrence) > validity
}
