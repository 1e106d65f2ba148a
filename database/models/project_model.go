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
	"github.com/google/uuid"
)

type Project struct {
	Model
	Name        string     `json:"name" gorm:"type:text;not null;index:idx_project_name_version,unique"`
	Version     string     `json:"version" gorm:"type:text;not null;default:'';index:idx_project_name_version,unique"`
	Description string     `json:"description" gorm:"type:text"`
	Classifier  string     `json:"classifier" gorm:"type:text"`
	Active      *bool      `json:"active"`
	IsLatest    bool       `json:"isLatest" gorm:"not null;default:false"`
	ParentID    *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`
	Parent      *Project   `json:"parent,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"`
	Children    []Project  `json:"-" gorm:"foreignKey:ParentID"`

	Tags        []Tag  `json:"tags" gorm:"many2many:project_tags;constraint:OnDelete:CASCADE;"`
	AccessTeams []Team `json:"-" gorm:"many2many:project_access_teams;constraint:OnDelete:CASCADE;"`
}

func (p Project) TableName() string {
	return "projects"
}

func (p Project) IndexEntity() string {
	return "project"
}

// IsActive treats a missing flag as active.
func (p Project) IsActive() bool {
	return p.Active == nil || *p.Active
}

type Tag struct {
	Model
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (t Tag) TableName() string {
	return "tags"
}
