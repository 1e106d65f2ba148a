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

type ConfigPropertyType string

const (
	ConfigPropertyTypeBoolean ConfigPropertyType = "BOOLEAN"
	ConfigPropertyTypeString  ConfigPropertyType = "STRING"
	ConfigPropertyTypeInteger ConfigPropertyType = "INTEGER"
)

const (
	ConfigGroupAccessManagement = "access-management"
	ConfigPropertyACLEnabled    = "acl.enabled"
)

type ConfigProperty struct {
	Model
	GroupName     string             `json:"groupName" gorm:"type:text;not null;index:idx_config_property_key,unique"`
	PropertyName  string             `json:"propertyName" gorm:"type:text;not null;index:idx_config_property_key,unique"`
	PropertyValue string             `json:"propertyValue" gorm:"type:text"`
	PropertyType  ConfigPropertyType `json:"propertyType" gorm:"type:text;not null"`
	Description   string             `json:"description" gorm:"type:text"`
}

func (c ConfigProperty) TableName() string {
	return "config_properties"
}

// AllModels lists every table managed by this module in creation order.
func AllModels() []any {
	return []any{
		&Team{},
		&User{},
		&APIKey{},
		&Tag{},
		&Project{},
		&License{},
		&Component{},
		&Vulnerability{},
		&VulnerabilityAlias{},
		&AffectedVersionAttribution{},
		&Analysis{},
		&AnalysisComment{},
		&FindingAttribution{},
		&RepositoryMetaComponent{},
		&ComponentAnalysisCache{},
		&ConfigProperty{},
	}
}
