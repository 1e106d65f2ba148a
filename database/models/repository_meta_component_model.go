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

	"github.com/package-url/packageurl-go"
)

type RepositoryType string

const (
	RepositoryTypeMaven       RepositoryType = "MAVEN"
	RepositoryTypeNpm         RepositoryType = "NPM"
	RepositoryTypeGem         RepositoryType = "GEM"
	RepositoryTypePypi        RepositoryType = "PYPI"
	RepositoryTypeNuget       RepositoryType = "NUGET"
	RepositoryTypeHex         RepositoryType = "HEX"
	RepositoryTypeComposer    RepositoryType = "COMPOSER"
	RepositoryTypeCargo       RepositoryType = "CARGO"
	RepositoryTypeGoModules   RepositoryType = "GO_MODULES"
	RepositoryTypeCpan        RepositoryType = "CPAN"
	RepositoryTypeGithub      RepositoryType = "GITHUB"
	RepositoryTypeHackage     RepositoryType = "HACKAGE"
	RepositoryTypeNixpkgs     RepositoryType = "NIXPKGS"
	RepositoryTypeUnsupported RepositoryType = "UNSUPPORTED"
)

var purlTypeToRepositoryType = map[string]RepositoryType{
	packageurl.TypeMaven:    RepositoryTypeMaven,
	packageurl.TypeNPM:      RepositoryTypeNpm,
	packageurl.TypeGem:      RepositoryTypeGem,
	packageurl.TypePyPi:     RepositoryTypePypi,
	packageurl.TypeNuget:    RepositoryTypeNuget,
	packageurl.TypeHex:      RepositoryTypeHex,
	packageurl.TypeComposer: RepositoryTypeComposer,
	packageurl.TypeCargo:    RepositoryTypeCargo,
	packageurl.TypeGolang:   RepositoryTypeGoModules,
	"cpan":                  RepositoryTypeCpan,
	packageurl.TypeGithub:   RepositoryTypeGithub,
	packageurl.TypeHackage:  RepositoryTypeHackage,
	"nixpkgs":               RepositoryTypeNixpkgs,
}

func ResolveRepositoryType(purl packageurl.PackageURL) RepositoryType {
	if t, ok := purlTypeToRepositoryType[purl.Type]; ok {
		return t
	}
	return RepositoryTypeUnsupported
}

// RepositoryMetaComponent caches what a package repository reported for a package.
type RepositoryMetaComponent struct {
	Model
	RepositoryType     RepositoryType `json:"repositoryType" gorm:"type:text;not null;index:idx_repository_meta_coordinates,unique"`
	Namespace          string         `json:"namespace" gorm:"type:text;not null;default:'';index:idx_repository_meta_coordinates,unique"`
	Name               string         `json:"name" gorm:"type:text;not null;index:idx_repository_meta_coordinates,unique"`
	LatestVersion      string         `json:"latestVersion" gorm:"type:text"`
	IsDeprecated       bool           `json:"isDeprecated" gorm:"not null;default:false"`
	DeprecationMessage string         `json:"deprecationMessage" gorm:"type:text"`
	Published          *time.Time     `json:"published"`
	LastCheck          time.Time      `json:"lastCheck" gorm:"not null"`
}

func (r RepositoryMetaComponent) TableName() string {
	return "repository_meta_components"
}

type RepositoryMetaCoordinates struct {
	RepositoryType RepositoryType
	Namespace      string
	Name           string
}

func (r RepositoryMetaComponent) Coordinates() RepositoryMetaCoordinates {
	return RepositoryMetaCoordinates{RepositoryType: r.RepositoryType, Namespace: r.Namespace, Name: r.Name}
}
