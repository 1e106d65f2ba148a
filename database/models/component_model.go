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
	"github.com/package-url/packageurl-go"
)

type Component struct {
	Model
	ProjectID *uuid.UUID `json:"projectId" gorm:"type:uuid;index"`
	Project   *Project   `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	Group     string `json:"group" gorm:"column:group_name;type:text"`
	Name      string `json:"name" gorm:"type:text;not null;index"`
	Version   string `json:"version" gorm:"type:text"`
	Purl      string `json:"purl" gorm:"type:text;index"`
	Cpe       string `json:"cpe" gorm:"type:text"`
	SwidTagID string `json:"swidTagId" gorm:"column:swid_tag_id;type:text"`

	MD5        string `json:"md5" gorm:"column:md5;type:text"`
	SHA1       string `json:"sha1" gorm:"column:sha1;type:text"`
	SHA256     string `json:"sha256" gorm:"column:sha256;type:text"`
	SHA384     string `json:"sha384" gorm:"column:sha384;type:text"`
	SHA512     string `json:"sha512" gorm:"column:sha512;type:text"`
	SHA3_256   string `json:"sha3_256" gorm:"column:sha3_256;type:text"`
	SHA3_384   string `json:"sha3_384" gorm:"column:sha3_384;type:text"`
	SHA3_512   string `json:"sha3_512" gorm:"column:sha3_512;type:text"`
	BLAKE2b256 string `json:"blake2b_256" gorm:"column:blake2b_256;type:text"`
	BLAKE2b384 string `json:"blake2b_384" gorm:"column:blake2b_384;type:text"`
	BLAKE2b512 string `json:"blake2b_512" gorm:"column:blake2b_512;type:text"`
	BLAKE3     string `json:"blake3" gorm:"column:blake3;type:text"`

	LicenseID *uuid.UUID `json:"licenseId" gorm:"type:uuid"`
	License   *License   `json:"license,omitempty" gorm:"foreignKey:LicenseID;constraint:OnDelete:SET NULL;"`

	Vulnerabilities []Vulnerability `json:"-" gorm:"many2many:components_vulnerabilities;constraint:OnDelete:CASCADE;"`
}

func (c Component) TableName() string {
	return "components"
}

func (c Component) IndexEntity() string {
	return "component"
}

func (c Component) GetPurl() (packageurl.PackageURL, error) {
	return packageurl.FromString(c.Purl)
}

type License struct {
	Model
	LicenseID string `json:"licenseId" gorm:"column:license_id;type:text;uniqueIndex"`
	Name      string `json:"name" gorm:"type:text"`
}

func (l License) TableName() string {
	return "licenses"
}

func (l License) IndexEntity() string {
	return "license"
}
