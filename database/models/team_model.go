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

import "github.com/google/uuid"

type PrincipalKind string

const (
	PrincipalKindUser   PrincipalKind = "user"
	PrincipalKindAPIKey PrincipalKind = "apikey"
)

const PermissionAccessManagement = "ACCESS_MANAGEMENT"

// Principal is either an authenticated user or an api key.
type Principal interface {
	GetID() uuid.UUID
	GetKind() PrincipalKind
	GetName() string
}

type Team struct {
	Model
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`

	Users    []User    `json:"-" gorm:"many2many:user_teams;constraint:OnDelete:CASCADE;"`
	APIKeys  []APIKey  `json:"-" gorm:"many2many:api_key_teams;constraint:OnDelete:CASCADE;"`
	Projects []Project `json:"-" gorm:"many2many:project_access_teams;constraint:OnDelete:CASCADE;"`
}

func (t Team) TableName() string {
	return "teams"
}

type User struct {
	Model
	Username string `json:"username" gorm:"type:text;not null;uniqueIndex"`
	Teams    []Team `json:"teams" gorm:"many2many:user_teams;constraint:OnDelete:CASCADE;"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) GetKind() PrincipalKind {
	return PrincipalKindUser
}

func (u User) GetName() string {
	return u.Username
}

type APIKey struct {
	Model
	// only a public prefix of the key is stored
	KeyPrefix string `json:"keyPrefix" gorm:"type:text;not null;uniqueIndex"`
	Comment   string `json:"comment" gorm:"type:text"`
	Teams     []Team `json:"teams" gorm:"many2many:api_key_teams;constraint:OnDelete:CASCADE;"`
}

func (a APIKey) TableName() string {
	return "api_keys"
}

func (a APIKey) GetKind() PrincipalKind {
	return PrincipalKindAPIKey
}

func (a APIKey) GetName() string {
	return a.KeyPrefix
}
