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

package dtos

import "github.com/google/uuid"

// Finding is the read model of one vulnerability on one component in one project.
// Every section is a flat key/value map so it can be serialized as is.
type Finding struct {
	Component     map[string]any `json:"component"`
	Vulnerability map[string]any `json:"vulnerability"`
	Analysis      map[string]any `json:"analysis"`
	Attribution   map[string]any `json:"attribution"`
	Matrix        string         `json:"matrix"`
}

// Key identifies the finding by project, component and vulnerability.
func (f Finding) Key() string {
	return f.Matrix
}

func NewFindingMatrix(projectID, componentID, vulnerabilityID uuid.UUID) string {
	return projectID.String() + ":" + componentID.String() + ":" + vulnerabilityID.String()
}

// GroupedFinding is the read model of a vulnerability aggregated over every affected project.
type GroupedFinding struct {
	Vulnerability map[string]any `json:"vulnerability"`
	Attribution   map[string]any `json:"attribution"`
}

type VulnerabilityAliasDTO struct {
	Source string `json:"source"`
	VulnID string `json:"vulnId"`
}
