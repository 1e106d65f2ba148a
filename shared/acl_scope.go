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

package shared

import (
	"slices"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
)

// ACLScope is the set of projects a principal may read. The zero value denies everything.
type ACLScope struct {
	unrestricted bool
	projectIDs   []uuid.UUID
}

func UnrestrictedScope() ACLScope {
	return ACLScope{unrestricted: true}
}

func DenyAllScope() ACLScope {
	return ACLScope{}
}

func RestrictedScope(projectIDs []uuid.UUID) ACLScope {
	ids := slices.Clone(projectIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ACLScope{projectIDs: slices.Compact(ids)}
}

func (s ACLScope) IsUnrestricted() bool {
	return s.unrestricted
}

func (s ACLScope) IsDenyAll() bool {
	return !s.unrestricted && len(s.projectIDs) == 0
}

func (s ACLScope) ProjectIDs() []uuid.UUID {
	return slices.Clone(s.projectIDs)
}

func (s ACLScope) Allows(projectID uuid.UUID) bool {
	if s.unrestricted {
		return true
	}
	_, found := slices.BinarySearchFunc(s.projectIDs, projectID, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return found
}

// Apply adds the "acl" fragment to b, restricting column to the accessible projects.
func (s ACLScope) Apply(b *querybuilder.Builder, column querybuilder.Operand) *querybuilder.Builder {
	if s.unrestricted {
		return b
	}
	return b.With("acl", querybuilder.Membership(column, s))
}
