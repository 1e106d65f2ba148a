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

package querybuilder

import (
	"strings"

	"github.com/google/uuid"
)

const componentsTable = "components"

var ComponentProjectID = Col(componentsTable, "project_id")

func componentCol(name string) Column {
	return Col(componentsTable, name)
}

// ComponentFilterBuilder builds WHERE clauses against the components table.
type ComponentFilterBuilder struct {
	b *Builder
}

func NewComponentFilterBuilder() *ComponentFilterBuilder {
	return &ComponentFilterBuilder{b: NewBuilder()}
}

func (c *ComponentFilterBuilder) Builder() *Builder {
	return c.b
}

func (c *ComponentFilterBuilder) WithProject(projectID uuid.UUID) *ComponentFilterBuilder {
	c.b.With("project", Eq(ComponentProjectID, projectID))
	return c
}

func (c *ComponentFilterBuilder) WithFuzzyGroup(group string) *ComponentFilterBuilder {
	c.b.With("group", Matches(componentCol("group_name"), group))
	return c
}

func (c *ComponentFilterBuilder) WithFuzzyName(name string) *ComponentFilterBuilder {
	c.b.With("name", Matches(componentCol("name"), name))
	return c
}

// WithFuzzyNameOrGroup matches the term against either the name or the group.
func (c *ComponentFilterBuilder) WithFuzzyNameOrGroup(term string) *ComponentFilterBuilder {
	c.b.With("nameOrGroup", Or(
		Matches(componentCol("name"), term),
		Matches(componentCol("group_name"), term),
	))
	return c
}

func (c *ComponentFilterBuilder) WithFuzzyVersion(version string) *ComponentFilterBuilder {
	c.b.With("version", Matches(componentCol("version"), version))
	return c
}

func (c *ComponentFilterBuilder) WithPurl(purl string) *ComponentFilterBuilder {
	c.b.With("purl", Matches(componentCol("purl"), purl))
	return c
}

func (c *ComponentFilterBuilder) WithCpe(cpe string) *ComponentFilterBuilder {
	c.b.With("cpe", Matches(componentCol("cpe"), cpe))
	return c
}

func (c *ComponentFilterBuilder) WithSwidTagID(swidTagID string) *ComponentFilterBuilder {
	c.b.With("swidTagId", Eq(componentCol("swid_tag_id"), swidTagID))
	return c
}

// WithHash picks the digest columns by the length of the hex encoded hash.
func (c *ComponentFilterBuilder) WithHash(hash string) *ComponentFilterBuilder {
	hash = strings.ToLower(strings.TrimSpace(hash))
	columns := HashColumns(hash)
	exprs := make([]Expr, len(columns))
	for i, col := range columns {
		exprs[i] = Eq(componentCol(col), hash)
	}
	c.b.With("hash", Or(exprs...))
	return c
}

func (c *ComponentFilterBuilder) WithScope(set ProjectSet) *ComponentFilterBuilder {
	if set.IsUnrestricted() {
		return c
	}
	c.b.With("acl", Membership(ComponentProjectID, set))
	return c
}

func (c *ComponentFilterBuilder) Build(d Dialect) (string, map[string]any, error) {
	return c.b.Build(d)
}

func HashColumns(hash string) []string {
	switch len(hash) {
	case 32:
		return []string{"md5"}
	case 40:
		return []string{"sha1"}
	case 64:
		return []string{"sha256", "sha3_256", "blake2b_256"}
	case 96:
		return []string{"sha384", "sha3_384", "blake2b_384"}
	case 128:
		return []string{"sha512", "sha3_512", "blake2b_512"}
	default:
		return []string{"blake3"}
	}
}
