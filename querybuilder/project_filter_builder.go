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
	"github.com/google/uuid"
)

const projectsTable = "projects"

var (
	ProjectID         = Col(projectsTable, "id")
	projectName       = Col(projectsTable, "name")
	projectVersion    = Col(projectsTable, "version")
	projectActive     = Col(projectsTable, "active")
	projectParentID   = Col(projectsTable, "parent_id")
	projectIsLatest   = Col(projectsTable, "is_latest")
	projectClassifier = Col(projectsTable, "classifier")
)

// ProjectFilterBuilder builds WHERE clauses against the projects table.
type ProjectFilterBuilder struct {
	b *Builder
}

func NewProjectFilterBuilder() *ProjectFilterBuilder {
	return &ProjectFilterBuilder{b: NewBuilder()}
}

func (p *ProjectFilterBuilder) Builder() *Builder {
	return p.b
}

func (p *ProjectFilterBuilder) ExcludeInactive() *ProjectFilterBuilder {
	p.b.With("active", Or(Eq(projectActive, true), IsNull(projectActive)))
	return p
}

func (p *ProjectFilterBuilder) ExcludeChildProjects() *ProjectFilterBuilder {
	p.b.With("rootOnly", IsNull(projectParentID))
	return p
}

func (p *ProjectFilterBuilder) WithTeam(teamID uuid.UUID) *ProjectFilterBuilder {
	p.b.With("team", InSubquery(ProjectID, teamGrantSubquery(teamID)))
	return p
}

func (p *ProjectFilterBuilder) NotWithTeam(teamID uuid.UUID) *ProjectFilterBuilder {
	p.b.With("notTeam", Not(InSubquery(ProjectID, teamGrantSubquery(teamID))))
	return p
}

func (p *ProjectFilterBuilder) WithFuzzyName(name string) *ProjectFilterBuilder {
	p.b.With("name", Matches(projectName, name))
	return p
}

// WithFuzzyNameOrExactTag matches projects whose name contains the text or that carry the tag.
func (p *ProjectFilterBuilder) WithFuzzyNameOrExactTag(name string, tag string) *ProjectFilterBuilder {
	p.b.With("nameOrTag", Or(
		Matches(projectName, name),
		InSubquery(ProjectID, tagSubquery(tag)),
	))
	return p
}

func (p *ProjectFilterBuilder) WithName(name string) *ProjectFilterBuilder {
	p.b.With("name", Eq(projectName, name))
	return p
}

func (p *ProjectFilterBuilder) WithVersion(version string) *ProjectFilterBuilder {
	p.b.With("version", Eq(projectVersion, version))
	return p
}

func (p *ProjectFilterBuilder) OnlyLatestVersion() *ProjectFilterBuilder {
	p.b.With("latest", Eq(projectIsLatest, true))
	return p
}

func (p *ProjectFilterBuilder) WithTag(tag string) *ProjectFilterBuilder {
	p.b.With("tag", InSubquery(ProjectID, tagSubquery(tag)))
	return p
}

func (p *ProjectFilterBuilder) WithClassifier(classifier string) *ProjectFilterBuilder {
	p.b.With("classifier", Eq(projectClassifier, classifier))
	return p
}

func (p *ProjectFilterBuilder) WithParent(parentID uuid.UUID) *ProjectFilterBuilder {
	p.b.With("parent", Eq(projectParentID, parentID))
	return p
}

// WithScope restricts the result to the projects of an access scope.
func (p *ProjectFilterBuilder) WithScope(set ProjectSet) *ProjectFilterBuilder {
	if set.IsUnrestricted() {
		return p
	}
	p.b.With("acl", Membership(ProjectID, set))
	return p
}

func (p *ProjectFilterBuilder) Build(d Dialect) (string, map[string]any, error) {
	return p.b.Build(d)
}

func teamGrantSubquery(teamID uuid.UUID) Subquery {
	return Subquery{
		Select: Col("project_access_teams", "project_id"),
		From:   "project_access_teams",
		Where:  Eq(Col("project_access_teams", "team_id"), teamID),
	}
}

func tagSubquery(tag string) Subquery {
	return Subquery{
		Select: Col("project_tags", "project_id"),
		From:   "project_tags",
		Where: InSubquery(Col("project_tags", "tag_id"), Subquery{
			Select: Col("tags", "id"),
			From:   "tags",
			Where:  Eq(Col("tags", "name"), tag),
		}),
	}
}
