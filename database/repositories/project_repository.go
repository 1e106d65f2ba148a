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

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var projectSortColumns = map[string]string{
	"name":       "projects.name",
	"version":    "projects.version",
	"classifier": "projects.classifier",
	"createdAt":  "projects.created_at",
	"updatedAt":  "projects.updated_at",
}

type projectRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Project]
}

func NewProjectRepository(db *gorm.DB) *projectRepository {
	return &projectRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Project](db),
	}
}

func (g *projectRepository) Read(ctx context.Context, id uuid.UUID) (models.Project, error) {
	var project models.Project
	err := g.db.WithContext(ctx).Preload("Tags").First(&project, "id = ?", id).Error
	return project, translateNotFound(err)
}

// Create stores the project. Tags are matched by name and created when missing.
func (g *projectRepository) Create(ctx context.Context, tx shared.DB, project *models.Project) error {
	db := g.GetDB(ctx, tx)
	for i := range project.Tags {
		if err := db.Where(models.Tag{Name: project.Tags[i].Name}).FirstOrCreate(&project.Tags[i]).Error; err != nil {
			return errors.Wrapf(err, "could not resolve tag %s", project.Tags[i].Name)
		}
	}
	return db.Omit("Tags.*", "AccessTeams.*").Create(project).Error
}

func (g *projectRepository) GetByNameAndVersion(ctx context.Context, name, version string) (models.Project, error) {
	var project models.Project
	err := g.db.WithContext(ctx).Preload("Tags").Where("name = ? AND version = ?", name, version).First(&project).Error
	return project, translateNotFound(err)
}

func (g *projectRepository) ListPaged(ctx context.Context, filter *querybuilder.ProjectFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Project], error) {
	page := opts.PageInfo()
	d, err := g.dialect()
	if err != nil {
		return shared.Paged[models.Project]{}, err
	}
	where, params, err := filter.Build(d)
	if err != nil {
		return shared.Paged[models.Project]{}, errors.Wrap(err, "could not build project filter")
	}

	order := "projects.name ASC"
	if sort := opts.Sort(); sort != nil {
		column, ok := projectSortColumns[sort.Field]
		if !ok {
			return shared.Paged[models.Project]{}, errors.Wrapf(shared.ErrUnknownSortField, "%q", sort.Field)
		}
		order = orderBy(column, sort)
	}

	q := whereNamed(g.db.WithContext(ctx).Model(&models.Project{}), where, params)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return shared.Paged[models.Project]{}, err
	}

	q = q.Preload("Tags").Order(order).Order("projects.id ASC")
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return shared.Paged[models.Project]{}, err
	}
	return shared.NewPaged(page, total, projects), nil
}

func (g *projectRepository) GetDirectChildren(ctx context.Context, parentID uuid.UUID) ([]models.Project, error) {
	var children []models.Project
	err := g.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("name ASC").Find(&children).Error
	return children, err
}

func (g *projectRepository) GrantTeam(ctx context.Context, tx shared.DB, projectID, teamID uuid.UUID) error {
	return g.GetDB(ctx, tx).Table("project_access_teams").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"project_id": projectID, "team_id": teamID}).Error
}
