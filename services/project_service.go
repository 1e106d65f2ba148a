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

package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/pkg/errors"
)

type projectService struct {
	projectRepository shared.ProjectRepository
	aclInjector       shared.ACLInjector
	dispatcher        shared.IndexEventDispatcher
}

var _ shared.ProjectService = &projectService{}

func NewProjectService(projectRepository shared.ProjectRepository, aclInjector shared.ACLInjector, dispatcher shared.IndexEventDispatcher) *projectService {
	return &projectService{
		projectRepository: projectRepository,
		aclInjector:       aclInjector,
		dispatcher:        dispatcher,
	}
}

// List returns the projects matching filter which the principal may read.
func (s *projectService) List(ctx context.Context, principal models.Principal, filter *querybuilder.ProjectFilterBuilder, opts shared.QueryOptions) (shared.Paged[models.Project], error) {
	if filter == nil {
		filter = querybuilder.NewProjectFilterBuilder()
	}
	scope := s.aclInjector.Scope(ctx, principal)
	if scope.IsDenyAll() {
		return shared.NewPaged(opts.PageInfo(), 0, []models.Project{}), nil
	}
	return s.projectRepository.ListPaged(ctx, filter.WithScope(scope), opts)
}

func (s *projectService) GetChildren(ctx context.Context, principal models.Principal, parentID uuid.UUID) ([]models.Project, error) {
	scope := s.aclInjector.Scope(ctx, principal)
	if !scope.Allows(parentID) {
		return nil, errors.Wrapf(shared.ErrAccessDenied, "project %s", parentID)
	}
	children, err := s.projectRepository.GetDirectChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return utils.Filter(children, func(p models.Project) bool {
		return scope.Allows(p.ID)
	}), nil
}

// Create stores the project and, for api keys, grants it to the first team of the key.
// Both writes share one transaction.
func (s *projectService) Create(ctx context.Context, principal models.Principal, project *models.Project) error {
	if err := shared.V.Var(project.Name, "required"); err != nil {
		return errors.Wrap(err, "project name is required")
	}
	if project.ParentID != nil && !s.aclInjector.HasAccess(ctx, principal, *project.ParentID) {
		return errors.Wrapf(shared.ErrAccessDenied, "parent project %s", *project.ParentID)
	}

	err := s.projectRepository.Transaction(ctx, func(tx shared.DB) error {
		if err := s.projectRepository.Create(ctx, tx, project); err != nil {
			return errors.Wrap(err, "could not create project")
		}
		return s.aclInjector.UpdateNewProjectACL(ctx, tx, principal, project.ID)
	})
	if err != nil {
		slog.Error("could not create project", "err", err, "name", project.Name, "version", project.Version)
		return err
	}

	s.dispatcher.Dispatch(ctx, shared.IndexEvent{Action: shared.IndexActionCommit, Entity: project.IndexEntity()})
	return nil
}

func (s *projectService) HasAccess(ctx context.Context, principal models.Principal, projectID uuid.UUID) bool {
	return s.aclInjector.HasAccess(ctx, principal, projectID)
}

func (s *projectService) UpdateNewProjectACL(ctx context.Context, tx shared.DB, principal models.Principal, projectID uuid.UUID) error {
	return s.aclInjector.UpdateNewProjectACL(ctx, tx, principal, projectID)
}
