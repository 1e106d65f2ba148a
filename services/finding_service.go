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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/dtos"
	"github.com/l3montree-dev/devguard-findings/findings"
	"github.com/l3montree-dev/devguard-findings/monitoring"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
)

type findingService struct {
	findingRepository shared.FindingRepository
	aclInjector       shared.ACLInjector
	composer          *findings.Composer
	enricher          *findings.Enricher
}

var _ shared.FindingService = &findingService{}

func NewFindingService(findingRepository shared.FindingRepository, aclInjector shared.ACLInjector, composer *findings.Composer, enricher *findings.Enricher) *findingService {
	return &findingService{
		findingRepository: findingRepository,
		aclInjector:       aclInjector,
		composer:          composer,
		enricher:          enricher,
	}
}

func observe(mode string) func() {
	start := time.Now()
	monitoring.FindingQueryAmount.WithLabelValues(mode).Inc()
	return func() {
		monitoring.FindingQueryDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}
}

func (s *findingService) ListFindings(ctx context.Context, principal models.Principal, filters map[string]string, opts shared.QueryOptions) (shared.Paged[dtos.Finding], error) {
	defer observe("flat")()

	scope := s.aclInjector.Scope(ctx, principal)
	stmt, err := s.composer.ComposeFindings(opts, filters, scope)
	if err != nil {
		return shared.Paged[dtos.Finding]{}, err
	}
	// nothing can match, the statement would only render 1 = 0
	if scope.IsDenyAll() {
		return shared.NewPaged(opts.PageInfo(), 0, []dtos.Finding{}), nil
	}

	total, err := s.findingRepository.Count(ctx, stmt)
	if err != nil {
		return shared.Paged[dtos.Finding]{}, errors.Wrap(err, "could not count findings")
	}
	rows, err := s.findingRepository.Find(ctx, stmt)
	if err != nil {
		return shared.Paged[dtos.Finding]{}, errors.Wrap(err, "could not load findings")
	}
	result, err := s.enricher.Findings(ctx, rows)
	if err != nil {
		return shared.Paged[dtos.Finding]{}, err
	}
	return shared.NewPaged(opts.PageInfo(), total, result), nil
}

func (s *findingService) ListGroupedFindings(ctx context.Context, principal models.Principal, filters map[string]string, opts shared.QueryOptions) (shared.Paged[dtos.GroupedFinding], error) {
	defer observe("grouped")()

	scope := s.aclInjector.Scope(ctx, principal)
	stmt, err := s.composer.ComposeGroupedFindings(opts, filters, scope)
	if err != nil {
		return shared.Paged[dtos.GroupedFinding]{}, err
	}
	if scope.IsDenyAll() {
		return shared.NewPaged(opts.PageInfo(), 0, []dtos.GroupedFinding{}), nil
	}

	total, err := s.findingRepository.Count(ctx, stmt)
	if err != nil {
		return shared.Paged[dtos.GroupedFinding]{}, errors.Wrap(err, "could not count grouped findings")
	}
	rows, err := s.findingRepository.FindGrouped(ctx, stmt)
	if err != nil {
		return shared.Paged[dtos.GroupedFinding]{}, errors.Wrap(err, "could not load grouped findings")
	}
	result, err := s.enricher.GroupedFindings(ctx, rows)
	if err != nil {
		return shared.Paged[dtos.GroupedFinding]{}, err
	}
	return shared.NewPaged(opts.PageInfo(), total, result), nil
}

// ListProjectFindings returns every finding of one project ordered by component and vulnerability.
func (s *findingService) ListProjectFindings(ctx context.Context, principal models.Principal, projectID uuid.UUID, includeSuppressed bool) ([]dtos.Finding, error) {
	defer observe("project")()

	if !s.aclInjector.HasAccess(ctx, principal, projectID) {
		return nil, errors.Wrapf(shared.ErrAccessDenied, "project %s", projectID)
	}
	stmt, err := s.composer.ComposeProjectFindings(projectID, includeSuppressed)
	if err != nil {
		return nil, err
	}
	rows, err := s.findingRepository.Find(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "could not load project findings")
	}
	return s.enricher.Findings(ctx, rows)
}
