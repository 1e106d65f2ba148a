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

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
)

type analysisService struct {
	analysisRepository shared.AnalysisRepository
	aclInjector        shared.ACLInjector
}

var _ shared.AnalysisService = &analysisService{}

func NewAnalysisService(analysisRepository shared.AnalysisRepository, aclInjector shared.ACLInjector) *analysisService {
	return &analysisService{
		analysisRepository: analysisRepository,
		aclInjector:        aclInjector,
	}
}

func commenterOf(principal models.Principal) string {
	if principal == nil {
		return ""
	}
	return principal.GetName()
}

// Triage records an audit decision. Project decisions need access to the project,
// global decisions need an unrestricted scope.
func (s *analysisService) Triage(ctx context.Context, principal models.Principal, key shared.AnalysisKey, update shared.AnalysisUpdate, comment string) (models.Analysis, error) {
	if key.ProjectID != nil {
		if !s.aclInjector.HasAccess(ctx, principal, *key.ProjectID) {
			return models.Analysis{}, errors.Wrapf(shared.ErrAccessDenied, "project %s", *key.ProjectID)
		}
	} else if !s.aclInjector.Scope(ctx, principal).IsUnrestricted() {
		return models.Analysis{}, errors.Wrap(shared.ErrAccessDenied, "global analysis")
	}

	analysis, err := s.analysisRepository.MakeAnalysis(ctx, key, update)
	if err != nil {
		return models.Analysis{}, errors.Wrap(err, "could not store analysis")
	}

	if comment != "" {
		c, err := s.analysisRepository.MakeComment(ctx, analysis.ID, comment, commenterOf(principal))
		if err != nil {
			return models.Analysis{}, errors.Wrap(err, "could not store analysis comment")
		}
		analysis.Comments = append(analysis.Comments, c)
	}

	slog.Info("analysis updated", "analysis", analysis.ID, "state", analysis.State, "suppressed", analysis.Suppressed)
	return analysis, nil
}
