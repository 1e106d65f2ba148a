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
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var unauditedStates = []string{string(models.AnalysisStateNotSet), string(models.AnalysisStateInTriage)}

type analysisRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Analysis]
}

func NewAnalysisRepository(db *gorm.DB) *analysisRepository {
	return &analysisRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Analysis](db),
	}
}

func scopeOf(db *gorm.DB, key shared.AnalysisKey) *gorm.DB {
	db = db.Where("component_id = ? AND vulnerability_id = ?", key.ComponentID, key.VulnerabilityID)
	if key.ProjectID == nil {
		return db.Where("project_id IS NULL")
	}
	return db.Where("project_id = ?", *key.ProjectID)
}

// MakeAnalysis creates the analysis for key or updates the fields set in update.
// The read and the write run in one transaction.
func (a *analysisRepository) MakeAnalysis(ctx context.Context, key shared.AnalysisKey, update shared.AnalysisUpdate) (models.Analysis, error) {
	var analysis models.Analysis
	err := a.Transaction(ctx, func(tx shared.DB) error {
		err := scopeOf(tx, key).First(&analysis).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			analysis = models.Analysis{
				ProjectID:       key.ProjectID,
				ComponentID:     key.ComponentID,
				VulnerabilityID: key.VulnerabilityID,
				State:           models.AnalysisStateNotSet,
				Justification:   models.JustificationNotSet,
				Response:        models.ResponseNotSet,
			}
		}

		if update.State != nil {
			analysis.State = *update.State
		}
		if update.Justification != nil {
			analysis.Justification = *update.Justification
		}
		if update.Response != nil {
			analysis.Response = *update.Response
		}
		if update.Details != nil {
			analysis.Details = *update.Details
		}
		if update.Suppressed != nil {
			analysis.Suppressed = *update.Suppressed
		}
		return tx.Omit("Project", "Component", "Vulnerability", "Comments").Save(&analysis).Error
	})
	return analysis, err
}

func (a *analysisRepository) MakeComment(ctx context.Context, analysisID uuid.UUID, comment, commenter string) (models.AnalysisComment, error) {
	c := models.AnalysisComment{
		AnalysisID: analysisID,
		Timestamp:  time.Now().UTC(),
		Comment:    comment,
		Commenter:  commenter,
	}
	err := a.db.WithContext(ctx).Create(&c).Error
	return c, err
}

// GetMostSpecific returns the project analysis if there is one and the global analysis otherwise.
func (a *analysisRepository) GetMostSpecific(ctx context.Context, projectID, componentID, vulnerabilityID uuid.UUID) (models.Analysis, error) {
	var analysis models.Analysis
	err := a.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}) }).
		Where("component_id = ? AND vulnerability_id = ?", componentID, vulnerabilityID).
		Where("project_id = ? OR project_id IS NULL", projectID).
		Order("CASE WHEN project_id IS NULL THEN 1 ELSE 0 END").
		First(&analysis).Error
	return analysis, translateNotFound(err)
}

func (a *analysisRepository) countInProject(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) *gorm.DB {
	q := a.db.WithContext(ctx).Model(&models.Analysis{}).Where("project_id = ?", projectID)
	if componentID != nil {
		q = q.Where("component_id = ?", *componentID)
	}
	return q
}

func (a *analysisRepository) CountAudited(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error) {
	var count int64
	err := a.countInProject(ctx, projectID, componentID).
		Where("state IS NOT NULL AND state NOT IN ?", unauditedStates).
		Where("suppressed = ?", false).
		Count(&count).Error
	return count, err
}

func (a *analysisRepository) CountSuppressed(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) (int64, error) {
	var count int64
	err := a.countInProject(ctx, projectID, componentID).
		Where("suppressed = ?", true).
		Count(&count).Error
	return count, err
}
