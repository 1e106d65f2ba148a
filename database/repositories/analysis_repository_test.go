package repositories_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/database/repositories"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/tests"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAnalysisRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewAnalysisRepository(db)

	project := models.Project{Name: "shop"}
	require.NoError(t, db.Create(&project).Error)
	component := models.Component{ProjectID: &project.ID, Name: "lodash"}
	require.NoError(t, db.Create(&component).Error)
	vulnerability := models.Vulnerability{Source: "NVD", VulnID: "CVE-2024-0001"}
	require.NoError(t, db.Create(&vulnerability).Error)

	projectKey := shared.AnalysisKey{ProjectID: &project.ID, ComponentID: component.ID, VulnerabilityID: vulnerability.ID}
	globalKey := shared.AnalysisKey{ComponentID: component.ID, VulnerabilityID: vulnerability.ID}

	t.Run("a new analysis starts unset", func(t *testing.T) {
		analysis, err := repository.MakeAnalysis(ctx, globalKey, shared.AnalysisUpdate{Details: utils.Ptr("shared lib")})
		require.NoError(t, err)
		assert.Equal(t, models.AnalysisStateNotSet, analysis.State)
		assert.Equal(t, models.JustificationNotSet, analysis.Justification)
		assert.Equal(t, "shared lib", analysis.Details)
		assert.Nil(t, analysis.ProjectID)
	})

	t.Run("updates only overwrite the given fields", func(t *testing.T) {
		first, err := repository.MakeAnalysis(ctx, projectKey, shared.AnalysisUpdate{
			State:    utils.Ptr(models.AnalysisStateExploitable),
			Response: utils.Ptr(models.ResponseUpdate),
		})
		require.NoError(t, err)

		second, err := repository.MakeAnalysis(ctx, projectKey, shared.AnalysisUpdate{Suppressed: utils.Ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.AnalysisStateExploitable, second.State)
		assert.Equal(t, models.ResponseUpdate, second.Response)
		assert.True(t, second.Suppressed)
	})

	t.Run("the project analysis is more specific than the global one", func(t *testing.T) {
		analysis, err := repository.GetMostSpecific(ctx, project.ID, component.ID, vulnerability.ID)
		require.NoError(t, err)
		require.NotNil(t, analysis.ProjectID)
		assert.Equal(t, project.ID, *analysis.ProjectID)
	})

	t.Run("comments are loaded in order", func(t *testing.T) {
		analysis, err := repository.GetMostSpecific(ctx, project.ID, component.ID, vulnerability.ID)
		require.NoError(t, err)
		_, err = repository.MakeComment(ctx, analysis.ID, "first", "alice")
		require.NoError(t, err)
		_, err = repository.MakeComment(ctx, analysis.ID, "second", "bob")
		require.NoError(t, err)

		analysis, err = repository.GetMostSpecific(ctx, project.ID, component.ID, vulnerability.ID)
		require.NoError(t, err)
		require.Len(t, analysis.Comments, 2)
		assert.Equal(t, "first", analysis.Comments[0].Comment)
		assert.Equal(t, "bob", analysis.Comments[1].Commenter)
	})

	t.Run("suppressed analyses are not audited", func(t *testing.T) {
		audited, err := repository.CountAudited(ctx, project.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), audited)

		suppressed, err := repository.CountSuppressed(ctx, project.ID, &component.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), suppressed)

		_, err = repository.MakeAnalysis(ctx, projectKey, shared.AnalysisUpdate{Suppressed: utils.Ptr(false)})
		require.NoError(t, err)
		audited, err = repository.CountAudited(ctx, project.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), audited)
	})
}

func TestFindingAttributionRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewFindingAttributionRepository(db)

	project := models.Project{Name: "shop"}
	require.NoError(t, db.Create(&project).Error)
	component := models.Component{ProjectID: &project.ID, Name: "lodash"}
	require.NoError(t, db.Create(&component).Error)
	vulnerability := models.Vulnerability{Source: "GITHUB", VulnID: "GHSA-0001"}
	require.NoError(t, db.Create(&vulnerability).Error)

	longURL := "https://example.com/" + strings.Repeat("advisory/", 40)

	written, err := repository.Attribute(ctx, &models.FindingAttribution{
		ProjectID:        project.ID,
		ComponentID:      component.ID,
		VulnerabilityID:  vulnerability.ID,
		AnalyzerIdentity: "OSSINDEX_ANALYZER",
		AttributedOn:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ReferenceURL:     longURL,
	})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = repository.Attribute(ctx, &models.FindingAttribution{
		ProjectID:        project.ID,
		ComponentID:      component.ID,
		VulnerabilityID:  vulnerability.ID,
		AnalyzerIdentity: "INTERNAL_ANALYZER",
		AttributedOn:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, written)

	attribution, err := repository.Get(ctx, component.ID, vulnerability.ID)
	require.NoError(t, err)
	assert.Equal(t, "OSSINDEX_ANALYZER", attribution.AnalyzerIdentity)
	assert.Len(t, attribution.ReferenceURL, models.MaxReferenceURLLength)
}

func TestComponentAnalysisCacheRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewComponentAnalysisCacheRepository(db)

	key := shared.ComponentAnalysisCacheKey{
		CacheType:  models.CacheTypeVulnerability,
		TargetHost: "https://ossindex.sonatype.org",
		TargetType: "PURL",
		Target:     "pkg:npm/lodash@4.17.20",
	}

	_, err := repository.Get(ctx, key)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	first, err := repository.Update(ctx, key, datatypes.JSON(`{"vulnIds":["CVE-2024-0001"]}`), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	second, err := repository.Update(ctx, key, datatypes.JSON(`{"vulnIds":[]}`), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.JSONEq(t, `{"vulnIds":[]}`, string(second.Result))
	assert.True(t, second.IsExpired(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour))

	require.NoError(t, repository.Clear(ctx))
	_, err = repository.Get(ctx, key)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
