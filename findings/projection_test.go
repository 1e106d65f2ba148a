package findings_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/dtos"
	"github.com/l3montree-dev/devguard-findings/findings"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func findingRow(purl, version string) models.FindingRow {
	return models.FindingRow{
		ComponentID:      uuid.New(),
		ComponentName:    "lib",
		ComponentGroup:   utils.Ptr("org.acme"),
		ComponentVersion: utils.Ptr(version),
		ComponentPurl:    utils.Ptr(purl),
		ProjectID:        uuid.New(),
		ProjectName:      "shop",
		ProjectVersion:   utils.Ptr("1.0"),
		VulnerabilityRow: models.VulnerabilityRow{
			VulnerabilityID:     uuid.New(),
			VulnerabilitySource: "NVD",
			VulnID:              "CVE-2024-0001",
			Severity:            utils.Ptr("HIGH"),
			CWEs:                utils.Ptr("[79, 89]"),
		},
		AnalyzerIdentity: utils.Ptr("INTERNAL_ANALYZER"),
		AnalysisState:    utils.Ptr("NOT_AFFECTED"),
		IsSuppressed:     false,
	}
}

func TestEnricherFindings(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches aliases, texts and the latest version", func(t *testing.T) {
		row := findingRow("pkg:maven/org.acme/lib@1.0.0", "1.0.0")

		vulnerabilities := mocks.NewVulnerabilityRepository(t)
		vulnerabilities.On("GetAliases", mock.Anything, []uuid.UUID{row.VulnerabilityID}).Return(map[uuid.UUID][]models.VulnerabilityAlias{
			row.VulnerabilityID: {{Model: models.Model{ID: uuid.New()}, VulnerabilityID: row.VulnerabilityID, Source: "GITHUB", AliasID: "GHSA-xxxx"}},
		}, nil)
		vulnerabilities.On("GetTexts", mock.Anything, []uuid.UUID{row.VulnerabilityID}).Return(map[uuid.UUID]models.Vulnerability{
			row.VulnerabilityID: {Description: "bad things", Recommendation: "update"},
		}, nil)

		coordinates := models.RepositoryMetaCoordinates{RepositoryType: models.RepositoryTypeMaven, Namespace: "org.acme", Name: "lib"}
		repositoryMeta := mocks.NewRepositoryMetaService(t)
		repositoryMeta.On("Lookup", mock.Anything, []models.RepositoryMetaCoordinates{coordinates}).Return(map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent{
			coordinates: {RepositoryType: models.RepositoryTypeMaven, Namespace: "org.acme", Name: "lib", LatestVersion: "2.0.0"},
		}, nil)

		result, err := findings.NewEnricher(vulnerabilities, vulnerabilities, repositoryMeta).Findings(ctx, []models.FindingRow{row})
		require.NoError(t, err)
		require.Len(t, result, 1)

		finding := result[0]
		assert.Equal(t, row.ProjectID.String()+":"+row.ComponentID.String()+":"+row.VulnerabilityID.String(), finding.Key())
		assert.Equal(t, "2.0.0", finding.Component["latestVersion"])
		assert.Equal(t, true, finding.Component["outdated"])
		assert.Equal(t, "bad things", finding.Vulnerability["description"])
		assert.Equal(t, "update", finding.Vulnerability["recommendation"])
		assert.Equal(t, []int{79, 89}, finding.Vulnerability["cwes"])
		assert.Equal(t, "HIGH", finding.Vulnerability["severity"])
		assert.Equal(t, map[string]any{"state": "NOT_AFFECTED", "isSuppressed": false}, finding.Analysis)

		if diff := cmp.Diff([]dtos.VulnerabilityAliasDTO{{Source: "GITHUB", VulnID: "GHSA-xxxx"}}, finding.Vulnerability["aliases"]); diff != "" {
			t.Errorf("aliases mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("an up to date component is not flagged outdated", func(t *testing.T) {
		row := findingRow("pkg:npm/lib@2.0.0", "2.0.0")

		vulnerabilities := mocks.NewVulnerabilityRepository(t)
		vulnerabilities.On("GetAliases", mock.Anything, mock.Anything).Return(map[uuid.UUID][]models.VulnerabilityAlias{}, nil)
		vulnerabilities.On("GetTexts", mock.Anything, mock.Anything).Return(map[uuid.UUID]models.Vulnerability{}, nil)

		coordinates := models.RepositoryMetaCoordinates{RepositoryType: models.RepositoryTypeNpm, Name: "lib"}
		repositoryMeta := mocks.NewRepositoryMetaService(t)
		repositoryMeta.On("Lookup", mock.Anything, mock.Anything).Return(map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent{
			coordinates: {RepositoryType: models.RepositoryTypeNpm, Name: "lib", LatestVersion: "2.0.0"},
		}, nil)

		result, err := findings.NewEnricher(vulnerabilities, vulnerabilities, repositoryMeta).Findings(ctx, []models.FindingRow{row})
		require.NoError(t, err)

		assert.Equal(t, "2.0.0", result[0].Component["latestVersion"])
		assert.NotContains(t, result[0].Component, "outdated")
		assert.Empty(t, result[0].Vulnerability["aliases"])
	})

	t.Run("malformed purls are skipped", func(t *testing.T) {
		row := findingRow("not a purl", "1.0.0")

		vulnerabilities := mocks.NewVulnerabilityRepository(t)
		vulnerabilities.On("GetAliases", mock.Anything, mock.Anything).Return(map[uuid.UUID][]models.VulnerabilityAlias{}, nil)
		vulnerabilities.On("GetTexts", mock.Anything, mock.Anything).Return(map[uuid.UUID]models.Vulnerability{}, nil)
		// no lookup is expected, the mock fails the test on an unexpected call
		repositoryMeta := mocks.NewRepositoryMetaService(t)

		result, err := findings.NewEnricher(vulnerabilities, vulnerabilities, repositoryMeta).Findings(ctx, []models.FindingRow{row})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.NotContains(t, result[0].Component, "latestVersion")
	})

	t.Run("severity is derived from the cvss vector", func(t *testing.T) {
		row := findingRow("", "1.0.0")
		row.Severity = nil
		row.CVSSV3Vector = utils.Ptr("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")

		vulnerabilities := mocks.NewVulnerabilityRepository(t)
		vulnerabilities.On("GetAliases", mock.Anything, mock.Anything).Return(map[uuid.UUID][]models.VulnerabilityAlias{}, nil)
		vulnerabilities.On("GetTexts", mock.Anything, mock.Anything).Return(map[uuid.UUID]models.Vulnerability{}, nil)

		result, err := findings.NewEnricher(vulnerabilities, vulnerabilities, mocks.NewRepositoryMetaService(t)).Findings(ctx, []models.FindingRow{row})
		require.NoError(t, err)
		assert.Equal(t, "CRITICAL", result[0].Vulnerability["severity"])
		assert.Equal(t, 0, result[0].Vulnerability["severityRank"])
	})

	t.Run("lookup errors fail the projection", func(t *testing.T) {
		vulnerabilities := mocks.NewVulnerabilityRepository(t)
		vulnerabilities.On("GetAliases", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := findings.NewEnricher(vulnerabilities, vulnerabilities, mocks.NewRepositoryMetaService(t)).Findings(ctx, []models.FindingRow{findingRow("", "1.0.0")})
		assert.Error(t, err)
	})

	t.Run("no rows need no lookups", func(t *testing.T) {
		result, err := findings.NewEnricher(mocks.NewVulnerabilityRepository(t), mocks.NewVulnerabilityRepository(t), mocks.NewRepositoryMetaService(t)).Findings(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestEnricherGroupedFindings(t *testing.T) {
	vulnerabilityID := uuid.New()
	row := models.GroupedFindingRow{
		VulnerabilityRow: models.VulnerabilityRow{
			VulnerabilityID:     vulnerabilityID,
			VulnerabilitySource: "NVD",
			VulnID:              "CVE-2024-0002",
			CVSSV2BaseScore:     utils.Ptr(5.0),
		},
		AnalyzerIdentity:     utils.Ptr("OSSINDEX_ANALYZER"),
		AffectedProjectCount: 3,
		FirstSeen:            sql.NullString{String: "2024-01-01 00:00:00", Valid: true},
	}

	vulnerabilities := mocks.NewVulnerabilityRepository(t)
	vulnerabilities.On("GetAliases", mock.Anything, []uuid.UUID{vulnerabilityID}).Return(map[uuid.UUID][]models.VulnerabilityAlias{}, nil)

	result, err := findings.NewEnricher(vulnerabilities, vulnerabilities, mocks.NewRepositoryMetaService(t)).GroupedFindings(context.Background(), []models.GroupedFindingRow{row})
	require.NoError(t, err)
	require.Len(t, result, 1)

	grouped := result[0]
	assert.Equal(t, int64(3), grouped.Vulnerability["affectedProjectCount"])
	assert.Equal(t, utils.Ptr("2024-01-01 00:00:00"), grouped.Vulnerability["firstSeen"])
	assert.Nil(t, grouped.Vulnerability["lastSeen"])
	assert.Equal(t, "MEDIUM", grouped.Vulnerability["severity"])
	assert.Equal(t, "OSSINDEX_ANALYZER", grouped.Attribution["analyzerIdentity"])
}
