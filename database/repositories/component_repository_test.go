package repositories_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/database/repositories"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRepositorySearch(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewComponentRepository(db)

	shop := models.Project{Name: "shop"}
	require.NoError(t, db.Create(&shop).Error)
	intranet := models.Project{Name: "intranet"}
	require.NoError(t, db.Create(&intranet).Error)

	sha256 := strings.Repeat("ab", 32)
	lodash := models.Component{ProjectID: &shop.ID, Name: "lodash", Version: "4.17.20", Purl: "pkg:npm/lodash@4.17.20", SHA256: sha256}
	require.NoError(t, repository.Create(ctx, &lodash))
	copied := models.Component{ProjectID: &intranet.ID, Name: "lodash", Version: "4.17.20", Purl: "pkg:npm/lodash@4.17.20", BLAKE2b256: sha256}
	require.NoError(t, repository.Create(ctx, &copied))
	log4j := models.Component{ProjectID: &shop.ID, Group: "org.apache.logging.log4j", Name: "log4j-core", Version: "2.14.0"}
	require.NoError(t, repository.Create(ctx, &log4j))

	opts, err := shared.NewQueryOptions(shared.PageInfo{Limit: 10}, nil)
	require.NoError(t, err)

	t.Run("hashes match every digest column of the same length", func(t *testing.T) {
		page, err := repository.Search(ctx, querybuilder.NewComponentFilterBuilder().WithHash(strings.ToUpper(sha256)), opts)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("the scope hides components of other projects", func(t *testing.T) {
		filter := querybuilder.NewComponentFilterBuilder().WithHash(sha256).WithScope(shared.RestrictedScope([]uuid.UUID{shop.ID}))
		page, err := repository.Search(ctx, filter, opts)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, lodash.ID, page.Data[0].ID)
		require.NotNil(t, page.Data[0].Project)
		assert.Equal(t, "shop", page.Data[0].Project.Name)
	})

	t.Run("fuzzy name or group", func(t *testing.T) {
		page, err := repository.Search(ctx, querybuilder.NewComponentFilterBuilder().WithFuzzyNameOrGroup("APACHE"), opts)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, log4j.ID, page.Data[0].ID)
	})

	t.Run("sorted and paged", func(t *testing.T) {
		sorted := opts.WithSort("name", shared.SortDesc).WithPage(shared.PageInfo{Limit: 1, Offset: 0})
		page, err := repository.Search(ctx, querybuilder.NewComponentFilterBuilder().WithProject(shop.ID), sorted)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "log4j-core", page.Data[0].Name)
	})
}

func TestVulnerabilityRepository(t *testing.T) {
	db := tests.InitSQLiteDatabase(t)
	ctx := context.Background()
	repository := repositories.NewVulnerabilityRepository(db)

	vulnerability := models.Vulnerability{
		Source:         "NVD",
		VulnID:         "CVE-2021-44228",
		Description:    "jndi lookup",
		Recommendation: "upgrade",
		CWEs:           []int{20, 502},
		Aliases: []models.VulnerabilityAlias{
			{Source: "GITHUB", AliasID: "GHSA-jfh8-c2jp-5v3q"},
			{Source: "OSV", AliasID: "GHSA-jfh8-c2jp-5v3q"},
		},
	}
	require.NoError(t, repository.Create(ctx, &vulnerability))
	other := models.Vulnerability{Source: "NVD", VulnID: "CVE-2024-0001"}
	require.NoError(t, repository.Create(ctx, &other))

	t.Run("aliases are grouped by vulnerability", func(t *testing.T) {
		aliases, err := repository.GetAliases(ctx, []uuid.UUID{vulnerability.ID, other.ID})
		require.NoError(t, err)
		require.Len(t, aliases[vulnerability.ID], 2)
		assert.Equal(t, "GITHUB", aliases[vulnerability.ID][0].Source)
		assert.Empty(t, aliases[other.ID])
	})

	t.Run("texts are loaded without the rest of the row", func(t *testing.T) {
		texts, err := repository.GetTexts(ctx, []uuid.UUID{vulnerability.ID})
		require.NoError(t, err)
		assert.Equal(t, "jndi lookup", texts[vulnerability.ID].Description)
		assert.Equal(t, "upgrade", texts[vulnerability.ID].Recommendation)
		assert.Empty(t, texts[vulnerability.ID].VulnID)
	})

	t.Run("lookup by source and id", func(t *testing.T) {
		found, err := repository.GetBySourceAndVulnID(ctx, "NVD", "CVE-2021-44228")
		require.NoError(t, err)
		assert.Equal(t, []int{20, 502}, []int(found.CWEs))
		assert.Len(t, found.Aliases, 2)

		_, err = repository.GetBySourceAndVulnID(ctx, "GITHUB", "CVE-2021-44228")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
