package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/services"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func repositoryMetaConfig() shared.Config {
	return shared.Config{RepositoryMeta: shared.RepositoryMetaConfig{CacheSize: 16, CacheTTL: time.Minute}}
}

func TestRepositoryMetaServiceLookup(t *testing.T) {
	ctx := context.Background()
	lodash := models.RepositoryMetaCoordinates{RepositoryType: models.RepositoryTypeNpm, Name: "lodash"}
	guava := models.RepositoryMetaCoordinates{RepositoryType: models.RepositoryTypeMaven, Namespace: "com.google.guava", Name: "guava"}

	t.Run("second lookups are served from the cache", func(t *testing.T) {
		repository := mocks.NewRepositoryMetaComponentRepository(t)
		repository.On("FindByCoordinatesBatch", mock.Anything, []models.RepositoryMetaCoordinates{lodash, guava}).Return([]models.RepositoryMetaComponent{
			{RepositoryType: models.RepositoryTypeNpm, Name: "lodash", LatestVersion: "4.17.21"},
		}, nil).Once()
		// guava was not found and is asked for again
		repository.On("FindByCoordinatesBatch", mock.Anything, []models.RepositoryMetaCoordinates{guava}).Return([]models.RepositoryMetaComponent{}, nil).Once()

		service := services.NewRepositoryMetaService(repositoryMetaConfig(), repository)
		first, err := service.Lookup(ctx, []models.RepositoryMetaCoordinates{lodash, guava, lodash})
		require.NoError(t, err)
		assert.Len(t, first, 1)
		assert.Equal(t, "4.17.21", first[lodash].LatestVersion)

		second, err := service.Lookup(ctx, []models.RepositoryMetaCoordinates{lodash, guava})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("synchronize refreshes the cached entry", func(t *testing.T) {
		repository := mocks.NewRepositoryMetaComponentRepository(t)
		meta := models.RepositoryMetaComponent{RepositoryType: models.RepositoryTypeNpm, Name: "lodash", LatestVersion: "4.17.22", LastCheck: time.Now()}
		repository.On("Synchronize", mock.Anything, meta).Return(meta, nil)

		service := services.NewRepositoryMetaService(repositoryMetaConfig(), repository)
		_, err := service.Synchronize(ctx, meta)
		require.NoError(t, err)

		result, err := service.Lookup(ctx, []models.RepositoryMetaCoordinates{lodash})
		require.NoError(t, err)
		assert.Equal(t, "4.17.22", result[lodash].LatestVersion)
	})

	t.Run("store errors are returned", func(t *testing.T) {
		repository := mocks.NewRepositoryMetaComponentRepository(t)
		repository.On("FindByCoordinatesBatch", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := services.NewRepositoryMetaService(repositoryMetaConfig(), repository).Lookup(ctx, []models.RepositoryMetaCoordinates{lodash})
		assert.Error(t, err)
	})
}
