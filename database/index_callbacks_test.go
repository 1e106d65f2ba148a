package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/mocks"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func indexEvent(action shared.IndexAction, entity string, id uuid.UUID) shared.IndexEvent {
	return shared.IndexEvent{Action: action, Entity: entity, ID: id}
}

func TestRegisterIndexCallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("create, update and delete of an indexable model are dispatched", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		project := models.Project{Model: models.Model{ID: uuid.New()}, Name: "shop", Version: "1.0"}
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "project", project.ID)).Once()
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionUpdate, "project", project.ID)).Once()
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionDelete, "project", project.ID)).Once()

		require.NoError(t, db.WithContext(ctx).Create(&project).Error)
		require.NoError(t, db.WithContext(ctx).Model(&project).Update("description", "web shop").Error)
		require.NoError(t, db.WithContext(ctx).Delete(&project).Error)
	})

	t.Run("every element of a batch create is dispatched", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		licenses := []models.License{
			{Model: models.Model{ID: uuid.New()}, LicenseID: "MIT", Name: "MIT License"},
			{Model: models.Model{ID: uuid.New()}, LicenseID: "Apache-2.0", Name: "Apache License 2.0"},
		}
		for _, l := range licenses {
			dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "license", l.ID)).Once()
		}

		require.NoError(t, db.WithContext(ctx).Create(&licenses).Error)
	})

	t.Run("components and vulnerabilities carry their entity name", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		component := models.Component{Model: models.Model{ID: uuid.New()}, Name: "lodash", Version: "4.17.20"}
		vuln := models.Vulnerability{Model: models.Model{ID: uuid.New()}, Source: "NVD", VulnID: "CVE-2021-23337", Severity: models.SeverityHigh}
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "component", component.ID)).Once()
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "vulnerability", vuln.ID)).Once()

		require.NoError(t, db.WithContext(ctx).Create(&component).Error)
		require.NoError(t, db.WithContext(ctx).Create(&vuln).Error)
	})

	t.Run("models which are not indexable are skipped", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		tag := models.Tag{Name: "pci"}
		require.NoError(t, db.WithContext(ctx).Create(&tag).Error)
		require.NoError(t, db.WithContext(ctx).Delete(&tag).Error)

		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("writes by condition without a primary key are skipped", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		project := models.Project{Model: models.Model{ID: uuid.New()}, Name: "intranet"}
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "project", project.ID)).Once()
		require.NoError(t, db.WithContext(ctx).Create(&project).Error)

		res := db.WithContext(ctx).Model(&models.Project{}).Where("name = ?", "intranet").Update("description", "internal")
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)

		res = db.WithContext(ctx).Where("name = ?", "intranet").Delete(&models.Project{})
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)

		dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	})

	t.Run("failed statements produce no events", func(t *testing.T) {
		db := tests.InitSQLiteDatabase(t)
		dispatcher := mocks.NewIndexEventDispatcher(t)
		require.NoError(t, database.RegisterIndexCallbacks(db, dispatcher))

		first := models.Project{Model: models.Model{ID: uuid.New()}, Name: "shop", Version: "1.0"}
		dispatcher.On("Dispatch", mock.Anything, indexEvent(shared.IndexActionCreate, "project", first.ID)).Once()
		require.NoError(t, db.WithContext(ctx).Create(&first).Error)

		duplicate := models.Project{Model: models.Model{ID: uuid.New()}, Name: "shop", Version: "1.0"}
		assert.Error(t, db.WithContext(ctx).Create(&duplicate).Error)

		dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	})
}
