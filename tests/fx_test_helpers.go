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

package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/stretchr/testify/require"
)

// TestFixture provides a complete test environment with database and FX app
type TestFixture struct {
	T   *testing.T
	App *TestApp
	DB  shared.DB
}

// NewTestFixture creates a migrated sqlite database and the FX app on top of it
func NewTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	db := InitSQLiteDatabase(t)
	return &TestFixture{
		T:   t,
		App: NewTestApp(t, db, nil),
		DB:  db,
	}
}

// WithTestApp provides a callback-based pattern for tests
func WithTestApp(t *testing.T, testFn func(*TestFixture)) {
	t.Helper()
	testFn(NewTestFixture(t))
}

func (f *TestFixture) CreateTeam(name string) models.Team {
	f.T.Helper()

	team := models.Team{Name: name}
	require.NoError(f.T, f.App.TeamRepository.Create(context.Background(), &team))
	return team
}

// CreateUser creates a user and adds it to the given teams
func (f *TestFixture) CreateUser(username string, teams ...models.Team) models.User {
	f.T.Helper()

	user := models.User{Username: username}
	require.NoError(f.T, f.DB.Create(&user).Error)
	for _, team := range teams {
		require.NoError(f.T, f.App.TeamRepository.AddMember(context.Background(), team.ID, user))
	}
	return user
}

// CreateAPIKey creates an api key and adds it to the given teams
func (f *TestFixture) CreateAPIKey(prefix string, teams ...models.Team) models.APIKey {
	f.T.Helper()

	apiKey := models.APIKey{KeyPrefix: prefix}
	require.NoError(f.T, f.DB.Create(&apiKey).Error)
	for _, team := range teams {
		require.NoError(f.T, f.App.TeamRepository.AddMember(context.Background(), team.ID, apiKey))
	}
	return apiKey
}

// CreateProject stores the project without touching the acl
func (f *TestFixture) CreateProject(name string, parent *models.Project) models.Project {
	f.T.Helper()

	project := models.Project{Name: name}
	if parent != nil {
		project.ParentID = &parent.ID
	}
	require.NoError(f.T, f.App.ProjectRepository.Create(context.Background(), f.DB, &project))
	return project
}

func (f *TestFixture) GrantTeam(project models.Project, team models.Team) {
	f.T.Helper()
	require.NoError(f.T, f.App.ProjectRepository.GrantTeam(context.Background(), f.DB, project.ID, team.ID))
}

func (f *TestFixture) CreateComponent(project models.Project, name, version, purl string) models.Component {
	f.T.Helper()

	component := models.Component{
		ProjectID: &project.ID,
		Name:      name,
		Version:   version,
		Purl:      purl,
	}
	require.NoError(f.T, f.App.ComponentRepository.Create(context.Background(), &component))
	return component
}

func (f *TestFixture) CreateVulnerability(vulnID string, severity models.Severity) models.Vulnerability {
	f.T.Helper()

	vulnerability := models.Vulnerability{
		Source:    "NVD",
		VulnID:    vulnID,
		Severity:  severity,
		Published: utils.Ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(f.T, f.App.VulnerabilityRepository.Create(context.Background(), &vulnerability))
	return vulnerability
}

// AddFinding links the vulnerability to the component and attributes it to the internal analyzer
func (f *TestFixture) AddFinding(component models.Component, vulnerability models.Vulnerability) {
	f.T.Helper()
	ctx := context.Background()

	require.NoError(f.T, f.App.ComponentRepository.AddVulnerability(ctx, component.ID, vulnerability.ID))
	_, err := f.App.FindingAttributionRepository.Attribute(ctx, &models.FindingAttribution{
		ProjectID:        *component.ProjectID,
		ComponentID:      component.ID,
		VulnerabilityID:  vulnerability.ID,
		AnalyzerIdentity: "INTERNAL_ANALYZER",
		AttributedOn:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(f.T, err)
}

// Suppress stores a project level analysis for the finding
func (f *TestFixture) Suppress(component models.Component, vulnerability models.Vulnerability) {
	f.T.Helper()

	_, err := f.App.AnalysisRepository.MakeAnalysis(context.Background(), shared.AnalysisKey{
		ProjectID:       component.ProjectID,
		ComponentID:     component.ID,
		VulnerabilityID: vulnerability.ID,
	}, shared.AnalysisUpdate{
		State:      utils.Ptr(models.AnalysisStateFalsePositive),
		Suppressed: utils.Ptr(true),
	})
	require.NoError(f.T, err)
}

func (f *TestFixture) ProjectIDs(projects ...models.Project) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
