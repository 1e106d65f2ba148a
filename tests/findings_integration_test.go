package tests

import (
	"context"
	"testing"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type findingScenario struct {
	team                models.Team
	alice, bob          models.User
	apiKey              models.APIKey
	shop, shopChild     models.Project
	unrelated           models.Project
	high, low           models.Vulnerability
	shopLib, backendLib models.Component
}

// shop is granted to the team, its child is reachable through the hierarchy only.
// The low finding of the child is suppressed.
func newFindingScenario(f *TestFixture) findingScenario {
	s := findingScenario{}
	s.team = f.CreateTeam("appsec")
	s.alice = f.CreateUser("alice", s.team)
	s.bob = f.CreateUser("bob")
	s.apiKey = f.CreateAPIKey("odt_ci", s.team)

	s.shop = f.CreateProject("shop", nil)
	s.shopChild = f.CreateProject("shop-backend", &s.shop)
	s.unrelated = f.CreateProject("intranet", nil)
	f.GrantTeam(s.shop, s.team)

	s.high = f.CreateVulnerability("CVE-2024-0001", models.SeverityHigh)
	s.low = f.CreateVulnerability("CVE-2024-0002", models.SeverityLow)

	s.shopLib = f.CreateComponent(s.shop, "log4j-core", "2.14.0", "pkg:maven/org.apache.logging.log4j/log4j-core@2.14.0")
	s.backendLib = f.CreateComponent(s.shopChild, "lodash", "4.17.20", "pkg:npm/lodash@4.17.20")
	intranetLib := f.CreateComponent(s.unrelated, "lodash", "4.17.20", "pkg:npm/lodash@4.17.20")

	f.AddFinding(s.shopLib, s.high)
	f.AddFinding(s.backendLib, s.high)
	f.AddFinding(s.backendLib, s.low)
	f.AddFinding(intranetLib, s.high)

	f.Suppress(s.backendLib, s.low)
	return s
}

func listOptions(t *testing.T) shared.QueryOptions {
	opts, err := shared.NewQueryOptions(shared.PageInfo{Limit: 50}, nil)
	require.NoError(t, err)
	return opts
}

func TestFindingsAreScopedByTeamAccess(t *testing.T) {
	WithTestApp(t, func(f *TestFixture) {
		ctx := context.Background()
		s := newFindingScenario(f)

		t.Run("a member sees the granted project and its descendants", func(t *testing.T) {
			page, err := f.App.FindingService.ListFindings(ctx, s.alice, nil, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(2), page.Total)
			for _, finding := range page.Data {
				assert.Contains(t, []any{s.shop.ID.String(), s.shopChild.ID.String()}, finding.Component["project"])
				assert.Equal(t, false, finding.Analysis["isSuppressed"])
			}
		})

		t.Run("suppressed findings are listed on request", func(t *testing.T) {
			page, err := f.App.FindingService.ListFindings(ctx, s.alice, map[string]string{"showSuppressed": "true"}, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(3), page.Total)
		})

		t.Run("a principal without teams sees nothing", func(t *testing.T) {
			page, err := f.App.FindingService.ListFindings(ctx, s.bob, nil, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(0), page.Total)
			assert.Empty(t, page.Data)
		})

		t.Run("internal callers see every project", func(t *testing.T) {
			page, err := f.App.FindingService.ListFindings(ctx, nil, nil, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(3), page.Total)
		})

		t.Run("an offset without a limit returns the remaining rows", func(t *testing.T) {
			all, err := f.App.FindingService.ListFindings(ctx, nil, nil, listOptions(t))
			require.NoError(t, err)
			require.Len(t, all.Data, 3)

			opts, err := shared.NewQueryOptions(shared.PageInfo{Offset: 2}, nil)
			require.NoError(t, err)
			page, err := f.App.FindingService.ListFindings(ctx, nil, nil, opts)
			require.NoError(t, err)
			assert.Equal(t, int64(3), page.Total)
			require.Len(t, page.Data, 1)
			assert.Equal(t, all.Data[2].Key(), page.Data[0].Key())
		})

		t.Run("filters narrow the result", func(t *testing.T) {
			page, err := f.App.FindingService.ListFindings(ctx, nil, map[string]string{
				"textSearchField": "component_name",
				"textSearchInput": "log4j",
			}, listOptions(t))
			require.NoError(t, err)
			require.Equal(t, int64(1), page.Total)
			assert.Equal(t, "log4j-core", page.Data[0].Component["name"])
		})

		t.Run("grouped findings count the affected projects", func(t *testing.T) {
			page, err := f.App.FindingService.ListGroupedFindings(ctx, nil, nil, listOptions(t))
			require.NoError(t, err)
			require.Equal(t, int64(1), page.Total)
			assert.Equal(t, "CVE-2024-0001", page.Data[0].Vulnerability["vulnId"])
			assert.Equal(t, int64(3), page.Data[0].Vulnerability["affectedProjectCount"])

			page, err = f.App.FindingService.ListGroupedFindings(ctx, s.alice, nil, listOptions(t))
			require.NoError(t, err)
			require.Equal(t, int64(1), page.Total)
			assert.Equal(t, int64(2), page.Data[0].Vulnerability["affectedProjectCount"])
		})

		t.Run("project findings need access to the project", func(t *testing.T) {
			_, err := f.App.FindingService.ListProjectFindings(ctx, s.alice, s.unrelated.ID, false)
			assert.ErrorIs(t, err, shared.ErrAccessDenied)

			result, err := f.App.FindingService.ListProjectFindings(ctx, s.alice, s.shopChild.ID, true)
			require.NoError(t, err)
			assert.Len(t, result, 2)
		})

		t.Run("disabling the acl opens every project", func(t *testing.T) {
			require.NoError(t, f.App.ConfigPropertyRepository.Set(ctx, models.ConfigProperty{
				GroupName:     models.ConfigGroupAccessManagement,
				PropertyName:  models.ConfigPropertyACLEnabled,
				PropertyValue: "false",
				PropertyType:  models.ConfigPropertyTypeBoolean,
			}))
			t.Cleanup(func() {
				require.NoError(t, f.App.ConfigPropertyRepository.Set(ctx, models.ConfigProperty{
					GroupName:     models.ConfigGroupAccessManagement,
					PropertyName:  models.ConfigPropertyACLEnabled,
					PropertyValue: "true",
					PropertyType:  models.ConfigPropertyTypeBoolean,
				}))
			})

			page, err := f.App.FindingService.ListFindings(ctx, s.bob, nil, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(3), page.Total)
		})
	})
}

func TestAccessManagementPermissionOverridesTheACL(t *testing.T) {
	WithTestApp(t, func(f *TestFixture) {
		ctx := context.Background()
		s := newFindingScenario(f)

		admins := f.CreateTeam("admins")
		carol := f.CreateUser("carol", admins)
		require.NoError(t, f.App.PermissionChecker.GrantToTeam(admins.ID, models.PermissionAccessManagement))

		page, err := f.App.FindingService.ListFindings(ctx, carol, nil, listOptions(t))
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.True(t, f.App.ACLInjector.HasAccess(ctx, carol, s.unrelated.ID))
	})
}

func TestProjectsCreatedByAPIKeysAreGrantedToTheirTeam(t *testing.T) {
	WithTestApp(t, func(f *TestFixture) {
		ctx := context.Background()
		s := newFindingScenario(f)

		project := models.Project{Name: "payments", Version: "1.0"}
		require.NoError(t, f.App.ProjectService.Create(ctx, s.apiKey, &project))

		assert.True(t, f.App.ProjectService.HasAccess(ctx, s.alice, project.ID))
		assert.False(t, f.App.ProjectService.HasAccess(ctx, s.bob, project.ID))

		page, err := f.App.ProjectService.List(ctx, s.alice, querybuilder.NewProjectFilterBuilder().WithName("payments"), listOptions(t))
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, project.ID, page.Data[0].ID)

		children, err := f.App.ProjectService.GetChildren(ctx, s.alice, s.shop.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, s.shopChild.ID, children[0].ID)
	})
}

func TestAnalysisDecisionsSuppressFindings(t *testing.T) {
	WithTestApp(t, func(f *TestFixture) {
		ctx := context.Background()
		s := newFindingScenario(f)

		suppressed := true
		state := models.AnalysisStateNotAffected
		analysis, err := f.App.AnalysisService.Triage(ctx, s.alice, shared.AnalysisKey{
			ProjectID:       &s.shop.ID,
			ComponentID:     s.shopLib.ID,
			VulnerabilityID: s.high.ID,
		}, shared.AnalysisUpdate{State: &state, Suppressed: &suppressed}, "not reachable")
		require.NoError(t, err)
		require.Len(t, analysis.Comments, 1)
		assert.Equal(t, "alice", analysis.Comments[0].Commenter)

		page, err := f.App.FindingService.ListFindings(ctx, s.alice, nil, listOptions(t))
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		suppressedCount, err := f.App.AnalysisRepository.CountSuppressed(ctx, s.shop.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), suppressedCount)

		// global decisions need an unrestricted scope
		_, err = f.App.AnalysisService.Triage(ctx, s.alice, shared.AnalysisKey{
			ComponentID:     s.backendLib.ID,
			VulnerabilityID: s.high.ID,
		}, shared.AnalysisUpdate{Suppressed: &suppressed}, "")
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}

func TestProjectAnalysisIsReadAsOneRow(t *testing.T) {
	WithTestApp(t, func(f *TestFixture) {
		ctx := context.Background()
		s := newFindingScenario(f)

		_, err := f.App.AnalysisRepository.MakeAnalysis(ctx, shared.AnalysisKey{
			ComponentID:     s.backendLib.ID,
			VulnerabilityID: s.high.ID,
		}, shared.AnalysisUpdate{State: utils.Ptr(models.AnalysisStateExploitable), Response: utils.Ptr(models.ResponseUpdate)})
		require.NoError(t, err)

		projectAnalysis, err := f.App.AnalysisRepository.MakeAnalysis(ctx, shared.AnalysisKey{
			ProjectID:       &s.shopChild.ID,
			ComponentID:     s.backendLib.ID,
			VulnerabilityID: s.high.ID,
		}, shared.AnalysisUpdate{Suppressed: utils.Ptr(false)})
		require.NoError(t, err)
		// rows written by older importers may leave the fields empty
		require.NoError(t, f.DB.Exec("UPDATE analyses SET state = NULL, response = NULL WHERE id = ?", projectAnalysis.ID).Error)

		page, err := f.App.FindingService.ListFindings(ctx, nil, nil, listOptions(t))
		require.NoError(t, err)
		var found bool
		for _, finding := range page.Data {
			if finding.Component["uuid"] == s.backendLib.ID.String() && finding.Vulnerability["vulnId"] == s.high.VulnID {
				found = true
				assert.Equal(t, "", finding.Analysis["state"])
			}
		}
		assert.True(t, found)

		for _, filter := range []map[string]string{
			{"analysisStatus": string(models.AnalysisStateExploitable)},
			{"vendorResponse": string(models.ResponseUpdate)},
		} {
			page, err = f.App.FindingService.ListFindings(ctx, nil, filter, listOptions(t))
			require.NoError(t, err)
			assert.Equal(t, int64(0), page.Total, "%v", filter)
		}
	})
}
