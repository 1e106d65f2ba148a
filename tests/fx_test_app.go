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
	"testing"
	"time"

	"github.com/l3montree-dev/devguard-findings/accesscontrol"
	"github.com/l3montree-dev/devguard-findings/database"
	"github.com/l3montree-dev/devguard-findings/database/repositories"
	"github.com/l3montree-dev/devguard-findings/services"
	"github.com/l3montree-dev/devguard-findings/shared"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestApp provides access to all services and repositories via FX
type TestApp struct {
	fx.In

	DB     shared.DB
	Broker shared.PubSubBroker

	// Services
	FindingService        shared.FindingService
	ProjectService        shared.ProjectService
	ComponentService      shared.ComponentService
	AnalysisService       shared.AnalysisService
	RepositoryMetaService shared.RepositoryMetaService

	// Repositories
	ProjectRepository            shared.ProjectRepository
	ComponentRepository          shared.ComponentRepository
	VulnerabilityRepository      shared.VulnerabilityRepository
	AnalysisRepository           shared.AnalysisRepository
	FindingAttributionRepository shared.FindingAttributionRepository
	TeamRepository               shared.TeamRepository
	ConfigPropertyRepository     shared.ConfigPropertyRepository

	// Access Control
	ACLInjector       shared.ACLInjector
	PermissionChecker shared.PermissionChecker
}

// TestAppOptions configures the test application
type TestAppOptions struct {
	// Config replaces TestConfig
	Config *shared.Config
	// Additional FX options to include
	ExtraOptions []fx.Option
	// Whether to suppress FX logging
	SuppressLogs bool
}

// TestConfig enables the acl and resolves the hierarchy with recursive queries.
func TestConfig() shared.Config {
	return shared.Config{
		Environment: "test",
		Database:    shared.DatabaseConfig{Dialect: shared.DialectSQLite, SlowQuery: time.Second},
		ACL:         shared.ACLConfig{Enabled: true, Resolver: shared.ResolverCTE},
		RepositoryMeta: shared.RepositoryMetaConfig{
			CacheSize: 128,
			CacheTTL:  time.Minute,
		},
	}
}

// NewTestApp creates a test application with all dependencies wired via FX.
// It uses the same modules as the cli.
func NewTestApp(t *testing.T, db shared.DB, opts *TestAppOptions) *TestApp {
	t.Helper()
	if opts == nil {
		opts = &TestAppOptions{SuppressLogs: true}
	}
	cfg := TestConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	var app TestApp

	fxOptions := []fx.Option{
		fx.Supply(cfg),
		fx.Provide(func() shared.DB { return db }),
		fx.Provide(func(lc fx.Lifecycle) shared.PubSubBroker {
			broker := database.NewInMemoryBroker()
			lc.Append(fx.StopHook(broker.Close))
			return broker
		}),

		repositories.Module,
		accesscontrol.Module,
		services.Module,
		fx.Populate(&app),
	}
	fxOptions = append(fxOptions, opts.ExtraOptions...)
	if opts.SuppressLogs {
		fxOptions = append(fxOptions, fx.NopLogger)
	}

	fxApp := fxtest.New(t, fxOptions...)
	fxApp.RequireStart()
	t.Cleanup(fxApp.RequireStop)

	return &app
}
