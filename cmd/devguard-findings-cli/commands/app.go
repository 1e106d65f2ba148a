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

package commands

import (
	"context"
	"time"

	"github.com/l3montree-dev/devguard-findings/accesscontrol"
	"github.com/l3montree-dev/devguard-findings/database"
	"github.com/l3montree-dev/devguard-findings/database/repositories"
	"github.com/l3montree-dev/devguard-findings/services"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// startApp builds the dependency graph, fills the targets and starts the lifecycle.
// The returned stop function must be called once the command is done.
func startApp(cmd *cobra.Command, targets ...any) (func(), error) {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Supply(database.GetPoolConfigFromEnv()),
		database.Module,
		repositories.Module,
		accesscontrol.Module,
		services.Module,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return func() {}, err
	}

	startCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return func() {}, err
	}

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}, nil
}
