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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/l3montree-dev/devguard-findings/cmd/devguard-findings-cli/commands"
	"github.com/l3montree-dev/devguard-findings/monitoring"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			monitoring.RecoverAndAlert("panic in devguard-findings-cli", fmt.Errorf("%v", r))
			sentry.Flush(2 * time.Second)
			os.Exit(2)
		}
	}()
	defer sentry.Flush(2 * time.Second)

	if err := commands.GetRootCmd().Execute(); err != nil {
		slog.Error("error executing command", "err", err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}
