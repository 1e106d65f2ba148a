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
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/monitoring"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

// set via ldflags
var release = "dev"

var (
	cfgFile string
	asSpec  string
	cfg     shared.Config
)

var rootCmd = &cobra.Command{
	Use:          "devguard-findings-cli",
	Short:        "Query findings, projects and analyses",
	SilenceUsage: true,
	Long: `Query findings, projects and analyses with the access rules of a principal.

Commands run as an internal caller without access restrictions unless --as names a
user (user:<username>) or an api key (apikey:<prefix>). Configuration is read from
DEVGUARD_FINDINGS_* environment variables, a .env file and the file passed with --config.`,
	Example: `  # create the schema
  devguard-findings-cli migrate

  # list the unsuppressed HIGH and CRITICAL findings alice may see
  devguard-findings-cli findings list --as user:alice -f severity=HIGH,CRITICAL

  # suppress a finding
  devguard-findings-cli analysis set --project <id> --component <id> --vulnerability <id> --state FALSE_POSITIVE --suppress`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := shared.LoadConfig(); err != nil {
			slog.Warn("could not load .env file", "err", err)
		}
		shared.InitLogger()

		var err error
		cfg, err = shared.NewConfig(cfgFile)
		if err != nil {
			return err
		}
		if cfg.SentryDSN != "" {
			monitoring.InitSentry(cfg.SentryDSN, cfg.Environment, release)
		}
		return nil
	},
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (toml, yaml or json)")
	rootCmd.PersistentFlags().StringVar(&asSpec, "as", "", "principal to run as, user:<username> or apikey:<prefix>")

	rootCmd.AddCommand(
		newMigrateCommand(),
		newFindingsCommand(),
		newProjectsCommand(),
		newComponentsCommand(),
		newAnalysisCommand(),
		newACLCommand(),
	)
}

func addPageFlags(flags *pflag.FlagSet) {
	flags.Int("limit", 25, "page size")
	flags.Int("offset", 0, "number of rows to skip")
	flags.String("sort", "", "field to sort by")
	flags.Bool("desc", false, "sort descending")
}

func queryOptions(flags *pflag.FlagSet) (shared.QueryOptions, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	sortField, _ := flags.GetString("sort")
	desc, _ := flags.GetBool("desc")

	var sort *shared.SortQuery
	if sortField != "" {
		sort = &shared.SortQuery{Field: sortField, Direction: shared.SortAsc}
		if desc {
			sort.Direction = shared.SortDesc
		}
	}
	return shared.NewQueryOptions(shared.PageInfo{Limit: limit, Offset: offset}, sort)
}

// resolvePrincipal loads the principal named by --as. Without --as the caller is internal.
func resolvePrincipal(db shared.DB) (models.Principal, error) {
	if asSpec == "" {
		return nil, nil
	}
	return lookupPrincipal(db, asSpec)
}

func lookupPrincipal(db shared.DB, spec string) (models.Principal, error) {
	kind, name, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid principal %q, expected user:<username> or apikey:<prefix>", spec)
	}

	switch models.PrincipalKind(kind) {
	case models.PrincipalKindUser:
		var user models.User
		if err := db.Where("username = ?", name).First(&user).Error; err != nil {
			return nil, principalNotFound(err, spec)
		}
		return user, nil
	case models.PrincipalKindAPIKey:
		var apiKey models.APIKey
		if err := db.Where("key_prefix = ?", name).First(&apiKey).Error; err != nil {
			return nil, principalNotFound(err, spec)
		}
		return apiKey, nil
	}
	return nil, fmt.Errorf("unknown principal kind %q", kind)
}

func principalNotFound(err error, spec string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("principal %s does not exist", spec)
	}
	return errors.Wrap(err, "could not load principal")
}

func parseUUIDArg(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid id %q", raw)
	}
	return id, nil
}

func parseUUIDFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid --%s", name)
	}
	return id, nil
}
