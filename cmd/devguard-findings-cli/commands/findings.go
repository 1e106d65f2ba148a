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
	"strings"

	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/spf13/cobra"
)

// parseFilters reads the repeated --filter flags. Values keep their commas so set
// filters like severity=HIGH,CRITICAL pass through unchanged.
func parseFilters(cmd *cobra.Command) (map[string]string, error) {
	raw, _ := cmd.Flags().GetStringArray("filter")
	filters := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

func newFindingsCommand() *cobra.Command {
	findingsCmd := &cobra.Command{
		Use:   "findings",
		Short: "List findings visible to the principal",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List one row per project, component and vulnerability",
		Args:  cobra.NoArgs,
		Example: `  devguard-findings-cli findings list -f severity=HIGH -f analysisStatus=NOT_SET --sort vulnerability.vulnId
  devguard-findings-cli findings list -f textSearchField=COMPONENT_NAME -f textSearchInput=log4j -f showSuppressed=true`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var db shared.DB
			var findingService shared.FindingService
			stop, err := startApp(cmd, &db, &findingService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			opts, err := queryOptions(cmd.Flags())
			if err != nil {
				return err
			}
			filters, err := parseFilters(cmd)
			if err != nil {
				return err
			}

			page, err := findingService.ListFindings(cmd.Context(), principal, filters, opts)
			if err != nil {
				return err
			}
			printFindings(cmd.OutOrStdout(), page.Data, page.Total)
			return nil
		},
	}

	groupedCmd := &cobra.Command{
		Use:   "grouped",
		Short: "List one row per vulnerability with the number of affected projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var db shared.DB
			var findingService shared.FindingService
			stop, err := startApp(cmd, &db, &findingService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			opts, err := queryOptions(cmd.Flags())
			if err != nil {
				return err
			}
			filters, err := parseFilters(cmd)
			if err != nil {
				return err
			}

			page, err := findingService.ListGroupedFindings(cmd.Context(), principal, filters, opts)
			if err != nil {
				return err
			}
			printGroupedFindings(cmd.OutOrStdout(), page.Data, page.Total)
			return nil
		},
	}

	projectCmd := &cobra.Command{
		Use:   "project <project-id>",
		Short: "List every finding of one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseUUIDArg(args[0])
			if err != nil {
				return err
			}

			var db shared.DB
			var findingService shared.FindingService
			stop, err := startApp(cmd, &db, &findingService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			includeSuppressed, _ := cmd.Flags().GetBool("suppressed")

			data, err := findingService.ListProjectFindings(cmd.Context(), principal, projectID, includeSuppressed)
			if err != nil {
				return err
			}
			printFindings(cmd.OutOrStdout(), data, int64(len(data)))
			return nil
		},
	}
	projectCmd.Flags().Bool("suppressed", false, "include suppressed findings")

	for _, c := range []*cobra.Command{listCmd, groupedCmd} {
		c.Flags().StringArrayP("filter", "f", nil, "filter as key=value, repeatable")
		addPageFlags(c.Flags())
	}

	findingsCmd.AddCommand(listCmd, groupedCmd, projectCmd)
	return findingsCmd
}
