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
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/spf13/cobra"
)

func newComponentsCommand() *cobra.Command {
	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "Search components",
	}

	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search components by part of their name or group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var db shared.DB
			var componentService shared.ComponentService
			stop, err := startApp(cmd, &db, &componentService)
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

			filter := querybuilder.NewComponentFilterBuilder().WithFuzzyNameOrGroup(args[0])
			if cmd.Flags().Changed("project") {
				projectID, err := parseUUIDFlag(cmd, "project")
				if err != nil {
					return err
				}
				filter.WithProject(projectID)
			}

			page, err := componentService.Search(cmd.Context(), principal, filter, opts)
			if err != nil {
				return err
			}
			printComponents(cmd.OutOrStdout(), page.Data, page.Total)
			return nil
		},
	}
	searchCmd.Flags().String("project", "", "only components of this project")
	addPageFlags(searchCmd.Flags())

	hashCmd := &cobra.Command{
		Use:   "hash <hash>",
		Short: "Find components by any of their hashes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var db shared.DB
			var componentService shared.ComponentService
			stop, err := startApp(cmd, &db, &componentService)
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

			page, err := componentService.FindByHash(cmd.Context(), principal, args[0], opts)
			if err != nil {
				return err
			}
			printComponents(cmd.OutOrStdout(), page.Data, page.Total)
			return nil
		},
	}
	addPageFlags(hashCmd.Flags())

	componentsCmd.AddCommand(searchCmd, hashCmd)
	return componentsCmd
}
