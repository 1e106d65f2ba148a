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
	"log/slog"
	"strconv"

	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/spf13/cobra"
)

func newACLCommand() *cobra.Command {
	aclCmd := &cobra.Command{
		Use:   "acl",
		Short: "Manage teams and project access",
	}

	toggleCmd := &cobra.Command{
		Use:       "enabled <true|false>",
		Short:     "Turn the portfolio access control on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"true", "false"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}

			var configProperties shared.ConfigPropertyRepository
			stop, err := startApp(cmd, &configProperties)
			defer stop()
			if err != nil {
				return err
			}

			if err := configProperties.Set(cmd.Context(), models.ConfigProperty{
				GroupName:     models.ConfigGroupAccessManagement,
				PropertyName:  models.ConfigPropertyACLEnabled,
				PropertyValue: strconv.FormatBool(enabled),
				PropertyType:  models.ConfigPropertyTypeBoolean,
			}); err != nil {
				return err
			}
			slog.Info("updated access control", "enabled", enabled)
			return nil
		},
	}

	createTeamCmd := &cobra.Command{
		Use:   "create-team <name>",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var teams shared.TeamRepository
			stop, err := startApp(cmd, &teams)
			defer stop()
			if err != nil {
				return err
			}

			team := &models.Team{Name: args[0]}
			if err := teams.Create(cmd.Context(), team); err != nil {
				return err
			}
			slog.Info("created team", "id", team.ID, "name", team.Name)
			return nil
		},
	}

	addMemberCmd := &cobra.Command{
		Use:     "add-member <team-id> <principal>",
		Short:   "Add a user or api key to a team",
		Example: "  devguard-findings-cli acl add-member <team-id> user:alice",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseUUIDArg(args[0])
			if err != nil {
				return err
			}

			var db shared.DB
			var teams shared.TeamRepository
			stop, err := startApp(cmd, &db, &teams)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := lookupPrincipal(db, args[1])
			if err != nil {
				return err
			}
			return teams.AddMember(cmd.Context(), teamID, principal)
		},
	}

	grantCmd := &cobra.Command{
		Use:   "grant <team-id> <project-id>",
		Short: "Grant a team access to a project and its descendants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseUUIDArg(args[0])
			if err != nil {
				return err
			}
			projectID, err := parseUUIDArg(args[1])
			if err != nil {
				return err
			}

			var projects shared.ProjectRepository
			stop, err := startApp(cmd, &projects)
			defer stop()
			if err != nil {
				return err
			}
			return projects.Transaction(cmd.Context(), func(tx shared.DB) error {
				return projects.GrantTeam(cmd.Context(), tx, projectID, teamID)
			})
		},
	}

	permitCmd := &cobra.Command{
		Use:   "permit <team-id> <permission>",
		Short: "Give every member of a team a permission",
		Long:  "Give every member of a team a permission. Members of a team with " + models.PermissionAccessManagement + " see every project.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseUUIDArg(args[0])
			if err != nil {
				return err
			}

			var permissions shared.PermissionChecker
			stop, err := startApp(cmd, &permissions)
			defer stop()
			if err != nil {
				return err
			}
			return permissions.GrantToTeam(teamID, args[1])
		},
	}

	aclCmd.AddCommand(toggleCmd, createTeamCmd, addMemberCmd, grantCmd, permitCmd)
	return aclCmd
}
