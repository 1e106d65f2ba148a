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
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/spf13/cobra"
)

func newProjectsCommand() *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List and create projects",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects visible to the principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var db shared.DB
			var projectService shared.ProjectService
			stop, err := startApp(cmd, &db, &projectService)
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

			filter := querybuilder.NewProjectFilterBuilder()
			if name, _ := cmd.Flags().GetString("name"); name != "" {
				filter.WithFuzzyName(name)
			}
			if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
				filter.WithTag(tag)
			}
			if excludeInactive, _ := cmd.Flags().GetBool("exclude-inactive"); excludeInactive {
				filter.ExcludeInactive()
			}
			if onlyRoot, _ := cmd.Flags().GetBool("only-root"); onlyRoot {
				filter.ExcludeChildProjects()
			}

			page, err := projectService.List(cmd.Context(), principal, filter, opts)
			if err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), page.Data, page.Total)
			return nil
		},
	}
	listCmd.Flags().String("name", "", "part of the project name")
	listCmd.Flags().String("tag", "", "exact tag")
	listCmd.Flags().Bool("exclude-inactive", false, "hide inactive projects")
	listCmd.Flags().Bool("only-root", false, "hide child projects")
	addPageFlags(listCmd.Flags())

	childrenCmd := &cobra.Command{
		Use:   "children <project-id>",
		Short: "List the direct children of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseUUIDArg(args[0])
			if err != nil {
				return err
			}

			var db shared.DB
			var projectService shared.ProjectService
			stop, err := startApp(cmd, &db, &projectService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			children, err := projectService.GetChildren(cmd.Context(), principal, parentID)
			if err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), children, int64(len(children)))
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Long:  "Create a project. A project created with --as apikey:<prefix> is granted to the first team of the key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := &models.Project{Name: args[0]}
			project.Version, _ = cmd.Flags().GetString("version")
			project.Description, _ = cmd.Flags().GetString("description")
			if cmd.Flags().Changed("parent") {
				parentID, err := parseUUIDFlag(cmd, "parent")
				if err != nil {
					return err
				}
				project.ParentID = &parentID
			}

			var db shared.DB
			var projectService shared.ProjectService
			stop, err := startApp(cmd, &db, &projectService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			if err := projectService.Create(cmd.Context(), principal, project); err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), []models.Project{*project}, 1)
			return nil
		},
	}
	createCmd.Flags().String("version", "", "project version")
	createCmd.Flags().String("description", "", "project description")
	createCmd.Flags().String("parent", "", "id of the parent project")

	projectsCmd.AddCommand(listCmd, childrenCmd, createCmd)
	return projectsCmd
}
