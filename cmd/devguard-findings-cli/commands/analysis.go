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
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/spf13/cobra"
)

func newAnalysisCommand() *cobra.Command {
	analysisCmd := &cobra.Command{
		Use:   "analysis",
		Short: "Record analysis decisions",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the analysis of a finding",
		Long: `Create or update the analysis of a finding. Only the flags that are passed are changed.
Without --project the decision applies to the component and vulnerability in every project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := analysisKey(cmd)
			if err != nil {
				return err
			}
			update := analysisUpdate(cmd)
			comment, _ := cmd.Flags().GetString("comment")

			var db shared.DB
			var analysisService shared.AnalysisService
			stop, err := startApp(cmd, &db, &analysisService)
			defer stop()
			if err != nil {
				return err
			}

			principal, err := resolvePrincipal(db)
			if err != nil {
				return err
			}
			analysis, err := analysisService.Triage(cmd.Context(), principal, key, update, comment)
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
	setCmd.Flags().String("project", "", "project id, omit for a global decision")
	setCmd.Flags().String("component", "", "component id")
	setCmd.Flags().String("vulnerability", "", "vulnerability id")
	setCmd.Flags().String("state", "", "EXPLOITABLE, IN_TRIAGE, FALSE_POSITIVE, NOT_AFFECTED, RESOLVED or NOT_SET")
	setCmd.Flags().String("justification", "", "justification of a NOT_AFFECTED state")
	setCmd.Flags().String("response", "", "vendor response")
	setCmd.Flags().String("details", "", "free text details")
	setCmd.Flags().Bool("suppress", false, "suppress the finding")
	setCmd.Flags().String("comment", "", "comment added to the audit trail")
	_ = setCmd.MarkFlagRequired("component")
	_ = setCmd.MarkFlagRequired("vulnerability")

	analysisCmd.AddCommand(setCmd)
	return analysisCmd
}

func analysisKey(cmd *cobra.Command) (shared.AnalysisKey, error) {
	componentID, err := parseUUIDFlag(cmd, "component")
	if err != nil {
		return shared.AnalysisKey{}, err
	}
	vulnerabilityID, err := parseUUIDFlag(cmd, "vulnerability")
	if err != nil {
		return shared.AnalysisKey{}, err
	}
	key := shared.AnalysisKey{ComponentID: componentID, VulnerabilityID: vulnerabilityID}
	if cmd.Flags().Changed("project") {
		projectID, err := parseUUIDFlag(cmd, "project")
		if err != nil {
			return shared.AnalysisKey{}, err
		}
		key.ProjectID = &projectID
	}
	return key, nil
}

func analysisUpdate(cmd *cobra.Command) shared.AnalysisUpdate {
	flags := cmd.Flags()
	var update shared.AnalysisUpdate
	if flags.Changed("state") {
		state, _ := flags.GetString("state")
		update.State = utils.Ptr(models.AnalysisState(state))
	}
	if flags.Changed("justification") {
		justification, _ := flags.GetString("justification")
		update.Justification = utils.Ptr(models.AnalysisJustification(justification))
	}
	if flags.Changed("response") {
		response, _ := flags.GetString("response")
		update.Response = utils.Ptr(models.AnalysisResponse(response))
	}
	if flags.Changed("details") {
		details, _ := flags.GetString("details")
		update.Details = &details
	}
	if flags.Changed("suppress") {
		suppress, _ := flags.GetBool("suppress")
		update.Suppressed = &suppress
	}
	return update
}
