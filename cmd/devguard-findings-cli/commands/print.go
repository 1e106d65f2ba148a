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
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/dtos"
	"github.com/l3montree-dev/devguard-findings/utils"
)

func severityColor(severity string) text.Colors {
	switch severity {
	case "CRITICAL":
		return text.Colors{text.FgHiRed, text.Bold}
	case "HIGH":
		return text.Colors{text.FgRed}
	case "MEDIUM":
		return text.Colors{text.FgYellow}
	case "LOW":
		return text.Colors{text.FgBlue}
	}
	return text.Colors{text.FgHiBlack}
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(*string); ok {
		return utils.SafeDereference(s)
	}
	return fmt.Sprint(v)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	return tw
}

func printFindings(w io.Writer, data []dtos.Finding, total int64) {
	tw := newTable(w, table.Row{"Project", "Component", "Version", "Vulnerability", "Severity", "Analyzer", "State", "Suppressed"})
	for _, f := range data {
		severity := str(f.Vulnerability["severity"])
		tw.AppendRow(table.Row{
			str(f.Component["projectName"]),
			str(f.Component["name"]),
			str(f.Component["version"]),
			str(f.Vulnerability["vulnId"]),
			severityColor(severity).Sprint(severity),
			str(f.Attribution["analyzerIdentity"]),
			str(f.Analysis["state"]),
			str(f.Analysis["isSuppressed"]),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "", "Total", total})
	tw.Render()
}

func printGroupedFindings(w io.Writer, data []dtos.GroupedFinding, total int64) {
	tw := newTable(w, table.Row{"Vulnerability", "Source", "Severity", "Analyzer", "Projects", "First seen"})
	for _, f := range data {
		severity := str(f.Vulnerability["severity"])
		tw.AppendRow(table.Row{
			str(f.Vulnerability["vulnId"]),
			str(f.Vulnerability["source"]),
			severityColor(severity).Sprint(severity),
			str(f.Attribution["analyzerIdentity"]),
			f.Vulnerability["affectedProjectCount"],
			str(f.Vulnerability["firstSeen"]),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Total", total})
	tw.Render()
}

func printProjects(w io.Writer, data []models.Project, total int64) {
	tw := newTable(w, table.Row{"ID", "Name", "Version", "Active", "Parent", "Tags"})
	for _, p := range data {
		tags := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			tags = append(tags, tag.Name)
		}
		parent := ""
		if p.ParentID != nil {
			parent = p.ParentID.String()
		}
		tw.AppendRow(table.Row{p.ID, p.Name, p.Version, p.IsActive(), parent, text.WrapSoft(fmt.Sprint(tags), 40)})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Total", total})
	tw.Render()
}

func printComponents(w io.Writer, data []models.Component, total int64) {
	tw := newTable(w, table.Row{"ID", "Group", "Name", "Version", "Purl", "Project"})
	for _, c := range data {
		project := ""
		if c.ProjectID != nil {
			project = c.ProjectID.String()
		}
		tw.AppendRow(table.Row{c.ID, c.Group, c.Name, c.Version, c.Purl, project})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Total", total})
	tw.Render()
}

func printAnalysis(w io.Writer, analysis models.Analysis) {
	tw := newTable(w, table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"ID", analysis.ID},
		{"State", text.FgGreen.Sprint(analysis.State)},
		{"Justification", analysis.Justification},
		{"Response", analysis.Response},
		{"Details", text.WrapText(analysis.Details, 80)},
		{"Suppressed", analysis.Suppressed},
	})
	tw.Render()
}
