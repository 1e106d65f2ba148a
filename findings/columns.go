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

package findings

import "github.com/l3montree-dev/devguard-findings/querybuilder"

// table aliases of the finding join
const (
	componentAlias       = "c"
	componentVulnAlias   = "cv"
	vulnerabilityAlias   = "v"
	projectAlias         = "p"
	attributionAlias     = "fa"
	analysisAlias        = "a"
	globalAnalysisAlias  = "ga"
	affectedVersionAlias = "ava"
)

func c(name string) querybuilder.Column   { return querybuilder.Col(componentAlias, name) }
func v(name string) querybuilder.Column   { return querybuilder.Col(vulnerabilityAlias, name) }
func p(name string) querybuilder.Column   { return querybuilder.Col(projectAlias, name) }
func fa(name string) querybuilder.Column  { return querybuilder.Col(attributionAlias, name) }
func a(name string) querybuilder.Column   { return querybuilder.Col(analysisAlias, name) }
func ga(name string) querybuilder.Column  { return querybuilder.Col(globalAnalysisAlias, name) }
func ava(name string) querybuilder.Column { return querybuilder.Col(affectedVersionAlias, name) }

var (
	// a project scoped analysis row wins over the global one as a whole
	analysisState      = analysisField("state")
	analysisResponse   = analysisField("response")
	analysisSuppressed = querybuilder.Coalesce{Args: []querybuilder.Operand{analysisField("suppressed"), querybuilder.Const{Value: false}}}

	projectNameAndVersion = querybuilder.Concat{Parts: []querybuilder.Operand{p("name"), p("version")}, Separator: " "}

	affectedProjectCount = querybuilder.CountDistinct(p("id"))
	firstSeen            = querybuilder.Min(ava("first_seen"))
	lastSeen             = querybuilder.Max(ava("last_seen"))

	severityRank = querybuilder.Case{
		Subject: v("severity"),
		Whens: []querybuilder.When{
			{Equals: querybuilder.Const{Value: "UNASSIGNED"}, Then: querybuilder.Const{Value: 0}},
			{Equals: querybuilder.Const{Value: "LOW"}, Then: querybuilder.Const{Value: 3}},
			{Equals: querybuilder.Const{Value: "MEDIUM"}, Then: querybuilder.Const{Value: 6}},
			{Equals: querybuilder.Const{Value: "HIGH"}, Then: querybuilder.Const{Value: 8}},
			{Equals: querybuilder.Const{Value: "CRITICAL"}, Then: querybuilder.Const{Value: 10}},
		},
		Else: querybuilder.Coalesce{Args: []querybuilder.Operand{v("cvss_v3_base_score"), v("cvss_v2_base_score")}},
	}
)

func analysisField(name string) querybuilder.IfNotNull {
	return querybuilder.IfNotNull{Key: a("id"), Then: a(name), Else: ga(name)}
}

type selectItem struct {
	expr  querybuilder.Operand
	alias string
}

// the aliases are the column tags of models.VulnerabilityRow
var vulnerabilitySelect = []selectItem{
	{v("id"), "vulnerability_id"},
	{v("source"), "vulnerability_source"},
	{v("vuln_id"), "vuln_id"},
	{v("title"), "title"},
	{v("subtitle"), "subtitle"},
	{v("severity"), "severity"},
	{v("cvss_v2_base_score"), "cvss_v2_base_score"},
	{v("cvss_v3_base_score"), "cvss_v3_base_score"},
	{v("cvss_v2_vector"), "cvss_v2_vector"},
	{v("cvss_v3_vector"), "cvss_v3_vector"},
	{v("owasp_rr_likelihood_score"), "owasp_rr_likelihood_score"},
	{v("owasp_rr_technical_impact_score"), "owasp_rr_technical_impact_score"},
	{v("owasp_rr_business_impact_score"), "owasp_rr_business_impact_score"},
	{v("cwes"), "cwes"},
	{v("published"), "published"},
}

var findingSelect = concatSelect(
	[]selectItem{
		{c("id"), "component_id"},
		{c("name"), "component_name"},
		{c("group_name"), "component_group"},
		{c("version"), "component_version"},
		{c("purl"), "component_purl"},
		{c("cpe"), "component_cpe"},
		{p("id"), "project_id"},
		{p("name"), "project_name"},
		{p("version"), "project_version"},
	},
	vulnerabilitySelect,
	[]selectItem{
		{fa("analyzer_identity"), "analyzer_identity"},
		{fa("attributed_on"), "attributed_on"},
		{fa("alternate_identifier"), "alternate_identifier"},
		{fa("reference_url"), "reference_url"},
		{analysisState, "analysis_state"},
		{analysisSuppressed, "is_suppressed"},
	},
)

var groupedSelect = concatSelect(
	vulnerabilitySelect,
	[]selectItem{
		{fa("analyzer_identity"), "analyzer_identity"},
		{affectedProjectCount, "affected_project_count"},
		{firstSeen, "first_seen"},
		{lastSeen, "last_seen"},
	},
)

func concatSelect(parts ...[]selectItem) []selectItem {
	var items []selectItem
	for _, part := range parts {
		items = append(items, part...)
	}
	return items
}

// every non aggregated column of groupedSelect
var groupBy = func() []querybuilder.Operand {
	cols := make([]querybuilder.Operand, 0, len(vulnerabilitySelect)+1)
	for _, item := range vulnerabilitySelect {
		cols = append(cols, item.expr)
	}
	return append(cols, fa("analyzer_identity"))
}()
