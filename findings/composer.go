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

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/querybuilder"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/pkg/errors"
)

var (
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrUnknownSortField   = shared.ErrUnknownSortField
)

const dateLayout = "2006-01-02"

type sortColumn struct {
	expr querybuilder.Operand
	// usable when the result is grouped by vulnerability
	grouped bool
	flat    bool
}

// sortColumns is the only source of column expressions derived from caller input.
var sortColumns = map[string]sortColumn{
	"vulnerability.vulnId":               {expr: v("vuln_id"), grouped: true, flat: true},
	"vulnerability.title":                {expr: v("title"), grouped: true, flat: true},
	"vulnerability.severity":             {expr: severityRank, grouped: true, flat: true},
	"vulnerability.published":            {expr: v("published"), grouped: true, flat: true},
	"vulnerability.cvssV2BaseScore":      {expr: v("cvss_v2_base_score"), grouped: true, flat: true},
	"vulnerability.cvssV3BaseScore":      {expr: v("cvss_v3_base_score"), grouped: true, flat: true},
	"attribution.analyzerIdentity":       {expr: fa("analyzer_identity"), grouped: true, flat: true},
	"attribution.attributedOn":           {expr: fa("attributed_on"), flat: true},
	"component.projectName":              {expr: projectNameAndVersion, flat: true},
	"component.name":                     {expr: c("name"), flat: true},
	"component.version":                  {expr: c("version"), flat: true},
	"analysis.state":                     {expr: analysisState, flat: true},
	"analysis.isSuppressed":              {expr: analysisSuppressed, flat: true},
	"vulnerability.affectedProjectCount": {expr: affectedProjectCount, grouped: true},
}

var textSearchColumns = map[string]querybuilder.Operand{
	"VULNERABILITY_ID":    v("vuln_id"),
	"VULNERABILITY_TITLE": v("title"),
	"COMPONENT_NAME":      c("name"),
	"COMPONENT_VERSION":   c("version"),
	"PROJECT_NAME":        projectNameAndVersion,
}

// Composer turns filter maps into finding statements for one dialect.
// A Composer holds no per-query state and may be shared.
type Composer struct {
	dialect querybuilder.Dialect
}

func NewComposer(dialect querybuilder.Dialect) *Composer {
	return &Composer{dialect: dialect}
}

// ComposeFindings builds the statement listing one row per project, component and vulnerability.
func (composer *Composer) ComposeFindings(opts shared.QueryOptions, filters map[string]string, scope shared.ACLScope) (querybuilder.Statement, error) {
	where := querybuilder.NewBuilder()
	if err := applyFilters(where, filters); err != nil {
		return querybuilder.Statement{}, err
	}
	scope.Apply(where, p("id"))

	order, err := orderFor(opts.Sort(), false)
	if err != nil {
		return querybuilder.Statement{}, err
	}
	return composer.compose(findingSelect, where, nil, nil, append(order, asc(c("id")), asc(v("id"))), opts.PageInfo())
}

// ComposeGroupedFindings builds the statement listing one row per vulnerability and analyzer.
func (composer *Composer) ComposeGroupedFindings(opts shared.QueryOptions, filters map[string]string, scope shared.ACLScope) (querybuilder.Statement, error) {
	where := querybuilder.NewBuilder()
	if err := applyFilters(where, filters); err != nil {
		return querybuilder.Statement{}, err
	}
	scope.Apply(where, p("id"))

	having := querybuilder.NewBuilder()
	if err := applyAggregateFilters(having, filters); err != nil {
		return querybuilder.Statement{}, err
	}

	order, err := orderFor(opts.Sort(), true)
	if err != nil {
		return querybuilder.Statement{}, err
	}
	return composer.compose(groupedSelect, where, groupBy, having, append(order, asc(v("id")), asc(fa("analyzer_identity"))), opts.PageInfo())
}

// ComposeProjectFindings builds the statement listing every finding of a single project.
func (composer *Composer) ComposeProjectFindings(projectID uuid.UUID, includeSuppressed bool) (querybuilder.Statement, error) {
	where := querybuilder.NewBuilder().With("project", querybuilder.Eq(p("id"), projectID))
	if !includeSuppressed {
		where.With("suppressed", querybuilder.Eq(analysisSuppressed, false))
	}
	order := []orderTerm{
		asc(c("name")),
		asc(c("version")),
		asc(v("source")),
		asc(v("vuln_id")),
		asc(c("id")),
		asc(v("id")),
	}
	return composer.compose(findingSelect, where, nil, nil, order, shared.PageInfo{})
}

type orderTerm struct {
	expr querybuilder.Operand
	desc bool
}

func asc(expr querybuilder.Operand) orderTerm {
	return orderTerm{expr: expr}
}

func orderFor(sort *shared.SortQuery, grouped bool) ([]orderTerm, error) {
	if sort == nil {
		return nil, nil
	}
	column, ok := sortColumns[sort.Field]
	if !ok || (grouped && !column.grouped) || (!grouped && !column.flat) {
		return nil, errors.Wrapf(ErrUnknownSortField, "%q", sort.Field)
	}
	return []orderTerm{{expr: column.expr, desc: sort.Direction == shared.SortDesc}}, nil
}

func (composer *Composer) compose(selects []selectItem, where *querybuilder.Builder, groupBy []querybuilder.Operand, having *querybuilder.Builder, order []orderTerm, page shared.PageInfo) (querybuilder.Statement, error) {
	r := querybuilder.NewRenderer(composer.dialect)

	var sql strings.Builder
	sql.WriteString("SELECT ")
	for i, item := range selects {
		expr, err := r.Operand(item.expr)
		if err != nil {
			return querybuilder.Statement{}, err
		}
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(expr + " AS " + composer.dialect.QuoteIdent(item.alias))
	}
	sql.WriteString(" " + composer.from(groupBy != nil))

	whereSQL, err := where.RenderInto(r)
	if err != nil {
		return querybuilder.Statement{}, errors.Wrap(err, "could not render finding filter")
	}
	sql.WriteString(" WHERE " + whereSQL)

	if groupBy != nil {
		cols := make([]string, 0, len(groupBy))
		for _, col := range groupBy {
			s, err := r.Operand(col)
			if err != nil {
				return querybuilder.Statement{}, err
			}
			cols = append(cols, s)
		}
		sql.WriteString(" GROUP BY " + strings.Join(cols, ", "))
	}
	if having != nil && having.Len() > 0 {
		havingSQL, err := having.RenderInto(r)
		if err != nil {
			return querybuilder.Statement{}, errors.Wrap(err, "could not render aggregate filter")
		}
		sql.WriteString(" HAVING " + havingSQL)
	}

	countSQL := "SELECT COUNT(*) FROM (" + sql.String() + ") " + composer.dialect.QuoteIdent("matching_findings")

	terms := make([]string, 0, len(order))
	for _, o := range order {
		term, err := r.Operand(o.expr)
		if err != nil {
			return querybuilder.Statement{}, err
		}
		if o.desc {
			terms = append(terms, term+" DESC")
		} else {
			terms = append(terms, term+" ASC")
		}
	}
	sql.WriteString(" ORDER BY " + strings.Join(terms, ", "))

	switch {
	case page.Limit > 0:
		sql.WriteString(" " + composer.dialect.Paginate(r.Bind("limit", page.Limit), r.Bind("offset", page.Offset)))
	case page.Offset > 0:
		sql.WriteString(" " + composer.dialect.Skip(r.Bind("offset", page.Offset)))
	}

	return querybuilder.Statement{
		SQL:      sql.String(),
		CountSQL: countSQL,
		Params:   r.Params(),
	}, nil
}

func (composer *Composer) from(grouped bool) string {
	q := composer.dialect.QuoteIdent
	col := func(table, name string) string {
		return q(table) + "." + q(name)
	}
	table := func(name, alias string) string {
		return q(name) + " " + q(alias)
	}

	from := "FROM " + table("components", componentAlias) +
		" INNER JOIN " + table("components_vulnerabilities", componentVulnAlias) +
		" ON " + col(componentVulnAlias, "component_id") + " = " + col(componentAlias, "id") +
		" INNER JOIN " + table("vulnerabilities", vulnerabilityAlias) +
		" ON " + col(vulnerabilityAlias, "id") + " = " + col(componentVulnAlias, "vulnerability_id") +
		" INNER JOIN " + table("projects", projectAlias) +
		" ON " + col(projectAlias, "id") + " = " + col(componentAlias, "project_id") +
		" LEFT JOIN " + table("finding_attributions", attributionAlias) +
		" ON " + col(attributionAlias, "component_id") + " = " + col(componentAlias, "id") +
		" AND " + col(attributionAlias, "vulnerability_id") + " = " + col(vulnerabilityAlias, "id") +
		" LEFT JOIN " + table("analyses", analysisAlias) +
		" ON " + col(analysisAlias, "component_id") + " = " + col(componentAlias, "id") +
		" AND " + col(analysisAlias, "vulnerability_id") + " = " + col(vulnerabilityAlias, "id") +
		" AND " + col(analysisAlias, "project_id") + " = " + col(projectAlias, "id") +
		" LEFT JOIN " + table("analyses", globalAnalysisAlias) +
		" ON " + col(globalAnalysisAlias, "component_id") + " = " + col(componentAlias, "id") +
		" AND " + col(globalAnalysisAlias, "vulnerability_id") + " = " + col(vulnerabilityAlias, "id") +
		" AND " + col(globalAnalysisAlias, "project_id") + " IS NULL"
	if grouped {
		from += " LEFT JOIN " + table("affected_version_attributions", affectedVersionAlias) +
			" ON " + col(affectedVersionAlias, "vulnerability_id") + " = " + col(vulnerabilityAlias, "id")
	}
	return from
}

// applyFilters adds a fragment per recognized key. Keys are visited in a fixed order
// so that equal filter maps always render the same statement. Unknown keys are ignored.
func applyFilters(b *querybuilder.Builder, filters map[string]string) error {
	if set := setFilter(v("severity"), filters["severity"], false); set != nil {
		b.With("severity", set)
	}
	if set := setFilter(analysisState, filters["analysisStatus"], true); set != nil {
		b.With("analysisStatus", set)
	}
	if set := setFilter(analysisResponse, filters["vendorResponse"], true); set != nil {
		b.With("vendorResponse", set)
	}

	if err := dateRange(b, "publishDate", v("published"), filters, "publishDateFrom", "publishDateTo"); err != nil {
		return err
	}
	if err := dateRange(b, "attributedOn", fa("attributed_on"), filters, "attributedOnDateFrom", "attributedOnDateTo"); err != nil {
		return err
	}
	if err := floatRange(b, "cvssv2", v("cvss_v2_base_score"), filters, "cvssv2From", "cvssv2To"); err != nil {
		return err
	}
	if err := floatRange(b, "cvssv3", v("cvss_v3_base_score"), filters, "cvssv3From", "cvssv3To"); err != nil {
		return err
	}

	if search := textSearch(filters["textSearchField"], filters["textSearchInput"]); search != nil {
		b.With("textSearch", search)
	}

	showInactive, err := flag(filters, "showInactive")
	if err != nil {
		return err
	}
	if !showInactive {
		b.With("active", querybuilder.OrNull(querybuilder.Eq(p("active"), true), p("active")))
	}

	showSuppressed, err := flag(filters, "showSuppressed")
	if err != nil {
		return err
	}
	if !showSuppressed {
		b.With("suppressed", querybuilder.Eq(analysisSuppressed, false))
	}
	return b.Err()
}

func applyAggregateFilters(b *querybuilder.Builder, filters map[string]string) error {
	from, err := parseInt(filters, "occurrencesFrom")
	if err != nil {
		return err
	}
	to, err := parseInt(filters, "occurrencesTo")
	if err != nil {
		return err
	}
	if from != nil || to != nil {
		b.With("occurrences", querybuilder.Between(affectedProjectCount, orNil(from), orNil(to)))
	}

	if err := dateRange(b, "firstSeen", firstSeen, filters, "firstSeenFrom", "firstSeenTo"); err != nil {
		return err
	}
	if err := dateRange(b, "lastSeen", lastSeen, filters, "lastSeenFrom", "lastSeenTo"); err != nil {
		return err
	}
	return b.Err()
}

// setFilter ORs one equality per comma separated value. NOT_SET also matches
// rows without a value when nullable is set.
func setFilter(operand querybuilder.Operand, raw string, nullable bool) querybuilder.Expr {
	var exprs []querybuilder.Expr
	for _, value := range utils.SplitCommaList(raw) {
		value = strings.ToUpper(value)
		exprs = append(exprs, querybuilder.Eq(operand, value))
		if nullable && value == "NOT_SET" {
			exprs = append(exprs, querybuilder.IsNull(operand))
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return querybuilder.Or(exprs...)
}

func textSearch(fields, input string) querybuilder.Expr {
	if fields == "" || input == "" {
		return nil
	}
	var exprs []querybuilder.Expr
	for _, field := range utils.SplitCommaList(fields) {
		if column, ok := textSearchColumns[strings.ToUpper(field)]; ok {
			exprs = append(exprs, querybuilder.Like(column, input))
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return querybuilder.Or(exprs...)
}

func dateRange(b *querybuilder.Builder, name string, operand querybuilder.Operand, filters map[string]string, fromKey, toKey string) error {
	from, err := parseDate(filters, fromKey, false)
	if err != nil {
		return err
	}
	to, err := parseDate(filters, toKey, true)
	if err != nil {
		return err
	}
	if from != nil || to != nil {
		b.With(name, querybuilder.Between(operand, orNil(from), orNil(to)))
	}
	return nil
}

func floatRange(b *querybuilder.Builder, name string, operand querybuilder.Operand, filters map[string]string, fromKey, toKey string) error {
	from, err := parseFloat(filters, fromKey)
	if err != nil {
		return err
	}
	to, err := parseFloat(filters, toKey)
	if err != nil {
		return err
	}
	if from != nil || to != nil {
		b.With(name, querybuilder.Between(operand, orNil(from), orNil(to)))
	}
	return nil
}

// parseDate accepts calendar dates, widened to the start or the end of the day, and RFC3339 timestamps.
func parseDate(filters map[string]string, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(filters[key])
	if raw == "" {
		return nil, nil
	}
	if day, err := time.Parse(dateLayout, raw); err == nil {
		if endOfDay {
			day = day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		return &day, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilterValue, "%s: %q is neither a date nor a timestamp", key, raw)
	}
	t = t.UTC()
	return &t, nil
}

func parseFloat(filters map[string]string, key string) (*float64, error) {
	raw := strings.TrimSpace(filters[key])
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilterValue, "%s: %q is not a number", key, raw)
	}
	return &f, nil
}

func parseInt(filters map[string]string, key string) (*int64, error) {
	raw := strings.TrimSpace(filters[key])
	if raw == "" {
		return nil, nil
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilterValue, "%s: %q is not an integer", key, raw)
	}
	return &i, nil
}

func flag(filters map[string]string, key string) (bool, error) {
	raw := strings.TrimSpace(filters[key])
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidFilterValue, "%s: %q is not a boolean", key, raw)
	}
	return b, nil
}

// orNil keeps a missing bound an untyped nil so that Between skips it.
func orNil[T any](value *T) any {
	if value == nil {
		return nil
	}
	return *value
}
