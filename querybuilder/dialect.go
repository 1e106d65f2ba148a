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

package querybuilder

import (
	"fmt"
	"strings"
)

// Dialect covers the syntax differences between the supported stores.
type Dialect interface {
	Name() string
	QuoteIdent(ident string) string
	// Concat joins already rendered, non-NULL string expressions.
	Concat(parts []string) string
	BoolLiteral(b bool) string
	// Paginate renders the clause that follows ORDER BY.
	Paginate(limitParam, offsetParam string) string
	// Skip renders an offset without a row limit.
	Skip(offsetParam string) string
	// RecursiveWith opens a recursive common table expression.
	RecursiveWith(name string, columns ...string) string
	// RecursiveUnion is the set operator between the anchor and the recursive member.
	RecursiveUnion() string
	// MaxBoundIDs is the longest id list bound as parameters. Longer lists are inlined.
	MaxBoundIDs() int
}

type postgresDialect struct{}
type sqliteDialect struct{}
type mysqlDialect struct{}
type sqlServerDialect struct{}

var (
	Postgres  Dialect = postgresDialect{}
	SQLite    Dialect = sqliteDialect{}
	MySQL     Dialect = mysqlDialect{}
	SQLServer Dialect = sqlServerDialect{}
)

func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", name)
}

func doubleQuote(ident string) string {
	return `"` + ident + `"`
}

func (postgresDialect) Name() string                   { return "postgres" }
func (postgresDialect) QuoteIdent(ident string) string { return doubleQuote(ident) }
func (postgresDialect) Concat(parts []string) string   { return "(" + strings.Join(parts, " || ") + ")" }
func (postgresDialect) BoolLiteral(b bool) string      { return boolKeyword(b) }
func (postgresDialect) Paginate(limit, offset string) string {
	return "LIMIT " + limit + " OFFSET " + offset
}
func (postgresDialect) Skip(offset string) string { return "OFFSET " + offset }
func (postgresDialect) RecursiveWith(name string, columns ...string) string {
	return withClause("WITH RECURSIVE ", doubleQuote, name, columns)
}
func (postgresDialect) RecursiveUnion() string { return "UNION" }
func (postgresDialect) MaxBoundIDs() int       { return 10000 }

func (sqliteDialect) Name() string                   { return "sqlite" }
func (sqliteDialect) QuoteIdent(ident string) string { return doubleQuote(ident) }
func (sqliteDialect) Concat(parts []string) string   { return "(" + strings.Join(parts, " || ") + ")" }
func (sqliteDialect) BoolLiteral(b bool) string      { return boolKeyword(b) }
func (sqliteDialect) Paginate(limit, offset string) string {
	return "LIMIT " + limit + " OFFSET " + offset
}

// sqlite only accepts OFFSET after a LIMIT, a negative limit means no limit.
func (sqliteDialect) Skip(offset string) string { return "LIMIT -1 OFFSET " + offset }
func (sqliteDialect) RecursiveWith(name string, columns ...string) string {
	return withClause("WITH RECURSIVE ", doubleQuote, name, columns)
}
func (sqliteDialect) RecursiveUnion() string { return "UNION" }
func (sqliteDialect) MaxBoundIDs() int       { return 10000 }

func (mysqlDialect) Name() string                   { return "mysql" }
func (mysqlDialect) QuoteIdent(ident string) string { return "`" + ident + "`" }
func (mysqlDialect) Concat(parts []string) string   { return "CONCAT(" + strings.Join(parts, ", ") + ")" }
func (mysqlDialect) BoolLiteral(b bool) string      { return boolKeyword(b) }
func (mysqlDialect) Paginate(limit, offset string) string {
	return "LIMIT " + limit + " OFFSET " + offset
}

// the largest row count mysql accepts, there is no unlimited form.
func (mysqlDialect) Skip(offset string) string { return "LIMIT 18446744073709551615 OFFSET " + offset }
func (d mysqlDialect) RecursiveWith(name string, columns ...string) string {
	return withClause("WITH RECURSIVE ", d.QuoteIdent, name, columns)
}
func (mysqlDialect) RecursiveUnion() string { return "UNION" }
func (mysqlDialect) MaxBoundIDs() int       { return 10000 }

func (sqlServerDialect) Name() string                   { return "sqlserver" }
func (sqlServerDialect) QuoteIdent(ident string) string { return "[" + ident + "]" }
func (sqlServerDialect) Concat(parts []string) string   { return "CONCAT(" + strings.Join(parts, ", ") + ")" }
func (sqlServerDialect) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
func (sqlServerDialect) Paginate(limit, offset string) string {
	return "OFFSET " + offset + " ROWS FETCH NEXT " + limit + " ROWS ONLY"
}
func (sqlServerDialect) Skip(offset string) string { return "OFFSET " + offset + " ROWS" }

// sql server has no RECURSIVE keyword and only allows UNION ALL inside recursive members.
func (d sqlServerDialect) RecursiveWith(name string, columns ...string) string {
	return withClause("WITH ", d.QuoteIdent, name, columns)
}
func (sqlServerDialect) RecursiveUnion() string { return "UNION ALL" }

// a request carries at most 2100 parameters, the rest are left for the other filters.
func (sqlServerDialect) MaxBoundIDs() int { return 1000 }

func boolKeyword(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func withClause(keyword string, quote func(string) string, name string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	return keyword + quote(name) + "(" + strings.Join(quoted, ", ") + ") AS"
}
