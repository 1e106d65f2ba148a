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
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidIdentifier = errors.New("invalid sql identifier")
	ErrNilValue          = errors.New("nil comparison value")
	ErrUnsupportedNode   = errors.New("unsupported expression node")
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
var paramNameRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

const likeEscape = '!'

// Renderer turns expressions into SQL with @name parameters. One renderer is used per
// statement so parameter names never repeat.
type Renderer struct {
	dialect Dialect
	params  map[string]any
	counter map[string]int
}

func NewRenderer(d Dialect) *Renderer {
	return &Renderer{
		dialect: d,
		params:  make(map[string]any),
		counter: make(map[string]int),
	}
}

func (r *Renderer) Dialect() Dialect {
	return r.dialect
}

func (r *Renderer) Params() map[string]any {
	return r.params
}

// Bind registers value under a fresh name derived from prefix and returns the placeholder.
func (r *Renderer) Bind(prefix string, value any) string {
	prefix = paramNameRe.ReplaceAllString(prefix, "_")
	if prefix == "" {
		prefix = "p"
	}
	for {
		r.counter[prefix]++
		name := fmt.Sprintf("%s_%d", prefix, r.counter[prefix])
		if _, exists := r.params[name]; !exists {
			r.params[name] = value
			return "@" + name
		}
	}
}

func (r *Renderer) Ident(ident string) (string, error) {
	if !identifierRe.MatchString(ident) {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q", ident)
	}
	return r.dialect.QuoteIdent(ident), nil
}

func (r *Renderer) Expr(prefix string, e Expr) (string, error) {
	switch e := e.(type) {
	case nil:
		return "1 = 1", nil
	case ConstExpr:
		if e {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	case CmpExpr:
		if e.Value == nil {
			return "", errors.Wrapf(ErrNilValue, "operator %s", e.Op)
		}
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		return left + " " + string(e.Op) + " " + r.Bind(prefix, e.Value), nil
	case RangeExpr:
		var parts []Expr
		if e.Min != nil {
			parts = append(parts, Gte(e.Left, e.Min))
		}
		if e.Max != nil {
			parts = append(parts, Lte(e.Left, e.Max))
		}
		return r.Expr(prefix, And(parts...))
	case InExpr:
		rv := reflect.ValueOf(e.Values)
		if rv.Kind() != reflect.Slice {
			return "", errors.Errorf("IN expects a slice, got %T", e.Values)
		}
		if rv.Len() == 0 {
			return "1 = 0", nil
		}
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		// gorm expands slices into a parenthesized list
		return left + " IN " + r.Bind(prefix, e.Values), nil
	case IDInExpr:
		if len(e.IDs) == 0 {
			return "1 = 0", nil
		}
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		if len(e.IDs) <= r.dialect.MaxBoundIDs() {
			return left + " IN " + r.Bind(prefix, e.IDs), nil
		}
		literals := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			literals[i] = "'" + id.String() + "'"
		}
		return left + " IN (" + strings.Join(literals, ", ") + ")", nil
	case LikeExpr:
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		needle := escapeLike(e.Needle)
		if e.CaseInsensitive {
			left = "LOWER(" + left + ")"
			needle = strings.ToLower(needle)
		}
		return left + " LIKE " + r.Bind(prefix, "%"+needle+"%") + " ESCAPE '" + string(likeEscape) + "'", nil
	case IsNullExpr:
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		return left + " IS NULL", nil
	case ColumnEqExpr:
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		right, err := r.Operand(e.Right)
		if err != nil {
			return "", err
		}
		return left + " = " + right, nil
	case InSubqueryExpr:
		left, err := r.Operand(e.Left)
		if err != nil {
			return "", err
		}
		sub, err := r.subquery(prefix, e.Subquery)
		if err != nil {
			return "", err
		}
		return left + " IN (" + sub + ")", nil
	case AndExpr:
		return r.junction(prefix, e.Exprs, " AND ", "1 = 1")
	case OrExpr:
		return r.junction(prefix, e.Exprs, " OR ", "1 = 0")
	case NotExpr:
		inner, err := r.Expr(prefix, e.Expr)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	}
	return "", errors.Wrapf(ErrUnsupportedNode, "%T", e)
}

func (r *Renderer) junction(prefix string, exprs []Expr, op string, empty string) (string, error) {
	switch len(exprs) {
	case 0:
		return empty, nil
	case 1:
		return r.Expr(prefix, exprs[0])
	}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		s, err := r.Expr(prefix, e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

func (r *Renderer) subquery(prefix string, s Subquery) (string, error) {
	sel, err := r.Operand(s.Select)
	if err != nil {
		return "", err
	}
	from, err := r.Ident(s.From)
	if err != nil {
		return "", err
	}
	sql := "SELECT " + sel + " FROM " + from
	if s.Where != nil {
		where, err := r.Expr(prefix, s.Where)
		if err != nil {
			return "", err
		}
		sql += " WHERE " + where
	}
	return sql, nil
}

func (r *Renderer) Operand(o Operand) (string, error) {
	switch o := o.(type) {
	case Column:
		name, err := r.Ident(o.Name)
		if err != nil {
			return "", err
		}
		if o.Table == "" {
			return name, nil
		}
		table, err := r.Ident(o.Table)
		if err != nil {
			return "", err
		}
		return table + "." + name, nil
	case Concat:
		parts := make([]string, 0, 2*len(o.Parts))
		sep := r.constant(o.Separator)
		for i, p := range o.Parts {
			s, err := r.Operand(p)
			if err != nil {
				return "", err
			}
			if i > 0 && o.Separator != "" {
				parts = append(parts, sep)
			}
			parts = append(parts, "COALESCE("+s+", '')")
		}
		return r.dialect.Concat(parts), nil
	case Lower:
		s, err := r.Operand(o.Arg)
		if err != nil {
			return "", err
		}
		return "LOWER(" + s + ")", nil
	case Aggregate:
		s, err := r.Operand(o.Arg)
		if err != nil {
			return "", err
		}
		if o.Distinct {
			s = "DISTINCT " + s
		}
		return string(o.Func) + "(" + s + ")", nil
	case Coalesce:
		args := make([]string, 0, len(o.Args))
		for _, a := range o.Args {
			s, err := r.Operand(a)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		return "COALESCE(" + strings.Join(args, ", ") + ")", nil
	case Const:
		return r.constant(o.Value), nil
	case Case:
		subject, err := r.Operand(o.Subject)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.WriteString("CASE ")
		sb.WriteString(subject)
		for _, w := range o.Whens {
			sb.WriteString(" WHEN ")
			sb.WriteString(r.constant(w.Equals.Value))
			sb.WriteString(" THEN ")
			sb.WriteString(r.constant(w.Then.Value))
		}
		if o.Else != nil {
			e, err := r.Operand(o.Else)
			if err != nil {
				return "", err
			}
			sb.WriteString(" ELSE ")
			sb.WriteString(e)
		}
		sb.WriteString(" END")
		return sb.String(), nil
	case IfNotNull:
		parts := make([]string, 0, 3)
		for _, op := range []Operand{o.Key, o.Then, o.Else} {
			s, err := r.Operand(op)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "CASE WHEN " + parts[0] + " IS NOT NULL THEN " + parts[1] + " ELSE " + parts[2] + " END", nil
	}
	return "", errors.Wrapf(ErrUnsupportedNode, "%T", o)
}

func (r *Renderer) constant(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return r.dialect.BoolLiteral(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "NULL"
}

func escapeLike(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c == likeEscape || c == '%' || c == '_' {
			sb.WriteRune(likeEscape)
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// Render renders a single expression with parameters prefixed by "p".
func Render(d Dialect, e Expr) (string, map[string]any, error) {
	r := NewRenderer(d)
	sql, err := r.Expr("p", e)
	if err != nil {
		return "", nil, err
	}
	return sql, r.Params(), nil
}
