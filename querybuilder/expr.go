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

import "github.com/google/uuid"

// Expr is a boolean predicate. Values end up as bound parameters, never as SQL text.
type Expr interface {
	isExpr()
}

type CmpOp string

const (
	OpEq  CmpOp = "="
	OpNeq CmpOp = "<>"
	OpGt  CmpOp = ">"
	OpGte CmpOp = ">="
	OpLt  CmpOp = "<"
	OpLte CmpOp = "<="
)

type CmpExpr struct {
	Left  Operand
	Op    CmpOp
	Value any
}

// RangeExpr is an inclusive range. A nil bound is open.
type RangeExpr struct {
	Left Operand
	Min  any
	Max  any
}

type InExpr struct {
	Left   Operand
	Values any
}

// IDInExpr matches Left against a list of ids. Long lists are rendered as literals
// so that they do not count against the parameter limit of the store.
type IDInExpr struct {
	Left Operand
	IDs  []uuid.UUID
}

type LikeExpr struct {
	Left Operand
	// Needle is matched as a substring. Wildcards inside it are escaped.
	Needle          string
	CaseInsensitive bool
}

type IsNullExpr struct {
	Left Operand
}

// ColumnEqExpr compares two operands, used for correlated subqueries.
type ColumnEqExpr struct {
	Left  Operand
	Right Operand
}

type InSubqueryExpr struct {
	Left     Operand
	Subquery Subquery
}

type AndExpr struct {
	Exprs []Expr
}

type OrExpr struct {
	Exprs []Expr
}

type NotExpr struct {
	Expr Expr
}

type ConstExpr bool

// Subquery selects a single column from a single table.
type Subquery struct {
	Select Column
	From   string
	Where  Expr
}

func (CmpExpr) isExpr()        {}
func (RangeExpr) isExpr()      {}
func (InExpr) isExpr()         {}
func (IDInExpr) isExpr()       {}
func (LikeExpr) isExpr()       {}
func (IsNullExpr) isExpr()     {}
func (ColumnEqExpr) isExpr()   {}
func (InSubqueryExpr) isExpr() {}
func (AndExpr) isExpr()        {}
func (OrExpr) isExpr()         {}
func (NotExpr) isExpr()        {}
func (ConstExpr) isExpr()      {}

func Eq(left Operand, value any) Expr {
	return CmpExpr{Left: left, Op: OpEq, Value: value}
}

func Neq(left Operand, value any) Expr {
	return CmpExpr{Left: left, Op: OpNeq, Value: value}
}

func Gte(left Operand, value any) Expr {
	return CmpExpr{Left: left, Op: OpGte, Value: value}
}

func Lte(left Operand, value any) Expr {
	return CmpExpr{Left: left, Op: OpLte, Value: value}
}

func Between(left Operand, min, max any) Expr {
	return RangeExpr{Left: left, Min: min, Max: max}
}

func In(left Operand, values any) Expr {
	return InExpr{Left: left, Values: values}
}

// Like is a case-sensitive substring match.
func Like(left Operand, needle string) Expr {
	return LikeExpr{Left: left, Needle: needle}
}

// Matches is a case-insensitive substring match.
func Matches(left Operand, needle string) Expr {
	return LikeExpr{Left: left, Needle: needle, CaseInsensitive: true}
}

func IsNull(left Operand) Expr {
	return IsNullExpr{Left: left}
}

func ColumnEq(left, right Operand) Expr {
	return ColumnEqExpr{Left: left, Right: right}
}

func InSubquery(left Operand, sub Subquery) Expr {
	return InSubqueryExpr{Left: left, Subquery: sub}
}

// And drops nil entries. An empty conjunction is true.
func And(exprs ...Expr) Expr {
	return AndExpr{Exprs: compact(exprs)}
}

// Or drops nil entries. An empty disjunction is false.
func Or(exprs ...Expr) Expr {
	return OrExpr{Exprs: compact(exprs)}
}

func Not(e Expr) Expr {
	return NotExpr{Expr: e}
}

func True() Expr {
	return ConstExpr(true)
}

func False() Expr {
	return ConstExpr(false)
}

// OrNull matches either the expression or a NULL column, like the NOT_SET sentinel does.
func OrNull(e Expr, left Operand) Expr {
	return Or(e, IsNull(left))
}

func compact(exprs []Expr) []Expr {
	r := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			r = append(r, e)
		}
	}
	return r
}

// ProjectSet is an access scope over projects.
type ProjectSet interface {
	IsUnrestricted() bool
	ProjectIDs() []uuid.UUID
}

// Membership restricts column to the projects of the set. An empty set matches nothing.
func Membership(column Operand, set ProjectSet) Expr {
	if set.IsUnrestricted() {
		return True()
	}
	ids := set.ProjectIDs()
	if len(ids) == 0 {
		return False()
	}
	return IDInExpr{Left: column, IDs: ids}
}
