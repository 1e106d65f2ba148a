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

// Operand is something a predicate compares: a column or an expression derived from columns.
type Operand interface {
	isOperand()
}

type Column struct {
	Table string
	Name  string
}

func Col(table, name string) Column {
	return Column{Table: table, Name: name}
}

// Concat joins operands with a fixed separator. NULL parts are treated as empty.
type Concat struct {
	Parts     []Operand
	Separator string
}

type Lower struct {
	Arg Operand
}

type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

type Aggregate struct {
	Func     AggFunc
	Arg      Operand
	Distinct bool
}

func CountDistinct(arg Operand) Aggregate {
	return Aggregate{Func: AggCount, Arg: arg, Distinct: true}
}

func Min(arg Operand) Aggregate {
	return Aggregate{Func: AggMin, Arg: arg}
}

func Max(arg Operand) Aggregate {
	return Aggregate{Func: AggMax, Arg: arg}
}

type Coalesce struct {
	Args []Operand
}

// Const is a literal known at compile time. It is rendered inline, so only code may create one.
type Const struct {
	Value any
}

type When struct {
	Equals Const
	Then   Const
}

// Case is a simple CASE expression over Subject.
type Case struct {
	Subject Operand
	Whens   []When
	Else    Operand
}

// IfNotNull yields Then when Key is not null and Else otherwise. Selecting every field
// of a left joined row by its key keeps the fields of one row together.
type IfNotNull struct {
	Key  Operand
	Then Operand
	Else Operand
}

func (Column) isOperand()    {}
func (Concat) isOperand()    {}
func (Lower) isOperand()     {}
func (Aggregate) isOperand() {}
func (Coalesce) isOperand()  {}
func (Const) isOperand()     {}
func (Case) isOperand()      {}
func (IfNotNull) isOperand() {}
