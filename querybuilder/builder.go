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
	"github.com/pkg/errors"
)

var ErrDuplicateParam = errors.New("filter fragment registered twice")

type fragment struct {
	name string
	expr Expr
}

// Builder collects named predicate fragments that are ANDed together. Parameters are
// namespaced by fragment name. Registering a name twice keeps the first fragment and
// makes Build fail. A Builder must not be shared between goroutines.
type Builder struct {
	fragments []fragment
	names     map[string]struct{}
	err       error
}

func NewBuilder() *Builder {
	return &Builder{names: make(map[string]struct{})}
}

func (b *Builder) With(name string, e Expr) *Builder {
	if _, exists := b.names[name]; exists {
		if b.err == nil {
			b.err = errors.Wrapf(ErrDuplicateParam, "%q", name)
		}
		return b
	}
	b.names[name] = struct{}{}
	b.fragments = append(b.fragments, fragment{name: name, expr: e})
	return b
}

func (b *Builder) Len() int {
	return len(b.fragments)
}

func (b *Builder) Err() error {
	return b.err
}

// Expr returns the conjunction of all fragments.
func (b *Builder) Expr() (Expr, error) {
	if b.err != nil {
		return nil, b.err
	}
	exprs := make([]Expr, len(b.fragments))
	for i, f := range b.fragments {
		exprs[i] = f.expr
	}
	return And(exprs...), nil
}

// RenderInto renders the filter with an existing renderer so it can be embedded in a larger statement.
func (b *Builder) RenderInto(r *Renderer) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	switch len(b.fragments) {
	case 0:
		return "1 = 1", nil
	case 1:
		return r.Expr(b.fragments[0].name, b.fragments[0].expr)
	}
	sql := ""
	for i, f := range b.fragments {
		s, err := r.Expr(f.name, f.expr)
		if err != nil {
			return "", errors.Wrapf(err, "fragment %q", f.name)
		}
		if i > 0 {
			sql += " AND "
		}
		sql += s
	}
	return "(" + sql + ")", nil
}

// Build returns the combined filter and its parameters.
func (b *Builder) Build(d Dialect) (string, map[string]any, error) {
	r := NewRenderer(d)
	sql, err := b.RenderInto(r)
	if err != nil {
		return "", nil, err
	}
	return sql, r.Params(), nil
}
