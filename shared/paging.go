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

package shared

import (
	"strings"

	"github.com/pkg/errors"
)

// PageInfo is an offset window. A limit of 0 returns every row.
type PageInfo struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=10000"`
}

type Paged[T any] struct {
	PageInfo
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

func NewPaged[T any](pageInfo PageInfo, total int64, data []T) Paged[T] {
	return Paged[T]{
		PageInfo: pageInfo,
		Total:    total,
		Data:     data,
	}
}

// Slice returns the window of a fully materialized result.
func (p PageInfo) Slice(n int) (from int, to int) {
	from = min(p.Offset, n)
	if p.Limit == 0 {
		return from, n
	}
	return from, min(from+p.Limit, n)
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortQuery struct {
	Field     string
	Direction SortDirection
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	}
	return "", errors.Errorf("invalid sort direction %q", s)
}

// QueryOptions carries pagination and ordering into a single query. The value is
// never mutated, the With* methods return modified copies.
type QueryOptions struct {
	page PageInfo
	sort *SortQuery
}

func NewQueryOptions(page PageInfo, sort *SortQuery) (QueryOptions, error) {
	if err := V.Struct(page); err != nil {
		return QueryOptions{}, errors.Wrap(err, "invalid page")
	}
	o := QueryOptions{page: page}
	if sort != nil {
		s := *sort
		o.sort = &s
	}
	return o, nil
}

func (o QueryOptions) PageInfo() PageInfo {
	return o.page
}

// Sort returns a copy of the requested ordering, or nil.
func (o QueryOptions) Sort() *SortQuery {
	if o.sort == nil {
		return nil
	}
	s := *o.sort
	return &s
}

func (o QueryOptions) WithPage(page PageInfo) QueryOptions {
	o.page = page
	return o
}

func (o QueryOptions) WithSort(field string, direction SortDirection) QueryOptions {
	o.sort = &SortQuery{Field: field, Direction: direction}
	return o
}
