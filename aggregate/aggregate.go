// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package aggregate implements the built-in aggregation functions:
// COUNT, COUNT(*), SUM, AVG, MIN, MAX, ARBITRARY, and PASSTHROUGH.
// Every concrete type here satisfies iterator.Aggregator structurally,
// so GroupingBlockIterator can drive any of them without this package
// needing to be imported from iterator.
package aggregate

import (
	"fmt"

	"github.com/csvsqldb/csvsqldb/iterator"
	"github.com/csvsqldb/csvsqldb/value"
)

// Kind names a built-in aggregation function.
type Kind int

const (
	Count Kind = iota
	CountStar
	Sum
	Avg
	Min
	Max
	Arbitrary
	Passthrough
)

func (k Kind) String() string {
	switch k {
	case Count:
		return "COUNT"
	case CountStar:
		return "COUNT(*)"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Arbitrary:
		return "ARBITRARY"
	case Passthrough:
		return "PASSTHROUGH"
	default:
		return "UNKNOWN"
	}
}

func isNumericKind(k value.Kind) bool { return k == value.Int || k == value.Real }

// NewFunction constructs a fresh Aggregator for kind over a column of
// colType, type-checking the pairing immediately rather than waiting
// to discover a mismatch on the first Step: SUM and AVG refuse a
// non-numeric column, MIN/MAX refuse the None pseudo-type. Grouping
// calls New() once per distinct group key, so each group gets its own
// Aggregator instance; the grouping operator calls NewFunction once at
// plan-connect time to type-check the pairing, and its New() factory
// calls NewFunction again for every group.
func NewFunction(kind Kind, colType value.Kind) (iterator.Aggregator, error) {
	switch kind {
	case Count:
		return &countFunc{colType: colType}, nil
	case CountStar:
		return &countStarFunc{}, nil
	case Sum:
		if !isNumericKind(colType) {
			return nil, fmt.Errorf("aggregate: SUM requires a numeric column, got %s", colType)
		}
		return &sumFunc{colType: colType}, nil
	case Avg:
		if !isNumericKind(colType) {
			return nil, fmt.Errorf("aggregate: AVG requires a numeric column, got %s", colType)
		}
		return &avgFunc{}, nil
	case Min:
		if colType == value.None {
			return nil, fmt.Errorf("aggregate: MIN requires a typed column")
		}
		return &minMaxFunc{colType: colType, isMax: false}, nil
	case Max:
		if colType == value.None {
			return nil, fmt.Errorf("aggregate: MAX requires a typed column")
		}
		return &minMaxFunc{colType: colType, isMax: true}, nil
	case Arbitrary:
		return &arbitraryFunc{colType: colType}, nil
	case Passthrough:
		return &passthroughFunc{colType: colType}, nil
	default:
		return nil, fmt.Errorf("aggregate: unknown function kind %d", kind)
	}
}

// countFunc implements COUNT(expr): the number of non-null values
// stepped into it.
type countFunc struct {
	colType value.Kind
	n       int64
}

func (a *countFunc) Init() { a.n = 0 }
func (a *countFunc) Step(v value.Value) error {
	if !v.IsNull() {
		a.n++
	}
	return nil
}
func (a *countFunc) Finalize() (value.Value, error) { return value.NewInt(a.n), nil }
func (a *countFunc) Suppress() bool                 { return false }

// countStarFunc implements COUNT(*): every row counts, NULL or not.
type countStarFunc struct {
	n int64
}

func (a *countStarFunc) Init()                           { a.n = 0 }
func (a *countStarFunc) Step(value.Value) error          { a.n++; return nil }
func (a *countStarFunc) Finalize() (value.Value, error)  { return value.NewInt(a.n), nil }
func (a *countStarFunc) Suppress() bool                  { return false }

// sumFunc implements SUM(expr). A group with no non-null input values
// finalizes to NULL, matching SUM's usual SQL behavior.
type sumFunc struct {
	colType value.Kind
	sumI    int64
	sumR    float64
	any     bool
}

func (a *sumFunc) Init() {
	a.sumI, a.sumR, a.any = 0, 0, false
}

func (a *sumFunc) Step(v value.Value) error {
	if v.IsNull() {
		return nil
	}
	a.any = true
	if a.colType == value.Int {
		a.sumI += v.Int()
	} else {
		a.sumR += v.Real()
	}
	return nil
}

func (a *sumFunc) Finalize() (value.Value, error) {
	if !a.any {
		return value.Null(a.colType), nil
	}
	if a.colType == value.Int {
		return value.NewInt(a.sumI), nil
	}
	return value.NewReal(a.sumR), nil
}

func (a *sumFunc) Suppress() bool { return false }

// avgFunc implements AVG(expr), always finalizing to REAL. A group
// with no non-null input values finalizes to NULL.
type avgFunc struct {
	sum   float64
	count int64
}

func (a *avgFunc) Init() { a.sum, a.count = 0, 0 }

func (a *avgFunc) Step(v value.Value) error {
	if v.IsNull() {
		return nil
	}
	if v.Kind() == value.Int {
		a.sum += float64(v.Int())
	} else {
		a.sum += v.Real()
	}
	a.count++
	return nil
}

func (a *avgFunc) Finalize() (value.Value, error) {
	if a.count == 0 {
		return value.Null(value.Real), nil
	}
	return value.NewReal(a.sum / float64(a.count)), nil
}

func (a *avgFunc) Suppress() bool { return false }

// minMaxFunc implements MIN(expr) and MAX(expr), selected by isMax.
// NULLs never update the running extreme.
type minMaxFunc struct {
	colType value.Kind
	isMax   bool
	cur     value.Value
	any     bool
}

func (a *minMaxFunc) Init() { a.any = false }

func (a *minMaxFunc) Step(v value.Value) error {
	if v.IsNull() {
		return nil
	}
	if !a.any {
		a.cur = v
		a.any = true
		return nil
	}
	c, err := a.cur.Compare(v)
	if err != nil {
		return err
	}
	if (a.isMax && c < 0) || (!a.isMax && c > 0) {
		a.cur = v
	}
	return nil
}

func (a *minMaxFunc) Finalize() (value.Value, error) {
	if !a.any {
		return value.Null(a.colType), nil
	}
	return a.cur, nil
}

func (a *minMaxFunc) Suppress() bool { return false }

// arbitraryFunc implements ARBITRARY(expr): the first non-null value
// observed, ignoring everything stepped in afterward.
type arbitraryFunc struct {
	colType value.Kind
	cur     value.Value
	any     bool
}

func (a *arbitraryFunc) Init() { a.any = false }

func (a *arbitraryFunc) Step(v value.Value) error {
	if a.any || v.IsNull() {
		return nil
	}
	a.cur = v
	a.any = true
	return nil
}

func (a *arbitraryFunc) Finalize() (value.Value, error) {
	if !a.any {
		return value.Null(a.colType), nil
	}
	return a.cur, nil
}

func (a *arbitraryFunc) Suppress() bool { return false }

// passthroughFunc is not a real aggregation: it carries a
// functionally-dependent column (constant within a group, such as a
// grouping key referenced through a derived expression) through
// GroupingBlockIterator's per-group Aggregator slots by always
// recording the most recently stepped value.
type passthroughFunc struct {
	colType value.Kind
	cur     value.Value
}

func (a *passthroughFunc) Init() { a.cur = value.Null(a.colType) }

func (a *passthroughFunc) Step(v value.Value) error {
	a.cur = v
	return nil
}

func (a *passthroughFunc) Finalize() (value.Value, error) { return a.cur, nil }
func (a *passthroughFunc) Suppress() bool                 { return false }
