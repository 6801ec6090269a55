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

package aggregate

import (
	"testing"

	"github.com/csvsqldb/csvsqldb/value"
)

func step(t *testing.T, kind Kind, colType value.Kind, vals []value.Value) value.Value {
	t.Helper()
	agg, err := NewFunction(kind, colType)
	if err != nil {
		t.Fatalf("NewFunction: %v", err)
	}
	agg.Init()
	for _, v := range vals {
		if err := agg.Step(v); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	result, err := agg.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return result
}

func TestCountSkipsNulls(t *testing.T) {
	got := step(t, Count, value.Int, []value.Value{
		value.NewInt(1), value.Null(value.Int), value.NewInt(2),
	})
	if got.Int() != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestCountStarCountsNulls(t *testing.T) {
	got := step(t, CountStar, value.None, []value.Value{
		value.NewInt(1), value.Null(value.Int), value.NewInt(2),
	})
	if got.Int() != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestSumEmptyGroupIsNull(t *testing.T) {
	got := step(t, Sum, value.Int, nil)
	if !got.IsNull() {
		t.Fatalf("expected NULL sum over no rows, got %v", got)
	}
}

func TestSumInt(t *testing.T) {
	got := step(t, Sum, value.Int, []value.Value{value.NewInt(2), value.NewInt(3), value.Null(value.Int)})
	if got.Kind() != value.Int || got.Int() != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestAvg(t *testing.T) {
	got := step(t, Avg, value.Int, []value.Value{value.NewInt(2), value.NewInt(4)})
	if got.Real() != 3.0 {
		t.Fatalf("expected 3.0, got %v", got)
	}
}

func TestMinMax(t *testing.T) {
	vals := []value.Value{value.NewInt(5), value.NewInt(1), value.Null(value.Int), value.NewInt(3)}
	min := step(t, Min, value.Int, vals)
	max := step(t, Max, value.Int, vals)
	if min.Int() != 1 || max.Int() != 5 {
		t.Fatalf("expected min=1 max=5, got min=%v max=%v", min, max)
	}
}

func TestArbitraryKeepsFirstNonNull(t *testing.T) {
	got := step(t, Arbitrary, value.String, []value.Value{
		value.Null(value.String), value.NewString("a"), value.NewString("b"),
	})
	if got.Str() != "a" {
		t.Fatalf("expected \"a\", got %v", got)
	}
}

func TestSumRejectsNonNumericColumn(t *testing.T) {
	if _, err := NewFunction(Sum, value.String); err == nil {
		t.Fatalf("expected SUM over STRING to be rejected at construction")
	}
}

func TestPassthroughTracksLatest(t *testing.T) {
	got := step(t, Passthrough, value.Int, []value.Value{value.NewInt(1), value.NewInt(2)})
	if got.Int() != 2 {
		t.Fatalf("expected 2 (last stepped value), got %v", got)
	}
}
