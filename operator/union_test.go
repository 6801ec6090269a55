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

package operator

import (
	"testing"

	"github.com/csvsqldb/csvsqldb/value"
)

func TestUnionStreamsFirstThenSecond(t *testing.T) {
	ctx := newTestContext()
	first := NewScan(ctx, "A", intSchema("a"), blockRowsProvider(ctx.Manager, [][]value.Value{
		{value.NewInt(1)}, {value.NewInt(2)},
	}))
	second := NewScan(ctx, "B", intSchema("a"), blockRowsProvider(ctx.Manager, [][]value.Value{
		{value.NewInt(3)},
	}))
	u := NewUnion()
	if _, err := u.Connect(first); err != nil {
		t.Fatalf("Connect first: %v", err)
	}
	if _, err := u.Connect(second); err != nil {
		t.Fatalf("Connect second: %v", err)
	}
	got := drainAll(t, u)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if got[i][0].Int() != w {
			t.Fatalf("row %d: expected %d, got %v", i, w, got[i][0])
		}
	}
}

func TestUnionRejectsArityMismatch(t *testing.T) {
	ctx := newTestContext()
	first := NewScan(ctx, "A", intSchema("a"), blockRowsProvider(ctx.Manager, [][]value.Value{{value.NewInt(1)}}))
	second := NewScan(ctx, "B", intSchema("a", "b"), blockRowsProvider(ctx.Manager, [][]value.Value{
		{value.NewInt(1), value.NewInt(2)},
	}))
	u := NewUnion()
	if _, err := u.Connect(first); err != nil {
		t.Fatalf("Connect first: %v", err)
	}
	if _, err := u.Connect(second); err == nil {
		t.Fatalf("expected arity mismatch error")
	}
}

func TestSortOrdersDescending(t *testing.T) {
	ctx := newTestContext()
	scan := NewScan(ctx, "T", intSchema("a"), blockRowsProvider(ctx.Manager, [][]value.Value{
		{value.NewInt(3)}, {value.NewInt(1)}, {value.NewInt(2)},
	}))
	sort := NewSort([]SortKey{{Column: "a", Descending: true}})
	if _, err := sort.Connect(scan); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	got := drainAll(t, sort)
	want := []int64{3, 2, 1}
	for i, w := range want {
		if got[i][0].Int() != w {
			t.Fatalf("row %d: expected %d, got %v", i, w, got[i][0])
		}
	}
}
