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

	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// TestCrossJoinCardinality mirrors property 5: a cross join of an
// L-row input and an R-row input emits exactly L*R rows.
func TestCrossJoinCardinality(t *testing.T) {
	ctx := newTestContext()
	var lhsRows, rhsRows [][]value.Value
	for i := int64(0); i < 3; i++ {
		lhsRows = append(lhsRows, []value.Value{value.NewInt(i)})
	}
	for i := int64(0); i < 4; i++ {
		rhsRows = append(rhsRows, []value.Value{value.NewInt(i)})
	}
	lhs := NewScan(ctx, "L", intSchema("l"), blockRowsProvider(ctx.Manager, lhsRows))
	rhs := NewScan(ctx, "R", intSchema("r"), blockRowsProvider(ctx.Manager, rhsRows))

	join := NewCrossJoin(ctx)
	if _, err := join.Connect(lhs); err != nil {
		t.Fatalf("Connect lhs: %v", err)
	}
	if _, err := join.Connect(rhs); err != nil {
		t.Fatalf("Connect rhs: %v", err)
	}
	got := drainAll(t, join)
	if len(got) != 12 {
		t.Fatalf("expected 3*4=12 rows, got %d", len(got))
	}
	for _, row := range got {
		if len(row) != 2 {
			t.Fatalf("expected 2 columns per row, got %d", len(row))
		}
	}
}

// TestInnerHashJoinMatchesSelectOverCrossJoin mirrors property 6: an
// InnerHashJoin on l=r produces the same row set as filtering a cross
// join's output by l=r.
func TestInnerHashJoinMatchesSelectOverCrossJoin(t *testing.T) {
	ctx := newTestContext()
	lhsRows := [][]value.Value{{value.NewInt(1)}, {value.NewInt(2)}, {value.NewInt(3)}}
	rhsRows := [][]value.Value{{value.NewInt(2)}, {value.NewInt(3)}, {value.NewInt(4)}}

	hashJoin := buildHashJoin(ctx, lhsRows, rhsRows)
	hashGot := drainAll(t, hashJoin)

	selScan := buildFilteredCrossJoin(ctx, lhsRows, rhsRows)
	selGot := drainAll(t, selScan)

	if len(hashGot) != len(selGot) {
		t.Fatalf("row count mismatch: hash join %d, select-over-cross %d", len(hashGot), len(selGot))
	}
	if len(hashGot) != 2 {
		t.Fatalf("expected 2 matching rows (2 and 3), got %d", len(hashGot))
	}
	for i := range hashGot {
		if hashGot[i][0].Int() != selGot[i][0].Int() || hashGot[i][1].Int() != selGot[i][1].Int() {
			t.Fatalf("row %d mismatch: hash=%v select=%v", i, hashGot[i], selGot[i])
		}
	}
}

func buildHashJoin(ctx *Context, lhsRows, rhsRows [][]value.Value) Operator {
	lhs := NewScan(ctx, "L", intSchema("l"), blockRowsProvider(ctx.Manager, lhsRows))
	rhs := NewScan(ctx, "R", intSchema("r"), blockRowsProvider(ctx.Manager, rhsRows))
	join := NewInnerHashJoin(ctx, "l", "r")
	if _, err := join.Connect(lhs); err != nil {
		panic(err)
	}
	if _, err := join.Connect(rhs); err != nil {
		panic(err)
	}
	return join
}

func buildFilteredCrossJoin(ctx *Context, lhsRows, rhsRows [][]value.Value) Operator {
	lhs := NewScan(ctx, "L", intSchema("l"), blockRowsProvider(ctx.Manager, lhsRows))
	rhs := NewScan(ctx, "R", intSchema("r"), blockRowsProvider(ctx.Manager, rhsRows))
	join := NewCrossJoin(ctx)
	if _, err := join.Connect(lhs); err != nil {
		panic(err)
	}
	if _, err := join.Connect(rhs); err != nil {
		panic(err)
	}
	predicate := []eval.Instruction{
		{Op: eval.PushVar, VarIndex: 1},
		{Op: eval.PushVar, VarIndex: 0},
		{Op: eval.Eq},
	}
	sel := NewSelect(ctx, predicate, []VarBinding{{Slot: 0, ColumnName: "l"}, {Slot: 1, ColumnName: "r"}})
	if _, err := sel.Connect(join); err != nil {
		panic(err)
	}
	return sel
}

// TestInnerJoinEquiJoinRows checks that InnerJoin (CrossJoin plus a
// compiled predicate) emits exactly the rows matching the l=r
// equi-join, and exercises InnerJoin's two-stage Connect sequencing
// directly.
func TestInnerJoinEquiJoinRows(t *testing.T) {
	ctx := newTestContext()
	lhsRows := [][]value.Value{{value.NewInt(1)}, {value.NewInt(2)}, {value.NewInt(3)}}
	rhsRows := [][]value.Value{{value.NewInt(2)}, {value.NewInt(3)}, {value.NewInt(4)}}

	lhs := NewScan(ctx, "L", intSchema("l"), blockRowsProvider(ctx.Manager, lhsRows))
	rhs := NewScan(ctx, "R", intSchema("r"), blockRowsProvider(ctx.Manager, rhsRows))
	predicate := []eval.Instruction{
		{Op: eval.PushVar, VarIndex: 1},
		{Op: eval.PushVar, VarIndex: 0},
		{Op: eval.Eq},
	}
	join := NewInnerJoin(ctx, predicate, []VarBinding{{Slot: 0, ColumnName: "l"}, {Slot: 1, ColumnName: "r"}})

	connected, err := join.Connect(lhs)
	if err != nil {
		t.Fatalf("Connect lhs: %v", err)
	}
	if connected {
		t.Fatalf("expected Connect to report not-yet-connected after only the lhs is attached")
	}
	connected, err = join.Connect(rhs)
	if err != nil {
		t.Fatalf("Connect rhs: %v", err)
	}
	if !connected {
		t.Fatalf("expected Connect to report fully connected once both sides are attached")
	}

	got := drainAll(t, join)
	if len(got) != 2 {
		t.Fatalf("expected 2 matching rows, got %d", len(got))
	}
	if got[0][0].Int() != 2 || got[0][1].Int() != 2 || got[1][0].Int() != 3 || got[1][1].Int() != 3 {
		t.Fatalf("unexpected rows: %v", got)
	}
}
