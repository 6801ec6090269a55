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
	"time"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// TestS2DateFilteredSelect mirrors scenario S2: Emp(hire_date,
// last_name) with rows (1970-09-23,'Fürstenberg') and
// (2012-02-01,'Fürstenberg'); Select(hire_date > 2012-01-01) emits
// only the second row.
func TestS2DateFilteredSelect(t *testing.T) {
	ctx := newTestContext()
	schema := block.Schema{
		{Name: "hire_date", QualifiedName: "hire_date", Type: value.Date},
		{Name: "last_name", QualifiedName: "last_name", Type: value.String},
	}
	d1 := value.NewDate(mustDate(t, "1970-09-23"))
	d2 := value.NewDate(mustDate(t, "2012-02-01"))
	rows := [][]value.Value{
		{d1, value.NewString("Fürstenberg")},
		{d2, value.NewString("Fürstenberg")},
	}
	scan := NewScan(ctx, "EMP", schema, blockRowsProvider(ctx.Manager, rows))

	cutoff := value.NewDate(mustDate(t, "2012-01-01"))
	predicate := []eval.Instruction{
		{Op: eval.Push, Const: cutoff},
		{Op: eval.PushVar, VarIndex: 0},
		{Op: eval.Gt},
	}
	sel := NewSelect(ctx, predicate, []VarBinding{{Slot: 0, ColumnName: "hire_date"}})
	if _, err := sel.Connect(scan); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	got := drainAll(t, sel)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if !got[0][0].Equal(d2) {
		t.Fatalf("expected the 2012-02-01 row, got %v", got[0][0])
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return tm
}
