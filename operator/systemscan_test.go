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

	"github.com/csvsqldb/csvsqldb/catalog"
)

// TestSystemScanDualYieldsOneZeroColumnRow exercises the SYSTEM_DUAL
// row: zero columns, but exactly one row -- the case Block's
// NextRow-on-empty-cells semantics cannot represent.
func TestSystemScanDualYieldsOneZeroColumnRow(t *testing.T) {
	ctx := newTestContext()
	factory := NewFactory(ctx)
	scan, err := factory.SystemScan("SYSTEM_DUAL")
	if err != nil {
		t.Fatalf("SystemScan: %v", err)
	}
	got := drainAll(t, scan)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 row from SYSTEM_DUAL, got %d", len(got))
	}
	if len(got[0]) != 0 {
		t.Fatalf("expected a zero-column row, got %d columns", len(got[0]))
	}
}

// TestSystemScanTablesReflectsSevenTableCatalog mirrors scenario S6:
// one user table registered alongside the six built-in system tables
// reports 7 rows from SYSTEM_TABLES, with FRIENDS marked non-system.
func TestSystemScanTablesReflectsSevenTableCatalog(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.Catalog.AddTable(&catalog.Table{Name: "FRIENDS"}); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	factory := NewFactory(ctx)
	scan, err := factory.SystemScan("SYSTEM_TABLES")
	if err != nil {
		t.Fatalf("SystemScan: %v", err)
	}
	got := drainAll(t, scan)
	if len(got) != 7 {
		t.Fatalf("expected 7 tables, got %d", len(got))
	}
	var sawFriends bool
	for _, row := range got {
		if row[0].Str() == "FRIENDS" {
			sawFriends = true
			if row[1].Bool() {
				t.Fatalf("expected FRIENDS to be marked non-system")
			}
		}
	}
	if !sawFriends {
		t.Fatalf("expected FRIENDS among the rows")
	}
}

// TestFactorySystemScanRejectsUserTables guards that SystemScan cannot
// be pointed at a non-system table through the Factory.
func TestFactorySystemScanRejectsUserTables(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.Catalog.AddTable(&catalog.Table{Name: "FRIENDS"}); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	factory := NewFactory(ctx)
	if _, err := factory.SystemScan("FRIENDS"); err == nil {
		t.Fatalf("expected an error scanning a non-system table as a system table")
	}
}
