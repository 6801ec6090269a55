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

package catalog

import (
	"errors"
	"testing"
)

func TestNewCatalogHasSixSystemTables(t *testing.T) {
	c := New()
	if len(c.GetSystemTables()) != 6 {
		t.Fatalf("expected 6 system tables, got %d", len(c.GetSystemTables()))
	}
}

func TestAddTableAndLookup(t *testing.T) {
	c := New()
	if err := c.AddTable(&Table{Name: "FRIENDS"}); err != nil {
		t.Fatal(err)
	}
	if !c.HasTable("FRIENDS") {
		t.Fatalf("expected FRIENDS to be registered")
	}
	tbl, err := c.GetTable("FRIENDS")
	if err != nil || tbl.Name != "FRIENDS" {
		t.Fatalf("unexpected lookup result: %v, %v", tbl, err)
	}
}

// TestSystemTablesScenario mirrors scenario S6: a fresh catalog with one
// user table and the six system tables reports 7 tables total, with
// FRIENDS marked non-system and every system table marked system.
func TestSystemTablesScenario(t *testing.T) {
	c := New()
	if err := c.AddTable(&Table{Name: "FRIENDS"}); err != nil {
		t.Fatal(err)
	}
	tables := c.GetTables()
	if len(tables) != 7 {
		t.Fatalf("expected 7 tables total, got %d", len(tables))
	}
	for _, tbl := range tables {
		wantSystem := tbl.Name != "FRIENDS"
		if tbl.System != wantSystem {
			t.Fatalf("table %s: expected system=%v, got %v", tbl.Name, wantSystem, tbl.System)
		}
	}
}

func TestAddTableRejectsDuplicate(t *testing.T) {
	c := New()
	if err := c.AddTable(&Table{Name: "FRIENDS"}); err != nil {
		t.Fatal(err)
	}
	err := c.AddTable(&Table{Name: "FRIENDS"})
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestAddTableRejectsSystemName(t *testing.T) {
	c := New()
	err := c.AddTable(&Table{Name: "SYSTEM_TABLES"})
	if !errors.Is(err, ErrSystemTable) {
		t.Fatalf("expected ErrSystemTable, got %v", err)
	}
}
