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

package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/csvsource"
	"github.com/csvsqldb/csvsqldb/producer"
	"github.com/csvsqldb/csvsqldb/value"
)

// TestEndToEndScanOutput builds a Scan over a CSV source feeding an
// OutputRow sink -- the shape an embedder wires up for one query --
// and checks the rendered result.
func TestEndToEndScanOutput(t *testing.T) {
	table := &catalog.Table{
		Name: "EMPLOYEES",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Int},
			{Name: "name", Type: value.String},
		},
	}
	cat := catalog.New()
	if err := cat.AddTable(table); err != nil {
		t.Fatalf("AddTable: %v", err)
	}

	eng := New(DefaultConfig(), cat, nil)
	exec := eng.NewExecution()

	csv := "1,Lars\n2,Karin\n3,Maja\n"
	p := producer.New(exec.manager, csvsource.Read(strings.NewReader(csv), csvsource.Table{Table: table}))
	p.Start()
	defer p.Close()

	schema := block.Schema{
		{Name: "id", QualifiedName: "EMPLOYEES.id", Type: value.Int, SourceTable: "EMPLOYEES"},
		{Name: "name", QualifiedName: "EMPLOYEES.name", Type: value.String, SourceTable: "EMPLOYEES"},
	}
	scan := exec.Factory.Scan("EMPLOYEES", schema, p)

	var buf bytes.Buffer
	out := exec.Factory.OutputRow(&buf, false)
	if _, err := out.Connect(scan); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	n, err := Run(out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	want := "1,'Lars'\n2,'Karin'\n3,'Maja'\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BlockCapacityBytes != DefaultBlockCapacityBytes {
		t.Fatalf("expected block capacity %d, got %d", DefaultBlockCapacityBytes, cfg.BlockCapacityBytes)
	}
	if cfg.ProducerHighWatermark != 10 || cfg.ProducerLowWatermark != 5 {
		t.Fatalf("expected watermarks 10/5, got %d/%d", cfg.ProducerHighWatermark, cfg.ProducerLowWatermark)
	}
	if !cfg.EnableSystemTables {
		t.Fatalf("expected system tables enabled by default")
	}
}
