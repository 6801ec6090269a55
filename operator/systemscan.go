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
	"fmt"
	"io"
	"sort"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// SystemScan materialises one of the built-in catalog views --
// SYSTEM_DUAL, SYSTEM_TABLES, SYSTEM_COLUMNS, SYSTEM_FUNCTIONS,
// SYSTEM_PARAMETERS, SYSTEM_MAPPINGS -- into an in-memory row snapshot
// at construction time, then replays it row by row. Catalog views are
// small enough that paying a Block's per-cell bookkeeping (and its
// "empty row" ambiguity for SYSTEM_DUAL's zero-column row) buys
// nothing; a plain slice does the job. It is a leaf: Connect always
// fails.
type SystemScan struct {
	ctx    *Context
	table  *catalog.Table
	schema block.Schema
	rows   [][]value.Value
	pos    int
}

// NewSystemScan builds a SystemScan for table, which must be one of
// the Catalog's six built-in system tables.
func NewSystemScan(ctx *Context, table *catalog.Table) (*SystemScan, error) {
	rows, err := materializeSystemTable(ctx, table)
	if err != nil {
		return nil, err
	}

	schema := make(block.Schema, len(table.Columns))
	for i, c := range table.Columns {
		schema[i] = block.SymbolInfo{Name: c.Name, QualifiedName: table.Name + "." + c.Name, Type: c.Type, SourceTable: table.Name}
	}

	return &SystemScan{
		ctx:    ctx,
		table:  table,
		schema: schema,
		rows:   rows,
	}, nil
}

func materializeSystemTable(ctx *Context, table *catalog.Table) ([][]value.Value, error) {
	switch table.Name {
	case "SYSTEM_DUAL":
		return [][]value.Value{{}}, nil

	case "SYSTEM_TABLES":
		var rows [][]value.Value
		for _, t := range sortedTables(ctx.Catalog.GetTables()) {
			rows = append(rows, []value.Value{value.NewString(t.Name), value.NewBool(t.System)})
		}
		return rows, nil

	case "SYSTEM_COLUMNS":
		var rows [][]value.Value
		for _, t := range sortedTables(ctx.Catalog.GetTables()) {
			for i, c := range t.Columns {
				rows = append(rows, []value.Value{
					value.NewString(t.Name),
					value.NewString(c.Name),
					value.NewString(c.Type.String()),
					value.NewInt(int64(i)),
				})
			}
		}
		return rows, nil

	case "SYSTEM_FUNCTIONS":
		var rows [][]value.Value
		for _, f := range sortedFunctions(ctx.Functions.List()) {
			rows = append(rows, []value.Value{value.NewString(f.Name), value.NewInt(int64(f.Arity)), value.NewBool(false)})
		}
		return rows, nil

	case "SYSTEM_PARAMETERS":
		var rows [][]value.Value
		params := ctx.Catalog.Parameters()
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, []value.Value{value.NewString(name), value.NewString(params[name])})
		}
		return rows, nil

	case "SYSTEM_MAPPINGS":
		var rows [][]value.Value
		for _, t := range sortedTables(ctx.Catalog.GetTables()) {
			if t.Mapping == "" {
				continue
			}
			rows = append(rows, []value.Value{value.NewString(t.Name), value.NewString(t.Mapping)})
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("operator: %s is not a system table", table.Name)
	}
}

func sortedTables(tables []*catalog.Table) []*catalog.Table {
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables
}

func sortedFunctions(funcs []eval.Function) []eval.Function {
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name < funcs[j].Name })
	return funcs
}

// Connect implements Operator. SystemScan is a leaf and accepts no input.
func (s *SystemScan) Connect(Operator) (bool, error) { return false, ErrNoMoreInputs }

// GetNextRow implements Operator.
func (s *SystemScan) GetNextRow() ([]value.Value, error) {
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// ColumnInfos implements Operator.
func (s *SystemScan) ColumnInfos() block.Schema { return s.schema }

// Dump implements Operator.
func (s *SystemScan) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "SystemTableScanOperator", s.table.Name)
}
