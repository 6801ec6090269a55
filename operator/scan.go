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
	"io"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/iterator"
	"github.com/csvsqldb/csvsqldb/value"
)

// Scan reads a named table, row by row, out of a block.Provider: the
// Producer wrapping the table's CSV source, or any other Provider a
// caller constructs. It is a leaf: Connect always fails, since a Scan
// expects no upstream operator.
type Scan struct {
	ctx       *Context
	tableName string
	schema    block.Schema
	rows      *iterator.Plain
}

// NewScan constructs a Scan over src, reporting schema as its output
// columns -- exactly the columns the surrounding query actually
// references, per the "unused columns omitted" contract.
func NewScan(ctx *Context, tableName string, schema block.Schema, src block.Provider) *Scan {
	return &Scan{
		ctx:       ctx,
		tableName: tableName,
		schema:    schema,
		rows:      iterator.NewPlain(ctx.Manager, src),
	}
}

// Connect implements Operator. Scan is a leaf and accepts no input.
func (s *Scan) Connect(Operator) (bool, error) { return false, ErrNoMoreInputs }

// GetNextRow implements Operator.
func (s *Scan) GetNextRow() ([]value.Value, error) { return s.rows.GetNextRow() }

// ColumnInfos implements Operator.
func (s *Scan) ColumnInfos() block.Schema { return s.schema }

// Dump implements Operator.
func (s *Scan) Dump(w io.Writer, depth int) { dumpLine(w, depth, "ScanOperator", s.tableName) }
