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
	"bufio"
	"io"
	"strings"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// flushEvery is the row count at which OutputRow flushes its buffered
// writer, matching the "buffered, flushed every 1000 rows and at end"
// contract.
const flushEvery = 1000

// OutputRow is the root operator: it drains its upstream and writes
// the textual result format -- comma-separated fields, one row per
// line, STRING values single-quoted, NULL written literally -- to w.
type OutputRow struct {
	w      *bufio.Writer
	header bool

	input Operator
}

// NewOutputRow constructs an OutputRow writing to w. If header is
// true, a "#col0,col1,..." line is written before the first row.
func NewOutputRow(w io.Writer, header bool) *OutputRow {
	return &OutputRow{w: bufio.NewWriter(w), header: header}
}

// Connect implements Operator.
func (o *OutputRow) Connect(input Operator) (bool, error) {
	if o.input != nil {
		return false, ErrNoMoreInputs
	}
	o.input = input
	return true, nil
}

// GetNextRow implements Operator: OutputRow is a root and does not
// itself produce rows for a further consumer to pull. Callers drive it
// through Process instead.
func (o *OutputRow) GetNextRow() ([]value.Value, error) { return nil, nil }

// ColumnInfos implements Operator.
func (o *OutputRow) ColumnInfos() block.Schema { return o.input.ColumnInfos() }

// Dump implements Operator.
func (o *OutputRow) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "OutputRowOperator", "")
	o.input.Dump(w, depth+1)
}

// Process implements RootOperator: drains the upstream to exhaustion,
// writing each row, and returns the number of rows emitted.
func (o *OutputRow) Process() (int64, error) {
	if o.header {
		if err := o.writeHeader(); err != nil {
			return 0, err
		}
	}
	var count int64
	for {
		row, err := o.input.GetNextRow()
		if err != nil {
			return count, err
		}
		if row == nil {
			break
		}
		if err := o.writeRow(row); err != nil {
			return count, err
		}
		count++
		if count%flushEvery == 0 {
			if err := o.w.Flush(); err != nil {
				return count, err
			}
		}
	}
	return count, o.w.Flush()
}

func (o *OutputRow) writeHeader() error {
	schema := o.input.ColumnInfos()
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	_, err := o.w.WriteString("#" + strings.Join(names, ",") + "\n")
	return err
}

func (o *OutputRow) writeRow(row []value.Value) error {
	for i, v := range row {
		if i > 0 {
			if err := o.w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := o.writeValue(v); err != nil {
			return err
		}
	}
	return o.w.WriteByte('\n')
}

func (o *OutputRow) writeValue(v value.Value) error {
	if v.IsNull() {
		_, err := o.w.WriteString("NULL")
		return err
	}
	if v.Kind() == value.String {
		_, err := o.w.WriteString("'" + v.Str() + "'")
		return err
	}
	_, err := o.w.WriteString(v.String())
	return err
}
