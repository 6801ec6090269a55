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

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// Limit discards the first Offset rows from its upstream, then emits
// up to Limit rows, then returns nil forever. Both bounds are fixed at
// construction -- the expressions that produce them (possibly
// parameterised) are evaluated once by the caller, not per row.
type Limit struct {
	limit  int64
	offset int64

	input   Operator
	skipped int64
	emitted int64
}

// NewLimit constructs a Limit with the given bounds.
func NewLimit(limit, offset int64) *Limit {
	return &Limit{limit: limit, offset: offset}
}

// Connect implements Operator.
func (l *Limit) Connect(input Operator) (bool, error) {
	if l.input != nil {
		return false, ErrNoMoreInputs
	}
	l.input = input
	return true, nil
}

// GetNextRow implements Operator.
func (l *Limit) GetNextRow() ([]value.Value, error) {
	if l.emitted >= l.limit {
		return nil, nil
	}
	for l.skipped < l.offset {
		row, err := l.input.GetNextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		l.skipped++
	}
	row, err := l.input.GetNextRow()
	if err != nil || row == nil {
		return nil, err
	}
	l.emitted++
	return row, nil
}

// ColumnInfos implements Operator.
func (l *Limit) ColumnInfos() block.Schema { return l.input.ColumnInfos() }

// Dump implements Operator.
func (l *Limit) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "LimitOperator", fmt.Sprintf("%d,%d", l.limit, l.offset))
	l.input.Dump(w, depth+1)
}
