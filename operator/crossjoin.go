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

// CrossJoin streams its lhs and, for each lhs row, replays its rhs
// from the beginning via a Caching iterator over an operatorProvider
// adapter. Output rows concatenate lhs columns followed by rhs
// columns; output schema is the lhs schema followed by the rhs
// schema.
type CrossJoin struct {
	ctx *Context

	lhs, rhs Operator
	rhsIter  *iterator.Caching
	schema   block.Schema

	curLHS   []value.Value
	started  bool
}

// NewCrossJoin constructs an empty CrossJoin awaiting two Connect calls.
func NewCrossJoin(ctx *Context) *CrossJoin { return &CrossJoin{ctx: ctx} }

// Connect implements Operator: the first call attaches lhs and
// returns false to request rhs.
func (j *CrossJoin) Connect(input Operator) (bool, error) {
	switch {
	case j.lhs == nil:
		j.lhs = input
		return false, nil
	case j.rhs == nil:
		j.rhs = input
		j.rhsIter = iterator.NewCaching(j.ctx.Manager, newOperatorProvider(j.ctx, input))
		j.schema = block.Concat(j.lhs.ColumnInfos(), j.rhs.ColumnInfos())
		return true, nil
	default:
		return false, ErrNoMoreInputs
	}
}

// GetNextRow implements Operator.
func (j *CrossJoin) GetNextRow() ([]value.Value, error) {
	for {
		if j.curLHS == nil {
			row, err := j.lhs.GetNextRow()
			if err != nil || row == nil {
				return nil, err
			}
			j.curLHS = row
			if j.started {
				j.rhsIter.Rewind()
			}
			j.started = true
		}
		rhsRow, err := j.rhsIter.GetNextRow()
		if err != nil {
			return nil, err
		}
		if rhsRow == nil {
			j.curLHS = nil
			continue
		}
		out := make([]value.Value, 0, len(j.curLHS)+len(rhsRow))
		out = append(out, j.curLHS...)
		out = append(out, rhsRow...)
		return out, nil
	}
}

// ColumnInfos implements Operator.
func (j *CrossJoin) ColumnInfos() block.Schema { return j.schema }

// Dump implements Operator.
func (j *CrossJoin) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "CrossJoinOperator", "")
	j.lhs.Dump(w, depth+1)
	j.rhs.Dump(w, depth+1)
}
