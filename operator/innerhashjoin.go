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

// InnerHashJoin implements a single-column equi-join: the compiler is
// expected to have identified exactly one predicate variable resolving
// into each side (a multi-predicate join falls back to InnerJoin). The
// rhs is wrapped in a Hashing iterator keyed on rhsColumn; for each lhs
// row the operator positions the hashing context on the lhs key value
// and streams matching rhs rows before advancing lhs. NULL keys never
// match.
type InnerHashJoin struct {
	ctx                  *Context
	lhsColumn, rhsColumn string

	lhs, rhs  Operator
	lhsIndex  int
	hashIter  *iterator.Hashing
	schema    block.Schema

	curLHS []value.Value
}

// NewInnerHashJoin constructs an InnerHashJoin equating lhsColumn
// (resolved against the lhs schema) with rhsColumn (resolved against
// the rhs schema).
func NewInnerHashJoin(ctx *Context, lhsColumn, rhsColumn string) *InnerHashJoin {
	return &InnerHashJoin{ctx: ctx, lhsColumn: lhsColumn, rhsColumn: rhsColumn}
}

// Connect implements Operator: the first call attaches lhs and
// returns false to request rhs.
func (j *InnerHashJoin) Connect(input Operator) (bool, error) {
	switch {
	case j.lhs == nil:
		idx := input.ColumnInfos().IndexOf(j.lhsColumn)
		if idx < 0 {
			return false, errUnresolvedColumn(j.lhsColumn)
		}
		j.lhs = input
		j.lhsIndex = idx
		return false, nil
	case j.rhs == nil:
		rhsSchema := input.ColumnInfos()
		rhsIdx := rhsSchema.IndexOf(j.rhsColumn)
		if rhsIdx < 0 {
			return false, errUnresolvedColumn(j.rhsColumn)
		}
		j.rhs = input
		j.hashIter = iterator.NewHashing(j.ctx.Manager, newOperatorProvider(j.ctx, input), rhsIdx)
		j.schema = block.Concat(j.lhs.ColumnInfos(), rhsSchema)
		return true, nil
	default:
		return false, ErrNoMoreInputs
	}
}

// GetNextRow implements Operator.
func (j *InnerHashJoin) GetNextRow() ([]value.Value, error) {
	for {
		if j.curLHS == nil {
			row, err := j.lhs.GetNextRow()
			if err != nil || row == nil {
				return nil, err
			}
			j.curLHS = row
			if err := j.hashIter.SetContextForKeyValue(row[j.lhsIndex]); err != nil {
				return nil, err
			}
		}
		rhsRow, err := j.hashIter.GetNextKeyValueRow()
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
func (j *InnerHashJoin) ColumnInfos() block.Schema { return j.schema }

// Dump implements Operator.
func (j *InnerHashJoin) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "InnerHashJoinOperator", j.lhsColumn+"="+j.rhsColumn)
	j.lhs.Dump(w, depth+1)
	j.rhs.Dump(w, depth+1)
}
