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
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// InnerJoin extends CrossJoin with a compiled join predicate, emitting
// only concatenated rows where it evaluates true. Predicate variables
// are resolved against the concatenated lhs++rhs schema once both
// sides have been attached.
type InnerJoin struct {
	cross     *CrossJoin
	ctx       *Context
	predicate []eval.Instruction
	bindings  []VarBinding

	machine *eval.StackMachine
	store   *eval.VariableStore
	mapping *eval.VariableMapping
}

// NewInnerJoin constructs an InnerJoin filtering the cross product by
// predicate.
func NewInnerJoin(ctx *Context, predicate []eval.Instruction, bindings []VarBinding) *InnerJoin {
	return &InnerJoin{
		cross:     NewCrossJoin(ctx),
		ctx:       ctx,
		predicate: predicate,
		bindings:  bindings,
		machine:   eval.NewStackMachine(predicate),
		store:     eval.NewVariableStore(),
	}
}

// Connect implements Operator, delegating to the embedded CrossJoin
// and, once both sides are attached, resolving the predicate against
// the concatenated schema.
func (j *InnerJoin) Connect(input Operator) (bool, error) {
	connected, err := j.cross.Connect(input)
	if err != nil {
		return false, err
	}
	if !connected {
		return false, nil
	}
	mapping, err := buildVariableMapping(j.cross.ColumnInfos(), j.bindings)
	if err != nil {
		return false, err
	}
	j.mapping = mapping
	return true, nil
}

// GetNextRow implements Operator: pulls concatenated rows from the
// embedded CrossJoin until the predicate evaluates true.
func (j *InnerJoin) GetNextRow() ([]value.Value, error) {
	for {
		row, err := j.cross.GetNextRow()
		if err != nil || row == nil {
			return nil, err
		}
		j.mapping.Refill(j.store, row)
		result, err := j.machine.Evaluate(j.store, j.ctx.Functions)
		if err != nil {
			return nil, err
		}
		if !result.IsNull() && result.Kind() == value.Bool && result.Bool() {
			return row, nil
		}
	}
}

// ColumnInfos implements Operator.
func (j *InnerJoin) ColumnInfos() block.Schema { return j.cross.ColumnInfos() }

// Dump implements Operator.
func (j *InnerJoin) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "InnerJoinOperator", "")
	j.cross.lhs.Dump(w, depth+1)
	j.cross.rhs.Dump(w, depth+1)
}
