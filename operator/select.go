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

// Select wraps a compiled predicate and filters its upstream's rows.
type Select struct {
	ctx        *Context
	predicate  []eval.Instruction
	bindings   []VarBinding
	input      Operator
	machine    *eval.StackMachine
	store      *eval.VariableStore
	mapping    *eval.VariableMapping
}

// NewSelect constructs a Select filtering on predicate, which
// references its upstream's columns through bindings.
func NewSelect(ctx *Context, predicate []eval.Instruction, bindings []VarBinding) *Select {
	return &Select{
		ctx:       ctx,
		predicate: predicate,
		bindings:  bindings,
		machine:   eval.NewStackMachine(predicate),
		store:     eval.NewVariableStore(),
	}
}

// Connect implements Operator: attaches the single upstream and
// resolves the predicate's variable bindings against its schema.
func (s *Select) Connect(input Operator) (bool, error) {
	if s.input != nil {
		return false, ErrNoMoreInputs
	}
	mapping, err := buildVariableMapping(input.ColumnInfos(), s.bindings)
	if err != nil {
		return false, err
	}
	s.input = input
	s.mapping = mapping
	return true, nil
}

// GetNextRow implements Operator, emitting upstream rows for which
// the predicate evaluates to true (NULL and false are both excluded).
func (s *Select) GetNextRow() ([]value.Value, error) {
	for {
		row, err := s.input.GetNextRow()
		if err != nil || row == nil {
			return nil, err
		}
		s.mapping.Refill(s.store, row)
		result, err := s.machine.Evaluate(s.store, s.ctx.Functions)
		if err != nil {
			return nil, err
		}
		if !result.IsNull() && result.Kind() == value.Bool && result.Bool() {
			return row, nil
		}
	}
}

// ColumnInfos implements Operator: Select passes its input's schema
// through unchanged.
func (s *Select) ColumnInfos() block.Schema { return s.input.ColumnInfos() }

// Dump implements Operator.
func (s *Select) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "SelectOperator", "")
	s.input.Dump(w, depth+1)
}
