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
	"strings"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// ProjectionColumn is one output column of a Project: its declared
// name and type, the compiled expression that computes it, and the
// upstream columns that expression's variables are bound to. A
// straight pass-through column compiles to a single PUSHVAR.
type ProjectionColumn struct {
	Name     string
	Type     value.Kind
	Expr     []eval.Instruction
	Bindings []VarBinding
}

type compiledColumn struct {
	machine *eval.VariableMapping
	program *eval.StackMachine
}

// Project evaluates a fixed list of per-column expressions against
// each upstream row, producing a new row with the declared output
// schema (ExtendedProjection in the operator algebra). A pass-through
// column, whose Expr is a single PUSHVAR, is a degenerate case of the
// same mechanism.
type Project struct {
	ctx     *Context
	columns []ProjectionColumn
	input   Operator
	schema  block.Schema
	store   *eval.VariableStore
	compiled []compiledColumn
	out     []value.Value
}

// NewProject constructs a Project computing columns over its upstream.
func NewProject(ctx *Context, columns []ProjectionColumn) *Project {
	return &Project{
		ctx:     ctx,
		columns: columns,
		store:   eval.NewVariableStore(),
		out:     make([]value.Value, len(columns)),
	}
}

// Connect implements Operator: attaches the single upstream and
// resolves every column's variable bindings against its schema.
func (p *Project) Connect(input Operator) (bool, error) {
	if p.input != nil {
		return false, ErrNoMoreInputs
	}
	upstream := input.ColumnInfos()
	schema := make(block.Schema, len(p.columns))
	compiled := make([]compiledColumn, len(p.columns))
	for i, col := range p.columns {
		mapping, err := buildVariableMapping(upstream, col.Bindings)
		if err != nil {
			return false, err
		}
		compiled[i] = compiledColumn{machine: mapping, program: eval.NewStackMachine(col.Expr)}
		schema[i] = block.SymbolInfo{Name: col.Name, QualifiedName: col.Name, Type: col.Type}
	}
	p.input = input
	p.schema = schema
	p.compiled = compiled
	return true, nil
}

// GetNextRow implements Operator.
func (p *Project) GetNextRow() ([]value.Value, error) {
	row, err := p.input.GetNextRow()
	if err != nil || row == nil {
		return nil, err
	}
	for i, c := range p.compiled {
		c.machine.Refill(p.store, row)
		v, err := c.program.Evaluate(p.store, p.ctx.Functions)
		if err != nil {
			return nil, err
		}
		p.out[i] = v
	}
	return p.out, nil
}

// ColumnInfos implements Operator.
func (p *Project) ColumnInfos() block.Schema { return p.schema }

// Dump implements Operator.
func (p *Project) Dump(w io.Writer, depth int) {
	names := make([]string, len(p.columns))
	for i, c := range p.columns {
		names[i] = c.Name
	}
	dumpLine(w, depth, "ExtendedProjectionOperator", strings.Join(names, ","))
	p.input.Dump(w, depth+1)
}
