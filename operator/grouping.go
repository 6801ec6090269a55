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
	"strings"

	"github.com/csvsqldb/csvsqldb/aggregate"
	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/iterator"
	"github.com/csvsqldb/csvsqldb/value"
)

// AggColumn names one aggregate output column: its aggregation
// function, the upstream column supplying its argument (ignored for
// COUNT(*)), the column's declared result type, and whether it should
// be suppressed from the emitted row (a PASSTHROUGH helper used to
// functionally-dependent group-by projections).
type AggColumn struct {
	Name      string
	Kind      aggregate.Kind
	ArgColumn string
	ColType   value.Kind
	Suppress  bool
}

// groupingBase is the machinery shared by GroupingOperatorNode
// (GROUP BY) and AggregationOperatorNode (no grouping): both delegate
// to iterator.Grouping, which partitions by a (possibly empty)
// composite key and clones a set of aggregation functions per group.
type groupingBase struct {
	ctx          *Context
	groupColumns []string
	aggs         []AggColumn

	input  Operator
	schema block.Schema
	rows   *iterator.Grouping
}

func (g *groupingBase) connect(input Operator) error {
	upstream := input.ColumnInfos()

	groupIndexes := make([]int, len(g.groupColumns))
	schema := make(block.Schema, 0, len(g.groupColumns)+len(g.aggs))
	for i, name := range g.groupColumns {
		idx := upstream.IndexOf(name)
		if idx < 0 {
			return errUnresolvedColumn(name)
		}
		groupIndexes[i] = idx
		schema = append(schema, upstream[idx])
	}

	specs := make([]iterator.AggSpec, len(g.aggs))
	for i, col := range g.aggs {
		argIndex := -1
		if col.Kind != aggregate.CountStar {
			argIndex = upstream.IndexOf(col.ArgColumn)
			if argIndex < 0 {
				return errUnresolvedColumn(col.ArgColumn)
			}
		} else if col.ArgColumn != "" {
			return fmt.Errorf("operator: COUNT(*) takes no argument, got %q", col.ArgColumn)
		}
		// NewFunction type-checks kind against ColType; call it once here
		// so a bad pairing fails at connect time, not on the first row.
		if _, err := aggregate.NewFunction(col.Kind, col.ColType); err != nil {
			return err
		}
		kind, argColType := col.Kind, col.ColType
		specs[i] = iterator.AggSpec{
			InputIndex: argIndex,
			New: func() iterator.Aggregator {
				agg, _ := aggregate.NewFunction(kind, argColType)
				return agg
			},
		}
		if !col.Suppress {
			schema = append(schema, block.SymbolInfo{Name: col.Name, QualifiedName: col.Name, Type: col.ColType})
		}
	}

	g.input = input
	g.schema = schema
	g.rows = iterator.NewGrouping(g.ctx.Manager, newOperatorProvider(g.ctx, input), groupIndexes, specs)
	return nil
}

func (g *groupingBase) getNextRow() ([]value.Value, error) {
	row, err := g.rows.GetNextRow()
	if err != nil || row == nil {
		return row, err
	}
	// drop suppressed aggregate columns so the row matches g.schema
	out := row[:len(g.groupColumns)]
	for i, col := range g.aggs {
		if !col.Suppress {
			out = append(out, row[len(g.groupColumns)+i])
		}
	}
	return out, nil
}

func (g *groupingBase) columnInfos() block.Schema { return g.schema }

func (g *groupingBase) dumpArgs() string {
	names := make([]string, len(g.aggs))
	for i, a := range g.aggs {
		names[i] = a.Kind.String()
	}
	return strings.Join(names, ",")
}

// GroupingOperatorNode implements GROUP BY: rows are partitioned by
// groupColumns and one row is emitted per group, in first-observation
// order, with group-key columns followed by finalized aggregate
// columns.
type GroupingOperatorNode struct {
	base groupingBase
}

// NewGrouping constructs a GroupingOperatorNode grouping by
// groupColumns and computing aggs per group.
func NewGrouping(ctx *Context, groupColumns []string, aggs []AggColumn) *GroupingOperatorNode {
	return &GroupingOperatorNode{base: groupingBase{ctx: ctx, groupColumns: groupColumns, aggs: aggs}}
}

// Connect implements Operator.
func (g *GroupingOperatorNode) Connect(input Operator) (bool, error) {
	if g.base.input != nil {
		return false, ErrNoMoreInputs
	}
	if err := g.base.connect(input); err != nil {
		return false, err
	}
	return true, nil
}

// GetNextRow implements Operator.
func (g *GroupingOperatorNode) GetNextRow() ([]value.Value, error) { return g.base.getNextRow() }

// ColumnInfos implements Operator.
func (g *GroupingOperatorNode) ColumnInfos() block.Schema { return g.base.columnInfos() }

// Dump implements Operator.
func (g *GroupingOperatorNode) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "GroupingOperator", g.base.dumpArgs())
	g.base.input.Dump(w, depth+1)
}

// AggregationOperatorNode implements a query-wide aggregation with no
// GROUP BY: a degenerate GroupingOperatorNode whose group-column list
// is empty, so the whole input forms a single group.
type AggregationOperatorNode struct {
	base groupingBase
}

// NewAggregation constructs an AggregationOperatorNode computing aggs
// over its entire input.
func NewAggregation(ctx *Context, aggs []AggColumn) *AggregationOperatorNode {
	return &AggregationOperatorNode{base: groupingBase{ctx: ctx, aggs: aggs}}
}

// Connect implements Operator.
func (a *AggregationOperatorNode) Connect(input Operator) (bool, error) {
	if a.base.input != nil {
		return false, ErrNoMoreInputs
	}
	if err := a.base.connect(input); err != nil {
		return false, err
	}
	return true, nil
}

// GetNextRow implements Operator.
func (a *AggregationOperatorNode) GetNextRow() ([]value.Value, error) { return a.base.getNextRow() }

// ColumnInfos implements Operator.
func (a *AggregationOperatorNode) ColumnInfos() block.Schema { return a.base.columnInfos() }

// Dump implements Operator.
func (a *AggregationOperatorNode) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "AggregationOperator", a.base.dumpArgs())
	a.base.input.Dump(w, depth+1)
}
