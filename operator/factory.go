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
	"github.com/csvsqldb/csvsqldb/eval"
)

// Factory builds operators bound to one Context, mirroring the
// constructor-style functions above rather than a monolithic switch.
// A planner (outside this package's scope) calls one method per plan
// node and wires the results together with Connect.
type Factory struct {
	ctx *Context
}

// NewFactory returns a Factory for ctx.
func NewFactory(ctx *Context) *Factory { return &Factory{ctx: ctx} }

// Scan builds a Scan reading tableName from src with the given output
// schema.
func (f *Factory) Scan(tableName string, schema block.Schema, src block.Provider) *Scan {
	return NewScan(f.ctx, tableName, schema, src)
}

// SystemScan builds a SystemScan over one of the catalog's built-in
// tables, looked up by name.
func (f *Factory) SystemScan(tableName string) (*SystemScan, error) {
	table, err := f.ctx.Catalog.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	if !table.System {
		return nil, fmt.Errorf("operator: %s is not a system table", tableName)
	}
	return NewSystemScan(f.ctx, table)
}

// Select builds a Select filtering on predicate.
func (f *Factory) Select(predicate []eval.Instruction, bindings []VarBinding) *Select {
	return NewSelect(f.ctx, predicate, bindings)
}

// Project builds a Project computing columns.
func (f *Factory) Project(columns []ProjectionColumn) *Project {
	return NewProject(f.ctx, columns)
}

// Limit builds a Limit with the given bounds.
func (f *Factory) Limit(limit, offset int64) *Limit {
	return NewLimit(limit, offset)
}

// Sort builds a Sort ordering by keys.
func (f *Factory) Sort(keys []SortKey) *Sort {
	return NewSort(keys)
}

// Union builds an empty Union awaiting two Connect calls.
func (f *Factory) Union() *Union {
	return NewUnion()
}

// CrossJoin builds an empty CrossJoin awaiting two Connect calls.
func (f *Factory) CrossJoin() *CrossJoin {
	return NewCrossJoin(f.ctx)
}

// InnerJoin builds an InnerJoin filtering the cross product by predicate.
func (f *Factory) InnerJoin(predicate []eval.Instruction, bindings []VarBinding) *InnerJoin {
	return NewInnerJoin(f.ctx, predicate, bindings)
}

// InnerHashJoin builds an InnerHashJoin equating lhsColumn with rhsColumn.
func (f *Factory) InnerHashJoin(lhsColumn, rhsColumn string) *InnerHashJoin {
	return NewInnerHashJoin(f.ctx, lhsColumn, rhsColumn)
}

// Grouping builds a GroupingOperatorNode (GROUP BY).
func (f *Factory) Grouping(groupColumns []string, aggs []AggColumn) *GroupingOperatorNode {
	return NewGrouping(f.ctx, groupColumns, aggs)
}

// Aggregation builds an AggregationOperatorNode (no GROUP BY).
func (f *Factory) Aggregation(aggs []AggColumn) *AggregationOperatorNode {
	return NewAggregation(f.ctx, aggs)
}

// OutputRow builds the root OutputRow operator writing to w.
func (f *Factory) OutputRow(w io.Writer, header bool) *OutputRow {
	return NewOutputRow(w, header)
}
