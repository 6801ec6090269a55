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

// Package operator implements the physical operator algebra: pull-
// iterator plan nodes (Scan, SystemScan, Select, Project, Limit, Sort,
// Union, CrossJoin, InnerJoin, InnerHashJoin, Grouping, Aggregation,
// OutputRow) plus their constructor-style factory.
package operator

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/value"
)

// Context bundles the collaborators every operator constructor needs:
// the catalog handle, the function registry, and the block manager
// for a single query execution. It carries no per-operator state and
// is shared, read-only after construction, across the whole plan
// tree -- no operator holds state shared with a sibling.
type Context struct {
	Catalog     *catalog.Catalog
	Functions   *eval.FunctionRegistry
	Manager     *block.Manager
	ExecutionID uuid.UUID

	// Trace, when non-nil, receives low-volume diagnostic messages
	// (currently only from the internal row-to-block adapter) the way
	// the teacher's vm.Errorf hook does. Nil is a valid, silent default.
	Trace func(format string, args ...any)
}

func (c *Context) tracef(format string, args ...any) {
	if c != nil && c.Trace != nil {
		c.Trace(format, args...)
	}
}

// NewContext returns a Context with a fresh ExecutionID.
func NewContext(cat *catalog.Catalog, funcs *eval.FunctionRegistry, mgr *block.Manager) *Context {
	return &Context{
		Catalog:     cat,
		Functions:   funcs,
		Manager:     mgr,
		ExecutionID: uuid.New(),
	}
}

// Operator is the contract every physical plan node implements.
type Operator interface {
	// Connect attaches an upstream input. It returns false when the
	// operator still expects another input (binary operators return
	// false after their first Connect call); it returns an error if
	// called more times than the operator has inputs for, or if a
	// referenced column/variable cannot be resolved against the
	// attached input's schema.
	Connect(input Operator) (bool, error)
	// GetNextRow pulls the next output row, or (nil, nil) at end of
	// stream. The returned slice is valid only until the next call.
	GetNextRow() ([]value.Value, error)
	// ColumnInfos reports the operator's output schema.
	ColumnInfos() block.Schema
	// Dump writes a textual EXPLAIN fragment for this operator and,
	// recursively, its children, indenting nested operators by depth.
	Dump(w io.Writer, depth int)
}

// RootOperator additionally drives the whole plan to completion,
// returning the number of rows emitted (OutputRow is the only
// implementation in this package).
type RootOperator interface {
	Operator
	Process() (int64, error)
}

func dumpLine(w io.Writer, depth int, name, args string) {
	fmt.Fprintf(w, "%s%s(%s)\n", strings.Repeat("-->", depth), name, args)
}
