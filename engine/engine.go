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

package engine

import (
	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/eval"
	"github.com/csvsqldb/csvsqldb/operator"
)

// Engine is the composition root: one catalog, one function registry,
// and the Config a caller built it from. Operator trees for
// individual queries are built against NewExecution's Context and
// Factory, and may run concurrently against the same Engine -- the
// catalog and function registry are read-only once constructed.
type Engine struct {
	cfg       Config
	catalog   *catalog.Catalog
	functions *eval.FunctionRegistry
}

// New constructs an Engine. If cat is nil, a fresh catalog.New() is
// used; it always carries the built-in system tables, and
// cfg.EnableSystemTables is not consulted.
// If funcs is nil, a fresh eval.NewFunctionRegistry() is used.
func New(cfg Config, cat *catalog.Catalog, funcs *eval.FunctionRegistry) *Engine {
	if cat == nil {
		cat = catalog.New()
	}
	if funcs == nil {
		funcs = eval.NewFunctionRegistry()
	}
	return &Engine{cfg: cfg, catalog: cat, functions: funcs}
}

// Catalog returns the Engine's catalog, for registering user tables.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Functions returns the Engine's scalar function registry.
func (e *Engine) Functions() *eval.FunctionRegistry { return e.functions }

// Execution is one query's resources: a fresh block.Manager sized per
// Config, a fresh operator.Context carrying a new ExecutionID, and an
// operator.Factory bound to that Context. Each query execution gets
// its own Execution so concurrent queries never share a block pool.
type Execution struct {
	Context *operator.Context
	Factory *operator.Factory
	manager *block.Manager
}

// NewExecution starts one query execution against e's catalog and
// function registry.
func (e *Engine) NewExecution() *Execution {
	capacity := e.cfg.BlockCapacityBytes
	if capacity <= 0 {
		capacity = DefaultBlockCapacityBytes
	}
	mgr := block.NewManager(capacity)
	ctx := operator.NewContext(e.catalog, e.functions, mgr)
	ctx.Trace = tracef
	return &Execution{
		Context: ctx,
		Factory: operator.NewFactory(ctx),
		manager: mgr,
	}
}

// Run drives root to exhaustion, returning the row count it emitted.
// root is typically the operator.OutputRow at the top of a plan tree.
func Run(root operator.RootOperator) (int64, error) {
	return root.Process()
}
