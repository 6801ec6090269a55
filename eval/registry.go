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

package eval

import (
	"fmt"

	"github.com/csvsqldb/csvsqldb/value"
)

// Function is one scalar function entry: a fixed arity and the call
// that computes its result.
type Function struct {
	Name  string
	Arity int
	Call  func(args []value.Value) (value.Value, error)
}

// FunctionRegistry resolves a FUNC instruction's name to a callable.
// It holds no state beyond the name->Function map, so one registry is
// shared by every StackMachine in a query execution.
type FunctionRegistry struct {
	funcs map[string]Function
}

// NewFunctionRegistry returns an empty registry. Callers typically
// register UPPER, LOWER, LENGTH, SUBSTR, COALESCE, and similar scalar
// builtins immediately after construction.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: make(map[string]Function)}
}

// Register adds or replaces the function named name.
func (r *FunctionRegistry) Register(name string, arity int, call func(args []value.Value) (value.Value, error)) {
	r.funcs[name] = Function{Name: name, Arity: arity, Call: call}
}

// Lookup resolves name to its Function, or ok=false if unregistered.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// List returns every registered function, in no particular order.
// SYSTEM_FUNCTIONS scans use this to materialise its rows.
func (r *FunctionRegistry) List() []Function {
	out := make([]Function, 0, len(r.funcs))
	for _, f := range r.funcs {
		out = append(out, f)
	}
	return out
}

// ErrUnknownFunction-style errors are constructed at the call site so
// the offending name is included without a package-level sentinel.
func errUnknownFunction(name string) error {
	return fmt.Errorf("eval: unknown function %q", name)
}
