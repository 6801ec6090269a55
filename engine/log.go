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

// Package engine wires a Config, a catalog, and the operator package
// into a runnable query execution: it is the thin composition root an
// embedder links against, not a SQL compiler.
package engine

// Trace is a global diagnostic hook, nil (no-op) by default. An
// embedder that wants execution tracing sets it during init;
// NewExecution routes every operator.Context's Trace through it. The
// only messages currently come from the operator package's internal
// row-to-block adapter.
var Trace func(format string, args ...any)

func tracef(format string, args ...any) {
	if Trace != nil {
		Trace(format, args...)
	}
}
