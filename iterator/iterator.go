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

// Package iterator implements the BlockIterator family: row-at-a-time
// consumers of a block.Provider that differ in their buffering and
// replay semantics (plain, caching/rewindable, hashing, grouping).
package iterator

import "github.com/csvsqldb/csvsqldb/value"

// RowIterator is the uniform interface every variant in this package
// satisfies. GetNextRow returns nil, nil at end of stream; the
// returned slice is only valid until the next call to GetNextRow on
// the same iterator.
type RowIterator interface {
	GetNextRow() ([]value.Value, error)
}

// Aggregator is the step/finalize contract aggregation functions
// implement. It is declared here, rather than imported from the
// aggregate package, so that GroupingBlockIterator has no
// compile-time dependency on any concrete aggregate implementation --
// package aggregate's types satisfy this interface structurally.
type Aggregator interface {
	// Init (re)initializes the aggregator to its identity state, so a
	// single instance can be reused across groups if the caller
	// chooses to Init instead of allocating a fresh one per group.
	Init()
	// Step folds one input value into the aggregator's running state.
	Step(v value.Value) error
	// Finalize returns the aggregate's result. It may be called more
	// than once; it must not mutate observable state.
	Finalize() (value.Value, error)
	// Suppress reports whether the output row should omit this
	// column entirely (used by GROUP BY pass-through helpers).
	Suppress() bool
}
