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
	"golang.org/x/exp/slices"

	"github.com/csvsqldb/csvsqldb/value"
)

// VariableStore is the sparse slot-indexed binding table a compiled
// expression reads through PushVar. Slots are addressed by small
// integers assigned once at bind time (the compiler's job, not this
// package's); a map keeps the store cheap to allocate for expressions
// that only reference a handful of columns out of a wide row.
type VariableStore struct {
	slots map[int]value.Value
}

// NewVariableStore returns an empty VariableStore.
func NewVariableStore() *VariableStore {
	return &VariableStore{slots: make(map[int]value.Value)}
}

// Set binds slot to v.
func (s *VariableStore) Set(slot int, v value.Value) { s.slots[slot] = v }

// Get returns the value bound to slot, or ok=false if nothing has been
// bound there yet.
func (s *VariableStore) Get(slot int) (value.Value, bool) {
	v, ok := s.slots[slot]
	return v, ok
}

// VariableMapping binds a fixed set of slots to row-column positions,
// so the same mapping can refill a VariableStore once per row without
// re-resolving column names. Slots is kept in ascending order so
// Refill's iteration order is deterministic across runs.
type VariableMapping struct {
	Slots   []int
	Columns []int
}

// NewVariableMapping builds a VariableMapping from a slot->column
// binding, sorted by slot index.
func NewVariableMapping(bindings map[int]int) *VariableMapping {
	m := &VariableMapping{
		Slots:   make([]int, 0, len(bindings)),
		Columns: make([]int, 0, len(bindings)),
	}
	for slot := range bindings {
		m.Slots = append(m.Slots, slot)
	}
	slices.Sort(m.Slots)
	for _, slot := range m.Slots {
		m.Columns = append(m.Columns, bindings[slot])
	}
	return m
}

// Refill binds every slot in m to the corresponding column of row,
// overwriting whatever was previously bound in store. Operators reuse
// one VariableStore and one VariableMapping across every row they
// process instead of allocating fresh ones.
func (m *VariableMapping) Refill(store *VariableStore, row []value.Value) {
	for i, slot := range m.Slots {
		store.Set(slot, row[m.Columns[i]])
	}
}
