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

package iterator

import (
	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// AggSpec binds one output aggregate column to the source-row column
// that supplies its argument and to a factory for a fresh Aggregator
// instance. InputIndex is -1 for COUNT(*), which ignores its input.
type AggSpec struct {
	InputIndex int
	New        func() Aggregator
}

type groupEntry struct {
	key  []value.Value
	aggs []Aggregator
}

// Grouping eagerly drains its source, partitioning rows by a
// composite key formed from the values at GroupColumns. For each
// group it runs a cloned set of aggregation functions (one clone per
// group, per AggSpec) on the configured input columns, then emits
// exactly one output row per group -- group-key columns followed by
// finalized aggregate columns -- in the order groups were first
// observed. NULL is treated as equal to NULL when forming group keys,
// a deliberate choice: SQL's DISTINCT and GROUP BY put all NULLs in one
// group rather than following three-valued EQ logic.
type Grouping struct {
	mgr          *block.Manager
	src          block.Provider
	groupColumns []int
	aggSpecs     []AggSpec

	drained bool
	index   map[uint64][]*groupEntry
	order   []*groupEntry
	pos     int
}

// NewGrouping constructs a Grouping iterator over src, grouping by
// groupColumns and computing aggSpecs per group.
func NewGrouping(mgr *block.Manager, src block.Provider, groupColumns []int, aggSpecs []AggSpec) *Grouping {
	return &Grouping{
		mgr:          mgr,
		src:          src,
		groupColumns: groupColumns,
		aggSpecs:     aggSpecs,
		index:        make(map[uint64][]*groupEntry),
	}
}

func (g *Grouping) keyOf(row []value.Value) []value.Value {
	key := make([]value.Value, len(g.groupColumns))
	for i, ci := range g.groupColumns {
		key[i] = row[ci]
	}
	return key
}

func keysEqual(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (g *Grouping) drain() error {
	if g.drained {
		return nil
	}
	g.drained = true

	plain := NewPlain(g.mgr, g.src)
	for {
		row, err := plain.GetNextRow()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		key := g.keyOf(row)
		hv := value.HashValues(key)
		var entry *groupEntry
		for _, cand := range g.index[hv] {
			if keysEqual(cand.key, key) {
				entry = cand
				break
			}
		}
		if entry == nil {
			entry = &groupEntry{key: key, aggs: make([]Aggregator, len(g.aggSpecs))}
			for i, spec := range g.aggSpecs {
				entry.aggs[i] = spec.New()
				entry.aggs[i].Init()
			}
			g.index[hv] = append(g.index[hv], entry)
			g.order = append(g.order, entry)
		}
		for i, spec := range g.aggSpecs {
			var arg value.Value
			if spec.InputIndex >= 0 {
				arg = row[spec.InputIndex]
			}
			if err := entry.aggs[i].Step(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetNextRow implements RowIterator, emitting group-key columns
// followed by non-suppressed finalized aggregate columns.
func (g *Grouping) GetNextRow() ([]value.Value, error) {
	if err := g.drain(); err != nil {
		return nil, err
	}
	if g.pos >= len(g.order) {
		return nil, nil
	}
	entry := g.order[g.pos]
	g.pos++

	out := make([]value.Value, 0, len(entry.key)+len(entry.aggs))
	out = append(out, entry.key...)
	for _, agg := range entry.aggs {
		if agg.Suppress() {
			continue
		}
		v, err := agg.Finalize()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
