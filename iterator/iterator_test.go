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
	"testing"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

func buildInts(t *testing.T, mgr *block.Manager, vals []int64) *block.SliceProvider {
	t.Helper()
	b := mgr.CreateBlock()
	for _, v := range vals {
		if !b.AddInt(v, false) {
			t.Fatalf("unexpected overflow")
		}
		b.NextRow()
	}
	b.EndBlocks()
	return block.NewSliceProvider([]*block.Block{b})
}

func TestPlainPreservesOrder(t *testing.T) {
	mgr := block.NewManager(block.DefaultCapacityBytes)
	p := NewPlain(mgr, buildInts(t, mgr, []int64{0, 1, 2, 3}))
	for i := int64(0); i < 4; i++ {
		row, err := p.GetNextRow()
		if err != nil || row == nil {
			t.Fatalf("unexpected end at %d: err=%v", i, err)
		}
		if row[0].Int() != i {
			t.Fatalf("expected %d, got %d", i, row[0].Int())
		}
	}
	row, err := p.GetNextRow()
	if err != nil || row != nil {
		t.Fatalf("expected end of stream, got %v err=%v", row, err)
	}
}

func TestCachingRewind(t *testing.T) {
	mgr := block.NewManager(block.DefaultCapacityBytes)
	c := NewCaching(mgr, buildInts(t, mgr, []int64{10, 20}))

	// drain once
	var first []int64
	for {
		row, err := c.GetNextRow()
		if err != nil {
			t.Fatal(err)
		}
		if row == nil {
			break
		}
		first = append(first, row[0].Int())
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first))
	}

	c.Rewind()
	var second []int64
	for {
		row, err := c.GetNextRow()
		if err != nil {
			t.Fatal(err)
		}
		if row == nil {
			break
		}
		second = append(second, row[0].Int())
	}
	if len(second) != 2 || second[0] != 10 || second[1] != 20 {
		t.Fatalf("rewind did not replay identical rows: %v", second)
	}
}

func TestHashingBucketsAndNullNeverMatches(t *testing.T) {
	mgr := block.NewManager(block.DefaultCapacityBytes)
	b := mgr.CreateBlock()
	rows := []struct {
		key   int64
		isKeyNull bool
		payload string
	}{
		{1, false, "a"},
		{2, false, "b"},
		{1, false, "c"},
	}
	for _, r := range rows {
		b.AddInt(r.key, r.isKeyNull)
		b.AddString(r.payload, false)
		b.NextRow()
	}
	b.EndBlocks()
	src := block.NewSliceProvider([]*block.Block{b})

	h := NewHashing(mgr, src, 0)
	if err := h.SetContextForKeyValue(value.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	var got []string
	for {
		row, err := h.GetNextKeyValueRow()
		if err != nil {
			t.Fatal(err)
		}
		if row == nil {
			break
		}
		got = append(got, row[1].Str())
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected bucket [a c], got %v", got)
	}

	if err := h.SetContextForKeyValue(value.Null(value.Int)); err != nil {
		t.Fatal(err)
	}
	row, err := h.GetNextKeyValueRow()
	if err != nil || row != nil {
		t.Fatalf("NULL key must never match, got %v err=%v", row, err)
	}
}

type countAgg struct {
	n int64
}

func (c *countAgg) Init()                       { c.n = 0 }
func (c *countAgg) Step(v value.Value) error    { c.n++; return nil }
func (c *countAgg) Finalize() (value.Value, error) { return value.NewInt(c.n), nil }
func (c *countAgg) Suppress() bool              { return false }

func TestGroupingFirstObservationOrder(t *testing.T) {
	mgr := block.NewManager(block.DefaultCapacityBytes)
	b := mgr.CreateBlock()
	for _, k := range []string{"b", "a", "b", "a", "c"} {
		b.AddString(k, false)
		b.NextRow()
	}
	b.EndBlocks()
	src := block.NewSliceProvider([]*block.Block{b})

	g := NewGrouping(mgr, src, []int{0}, []AggSpec{
		{InputIndex: 0, New: func() Aggregator { return &countAgg{} }},
	})

	var keys []string
	var counts []int64
	for {
		row, err := g.GetNextRow()
		if err != nil {
			t.Fatal(err)
		}
		if row == nil {
			break
		}
		keys = append(keys, row[0].Str())
		counts = append(counts, row[1].Int())
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(keys))
	}
	if keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Fatalf("groups must appear in first-observation order, got %v", keys)
	}
	if counts[0] != 2 || counts[1] != 2 || counts[2] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
