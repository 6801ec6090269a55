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

type hashRowRef struct {
	block *block.Block
	idx   int
}

type hashBucket struct {
	key  value.Value
	rows []hashRowRef
}

// Hashing eagerly drains its source on first access, partitioning
// rows into buckets keyed by the value at a configured key-column
// index. SetContextForKeyValue positions iteration over the matching
// bucket; GetNextKeyValueRow yields the next row in that bucket (or
// nil when exhausted). Bucketing uses value.Value.Hash, consistent
// with Equal, but SetContextForKeyValue special-cases a NULL probe key
// to match nothing, so InnerHashJoin never pairs a NULL on one side
// with a NULL on the other.
type Hashing struct {
	mgr      *block.Manager
	src      block.Provider
	keyIndex int

	retained []*block.Block
	drained  bool
	buckets  map[uint64][]*hashBucket

	ctxBucket *hashBucket
	ctxPos    int
}

// NewHashing constructs a Hashing iterator over src, keyed on the
// value at keyIndex within each row.
func NewHashing(mgr *block.Manager, src block.Provider, keyIndex int) *Hashing {
	return &Hashing{
		mgr:      mgr,
		src:      src,
		keyIndex: keyIndex,
		buckets:  make(map[uint64][]*hashBucket),
	}
}

func (h *Hashing) drain() error {
	if h.drained {
		return nil
	}
	h.drained = true
	for {
		b, err := h.src.GetNextBlock()
		if err != nil {
			return err
		}
		if b == nil {
			return nil
		}
		h.retained = append(h.retained, b)
		for i := 0; i < b.RowCount(); i++ {
			row := b.Row(i)
			key := row[h.keyIndex]
			hv := key.Hash()
			var target *hashBucket
			for _, cand := range h.buckets[hv] {
				if cand.key.Equal(key) {
					target = cand
					break
				}
			}
			if target == nil {
				target = &hashBucket{key: key}
				h.buckets[hv] = append(h.buckets[hv], target)
			}
			target.rows = append(target.rows, hashRowRef{block: b, idx: i})
		}
	}
}

// SetContextForKeyValue positions iteration over the bucket matching
// key, or over an empty context if no rows share that key.
func (h *Hashing) SetContextForKeyValue(key value.Value) error {
	if err := h.drain(); err != nil {
		return err
	}
	h.ctxBucket = nil
	h.ctxPos = 0
	if key.IsNull() {
		// NULL keys never match, even another NULL.
		return nil
	}
	for _, cand := range h.buckets[key.Hash()] {
		if cand.key.Equal(key) {
			h.ctxBucket = cand
			break
		}
	}
	return nil
}

// GetNextKeyValueRow yields the next row of the bucket positioned by
// SetContextForKeyValue, or nil when that bucket is exhausted.
func (h *Hashing) GetNextKeyValueRow() ([]value.Value, error) {
	if h.ctxBucket == nil || h.ctxPos >= len(h.ctxBucket.rows) {
		return nil, nil
	}
	ref := h.ctxBucket.rows[h.ctxPos]
	h.ctxPos++
	return ref.block.Row(ref.idx), nil
}

// Reset releases all retained blocks and clears every bucket. A
// Hashing iterator may not be reused after Reset.
func (h *Hashing) Reset() {
	for _, b := range h.retained {
		h.mgr.Release(b)
	}
	h.retained = nil
	h.buckets = make(map[uint64][]*hashBucket)
	h.ctxBucket = nil
	h.ctxPos = 0
}
