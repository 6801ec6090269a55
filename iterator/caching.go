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

// Caching additionally retains every consumed block in an ordered
// retention list and supports Rewind, resetting iteration to the
// first retained row. It is used as the right side of a cross join,
// where the rhs must be replayed once per lhs row. Memory is
// unbounded in the rhs size -- a deliberate tradeoff for an operator
// whose whole purpose is repeated replay, not a bug.
type Caching struct {
	mgr       *block.Manager
	src       block.Provider
	retained  []*block.Block
	blockIdx  int
	rowIdx    int
	exhausted bool
}

// NewCaching constructs a Caching iterator over src.
func NewCaching(mgr *block.Manager, src block.Provider) *Caching {
	return &Caching{mgr: mgr, src: src}
}

// GetNextRow implements RowIterator.
func (c *Caching) GetNextRow() ([]value.Value, error) {
	for {
		if c.blockIdx < len(c.retained) {
			b := c.retained[c.blockIdx]
			if c.rowIdx < b.RowCount() {
				row := b.Row(c.rowIdx)
				c.rowIdx++
				return row, nil
			}
			c.blockIdx++
			c.rowIdx = 0
			continue
		}
		if c.exhausted {
			return nil, nil
		}
		next, err := c.src.GetNextBlock()
		if err != nil {
			return nil, err
		}
		if next == nil {
			c.exhausted = true
			continue
		}
		c.retained = append(c.retained, next)
	}
}

// Rewind resets iteration to the first retained row without releasing
// any retained block, so a subsequent full scan replays the same
// rows. It is a no-op with respect to blocks still pending from the
// underlying Provider -- those are appended to the retention list the
// first time GetNextRow reaches past the previously retained tail.
func (c *Caching) Rewind() {
	c.blockIdx = 0
	c.rowIdx = 0
}

// Close releases every retained block back to the Manager. Callers
// must not use the iterator, nor hold any Row obtained from it, after
// calling Close.
func (c *Caching) Close() {
	for _, b := range c.retained {
		c.mgr.Release(b)
	}
	c.retained = nil
}
