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

// Plain streams rows from a block.Provider. When the current block is
// exhausted it is released back to the Manager before the next block
// is pulled, bounding memory to one (or briefly two, while
// transitioning) live block -- this is the cheapest iterator and the
// one every operator uses unless it specifically needs replay or
// bucketing.
type Plain struct {
	mgr *block.Manager
	src block.Provider
	cur *block.Block
	idx int
}

// NewPlain constructs a Plain iterator over src, releasing consumed
// blocks back to mgr.
func NewPlain(mgr *block.Manager, src block.Provider) *Plain {
	return &Plain{mgr: mgr, src: src}
}

// GetNextRow implements RowIterator.
func (p *Plain) GetNextRow() ([]value.Value, error) {
	for {
		if p.cur != nil && p.idx < p.cur.RowCount() {
			row := p.cur.Row(p.idx)
			p.idx++
			return row, nil
		}
		if p.cur != nil {
			p.mgr.Release(p.cur)
			p.cur = nil
		}
		next, err := p.src.GetNextBlock()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		p.cur = next
		p.idx = 0
	}
}
