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

package block

// Provider is a source of Blocks. GetNextBlock returns the next block
// in the stream; once the terminal block (IsEndOfStream() == true) has
// been returned, every subsequent call returns (nil, nil). Providers
// are single-consumer: at most one goroutine may call GetNextBlock on
// a given Provider at a time.
type Provider interface {
	GetNextBlock() (*Block, error)
}

// SliceProvider is the simplest possible Provider: it replays a fixed
// slice of pre-built blocks. Tests use it to drive iterators without
// standing up a Scan or a Producer.
type SliceProvider struct {
	blocks []*Block
	pos    int
	done   bool
}

// NewSliceProvider wraps blocks as a Provider. The last block in
// blocks should have EndBlocks already called on it; if none does,
// NewSliceProvider marks the last one itself.
func NewSliceProvider(blocks []*Block) *SliceProvider {
	if len(blocks) > 0 {
		anyTerminal := false
		for _, b := range blocks {
			if b.IsEndOfStream() {
				anyTerminal = true
				break
			}
		}
		if !anyTerminal {
			blocks[len(blocks)-1].EndBlocks()
		}
	}
	return &SliceProvider{blocks: blocks}
}

// GetNextBlock implements Provider.
func (p *SliceProvider) GetNextBlock() (*Block, error) {
	if p.done || p.pos >= len(p.blocks) {
		p.done = true
		return nil, nil
	}
	b := p.blocks[p.pos]
	p.pos++
	if b.IsEndOfStream() {
		p.done = true
	}
	return b, nil
}
