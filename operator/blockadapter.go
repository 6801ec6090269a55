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

package operator

import (
	"fmt"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// operatorProvider bridges an upstream Operator's pull-row interface
// into a block.Provider, so join operators can drive a
// iterator.Caching or iterator.Hashing over their right-hand input the
// same way a Scan drives one over a BlockProducer's output. A row that
// does not Fit in the block being filled is buffered as "pending" and
// retried as the first row of the next block -- it is never split
// across two blocks. A row that does not fit even in an empty block
// is an error.
type operatorProvider struct {
	ctx     *Context
	input   Operator
	pending []value.Value
	done    bool
}

func newOperatorProvider(ctx *Context, input Operator) *operatorProvider {
	return &operatorProvider{ctx: ctx, input: input}
}

// GetNextBlock implements block.Provider.
func (p *operatorProvider) GetNextBlock() (*block.Block, error) {
	if p.done && p.pending == nil {
		return nil, nil
	}
	b := p.ctx.Manager.CreateBlock()
	wroteAny := false
	for {
		row := p.pending
		p.pending = nil
		if row == nil {
			if p.done {
				break
			}
			var err error
			row, err = p.input.GetNextRow()
			if err != nil {
				return nil, err
			}
			if row == nil {
				p.done = true
				break
			}
		}
		if !b.Fits(row) {
			if !wroteAny {
				p.ctx.Manager.Release(b)
				return nil, fmt.Errorf("operator: row of %d columns does not fit in an empty block", len(row))
			}
			p.pending = row
			break
		}
		for _, v := range row {
			if !b.AddValue(v) {
				p.ctx.tracef("operatorProvider: row did not fit after Fits reported true")
				p.pending = row
				goto done
			}
		}
		b.NextRow()
		wroteAny = true
	}
done:
	if p.done && p.pending == nil {
		b.EndBlocks()
	} else {
		b.MarkNextBlock()
	}
	return b, nil
}
