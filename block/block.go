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

import "github.com/csvsqldb/csvsqldb/value"

// DefaultCapacityBytes is the default fixed byte budget for a Block:
// small enough to bound per-block memory tightly, large enough that
// typical row widths fill hundreds of rows before a rollover.
const DefaultCapacityBytes = 2 << 20

// fixedCellCost approximates the arena footprint of one cell: a kind
// tag plus the widest scalar payload. Strings additionally cost their
// byte length, so a block holding long strings fills up sooner than
// one holding only integers, matching the "heterogeneous values packed
// by kind (variable-length strings inline)" contract.
const fixedCellCost = 24

// Block is an append-only, fixed-capacity row container. Cells are
// appended in schema order; NextRow closes the current row. Once a
// Block has been returned to its Manager, every reference into it
// (every Row previously handed out) is invalid -- callers must not
// retain a Row past the point its Block is released.
type Block struct {
	capacityBytes int
	usedBytes     int
	cells         []value.Value
	rowStarts     []int
	curStart      int
	terminal      terminal
}

type terminal uint8

const (
	terminalNone terminal = iota
	terminalNextBlockFollows
	terminalEndOfStream
)

func newBlock(capacityBytes int) *Block {
	return &Block{capacityBytes: capacityBytes}
}

// reset clears a Block for reuse by the Manager's pool without
// releasing the backing arrays, so repeated CreateBlock/Release
// cycles amortize allocation.
func (b *Block) reset() {
	b.usedBytes = 0
	b.cells = b.cells[:0]
	b.rowStarts = b.rowStarts[:0]
	b.curStart = 0
	b.terminal = terminalNone
}

func cellCost(v value.Value) int {
	if v.Kind() == value.String && !v.IsNull() {
		return fixedCellCost + len(v.Str())
	}
	return fixedCellCost
}

// addValue is the shared implementation behind every typed appender.
// It returns false -- without mutating the block -- when v would push
// usedBytes past capacityBytes, so the caller can allocate a fresh
// block and retry the exact same value.
func (b *Block) addValue(v value.Value) bool {
	cost := cellCost(v)
	if b.usedBytes+cost > b.capacityBytes {
		return false
	}
	b.cells = append(b.cells, v)
	b.usedBytes += cost
	return true
}

// AddValue appends an already-constructed Value. AddBool/AddInt/...
// below are conveniences that build the Value for the caller.
func (b *Block) AddValue(v value.Value) bool { return b.addValue(v) }

// Fits reports whether every value in row could be appended without a
// capacity refusal, without mutating the block. Callers that must pack
// a whole row atomically (never split across two blocks) check this
// before adding any of the row's cells.
func (b *Block) Fits(row []value.Value) bool {
	cost := 0
	for _, v := range row {
		cost += cellCost(v)
	}
	return b.usedBytes+cost <= b.capacityBytes
}

// AddBool appends a BOOL cell. isNull, when true, ignores the payload.
func (b *Block) AddBool(v bool, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Bool))
	}
	return b.addValue(value.NewBool(v))
}

// AddInt appends an INT cell.
func (b *Block) AddInt(v int64, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Int))
	}
	return b.addValue(value.NewInt(v))
}

// AddReal appends a REAL cell.
func (b *Block) AddReal(v float64, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Real))
	}
	return b.addValue(value.NewReal(v))
}

// AddString appends a STRING cell. The byte length of s counts
// against the block's remaining capacity.
func (b *Block) AddString(s string, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.String))
	}
	return b.addValue(value.NewString(s))
}

// AddDate appends a DATE cell.
func (b *Block) AddDate(v value.Value, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Date))
	}
	return b.addValue(v)
}

// AddTime appends a TIME cell.
func (b *Block) AddTime(v value.Value, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Time))
	}
	return b.addValue(v)
}

// AddTimestamp appends a TIMESTAMP cell.
func (b *Block) AddTimestamp(v value.Value, isNull bool) bool {
	if isNull {
		return b.addValue(value.Null(value.Timestamp))
	}
	return b.addValue(v)
}

// NextRow closes the current row. It is a no-op if no cells have been
// appended since the block was created or since the previous NextRow
// call, so a reader that discovers nothing more to write doesn't
// manufacture a phantom empty row.
func (b *Block) NextRow() {
	if len(b.cells) == b.curStart {
		return
	}
	b.rowStarts = append(b.rowStarts, b.curStart)
	b.curStart = len(b.cells)
}

// RowCount returns the number of closed rows currently held.
func (b *Block) RowCount() int { return len(b.rowStarts) }

// Row returns the borrowed cell slice for the i'th closed row, valid
// until the Block is released back to its Manager.
func (b *Block) Row(i int) []value.Value {
	start := b.rowStarts[i]
	end := b.curStart
	if i+1 < len(b.rowStarts) {
		end = b.rowStarts[i+1]
	}
	return b.cells[start:end]
}

// MarkNextBlock marks this block as non-terminal: more blocks follow
// it in the same BlockProvider stream.
func (b *Block) MarkNextBlock() { b.terminal = terminalNextBlockFollows }

// EndBlocks marks this block as the terminal block of its stream.
func (b *Block) EndBlocks() { b.terminal = terminalEndOfStream }

// IsEndOfStream reports whether this block was marked as terminal via
// EndBlocks.
func (b *Block) IsEndOfStream() bool { return b.terminal == terminalEndOfStream }
