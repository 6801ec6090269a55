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

package producer

import (
	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// Writer mirrors block.Block's typed append API. A ReadFunc is handed
// a Writer instead of a *block.Block directly so that block rollover
// on capacity overflow happens inside the producer, transparently to
// the reader's code.
type Writer interface {
	AddBool(v bool, isNull bool) bool
	AddInt(v int64, isNull bool) bool
	AddReal(v float64, isNull bool) bool
	AddString(s string, isNull bool) bool
	AddDate(v value.Value, isNull bool) bool
	AddTime(v value.Value, isNull bool) bool
	AddTimestamp(v value.Value, isNull bool) bool
	AddValue(v value.Value) bool
	NextRow()
}

// writerHandle is the concrete Writer a Producer gives its ReadFunc.
// Every Add* call retries transparently on a fresh block when the
// current one refuses the value.
type writerHandle struct {
	producer *Producer
	cur      *block.Block
}

func (w *writerHandle) rollover() {
	w.cur.MarkNextBlock()
	w.producer.enqueue(w.cur)
	w.cur = w.producer.mgr.CreateBlock()
}

func (w *writerHandle) AddBool(v bool, isNull bool) bool {
	if w.cur.AddBool(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddBool(v, isNull)
}

func (w *writerHandle) AddInt(v int64, isNull bool) bool {
	if w.cur.AddInt(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddInt(v, isNull)
}

func (w *writerHandle) AddReal(v float64, isNull bool) bool {
	if w.cur.AddReal(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddReal(v, isNull)
}

func (w *writerHandle) AddString(s string, isNull bool) bool {
	if w.cur.AddString(s, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddString(s, isNull)
}

func (w *writerHandle) AddDate(v value.Value, isNull bool) bool {
	if w.cur.AddDate(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddDate(v, isNull)
}

func (w *writerHandle) AddTime(v value.Value, isNull bool) bool {
	if w.cur.AddTime(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddTime(v, isNull)
}

func (w *writerHandle) AddTimestamp(v value.Value, isNull bool) bool {
	if w.cur.AddTimestamp(v, isNull) {
		return true
	}
	w.rollover()
	return w.cur.AddTimestamp(v, isNull)
}

func (w *writerHandle) AddValue(v value.Value) bool {
	if w.cur.AddValue(v) {
		return true
	}
	w.rollover()
	return w.cur.AddValue(v)
}

func (w *writerHandle) NextRow() { w.cur.NextRow() }
