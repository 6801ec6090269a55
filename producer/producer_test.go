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
	"errors"
	"testing"
	"time"

	"github.com/csvsqldb/csvsqldb/block"
)

// TestConsumerReadsAllRows is scenario S3: a producer fed 2000 rows
// of 8 INT columns into 8 KiB blocks (forcing block rollovers) and a
// consumer that reads all of them before observing end of stream.
func TestConsumerReadsAllRows(t *testing.T) {
	mgr := block.NewManager(8 << 10) // small blocks to force rollovers
	p := New(mgr, func(w Writer) error {
		for i := 0; i < 2000; i++ {
			for c := 0; c < 8; c++ {
				w.AddInt(int64(i), false)
			}
			w.NextRow()
		}
		return nil
	})
	p.Start()
	defer p.Close()

	n := 0
	for {
		b, err := p.GetNextBlock()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b == nil {
			break
		}
		n += b.RowCount()
		mgr.Release(b)
	}
	if n != 2000 {
		t.Fatalf("expected 2000 rows, got %d", n)
	}
	b, err := p.GetNextBlock()
	if b != nil || err != nil {
		t.Fatalf("expected (nil, nil) after end of stream, got %v, %v", b, err)
	}
}

// TestReaderErrorPropagates is scenario S4.
func TestReaderErrorPropagates(t *testing.T) {
	mgr := block.NewManager(block.DefaultCapacityBytes)
	wantErr := errors.New("exception")
	p := New(mgr, func(w Writer) error {
		w.AddInt(1, false)
		w.NextRow()
		return wantErr
	})
	p.Start()
	defer p.Close()

	// the failed reader's in-progress block (holding its one row) is
	// discarded, so the very next call reports the error
	b, err := p.GetNextBlock()
	if err == nil || err.Error() != "exception" || b != nil {
		t.Fatalf("expected propagated error %q and no block, got %v, %v", wantErr, b, err)
	}

	// the failure is reported again on a later call
	_, err = p.GetNextBlock()
	if err == nil || err.Error() != "exception" {
		t.Fatalf("expected propagated error %q, got %v", wantErr, err)
	}
}

// TestBackpressureWatermarks is scenario S8: with high=10, low=5, a
// slow consumer observes the producer stall once the queue holds 10
// blocks, resuming only after the queue has drained below 5.
func TestBackpressureWatermarks(t *testing.T) {
	mgr := block.NewManager(64) // tiny capacity: two ints per block
	started := make(chan struct{})
	p := NewWithWatermarks(mgr, func(w Writer) error {
		close(started)
		for i := 0; i < 30; i++ {
			w.AddInt(int64(i), false)
			w.NextRow()
		}
		return nil
	}, 10, 5)
	p.Start()
	defer p.Close()
	<-started

	// give the producer time to run ahead and hit the high watermark
	deadline := time.Now().Add(2 * time.Second)
	for {
		p.mu.Lock()
		stalled := p.throttled
		p.mu.Unlock()
		if stalled {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("producer never throttled")
		}
		time.Sleep(time.Millisecond)
	}

	p.mu.Lock()
	qlen := len(p.queue)
	p.mu.Unlock()
	if qlen < 10 {
		t.Fatalf("expected queue to hold >= 10 blocks while throttled, got %d", qlen)
	}

	// drain down to the low watermark itself; producer must still be
	// throttled
	for i := 0; i < qlen-5; i++ {
		b, err := p.GetNextBlock()
		if err != nil || b == nil {
			t.Fatalf("unexpected drain failure: %v, %v", b, err)
		}
		mgr.Release(b)
	}
	p.mu.Lock()
	stillThrottled := p.throttled
	p.mu.Unlock()
	if !stillThrottled {
		t.Fatalf("producer should remain throttled until queue < low watermark")
	}

	// drain one more to cross below the low watermark
	b, err := p.GetNextBlock()
	if err != nil || b == nil {
		t.Fatalf("unexpected drain failure: %v, %v", b, err)
	}
	mgr.Release(b)

	deadline = time.Now().Add(2 * time.Second)
	for {
		p.mu.Lock()
		resumed := !p.throttled
		p.mu.Unlock()
		if resumed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("producer never resumed after draining below the low watermark")
		}
		time.Sleep(time.Millisecond)
	}
}
