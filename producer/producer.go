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

// Package producer implements BlockProducer: the push-to-pull adapter
// that runs a data source's reader callback on a dedicated worker
// goroutine and exposes the resulting blocks through block.Provider,
// so CSV parsing overlaps with query execution.
package producer

import (
	"sync"

	"github.com/csvsqldb/csvsqldb/block"
)

// DefaultHighWatermark and DefaultLowWatermark are the tunable but
// default-as-given backpressure thresholds.
const (
	DefaultHighWatermark = 10
	DefaultLowWatermark  = 5
)

// ReadFunc is the reader callback Start invokes on the worker
// goroutine. It is handed a Writer exposing the same typed append API
// as block.Block and must return nil on success or a non-nil error to
// fail the whole producer.
type ReadFunc func(w Writer) error

// state is BlockProducer's explicit state machine.
type state uint8

const (
	stateIdle state = iota
	stateRunning
	stateCompleted
	stateFailed
	stateCancelled
)

// Producer is a block.Provider fed by a ReadFunc running on a
// background worker. Exactly one producer goroutine and one consumer
// goroutine are expected; a single mutex and condition variable guard
// the queue, the error slot, and the watermark/cancellation state.
type Producer struct {
	mgr  *block.Manager
	read ReadFunc
	high int
	low  int

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []*block.Block
	state     state
	throttled bool
	err       error
	wg        sync.WaitGroup
}

// New constructs an Idle Producer with the default watermarks.
func New(mgr *block.Manager, read ReadFunc) *Producer {
	return NewWithWatermarks(mgr, read, DefaultHighWatermark, DefaultLowWatermark)
}

// NewWithWatermarks constructs an Idle Producer with explicit
// backpressure thresholds.
func NewWithWatermarks(mgr *block.Manager, read ReadFunc, high, low int) *Producer {
	p := &Producer{
		mgr:  mgr,
		read: read,
		high: high,
		low:  low,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start spawns the worker goroutine. It panics if the Producer is not
// Idle; a Producer is started at most once.
func (p *Producer) Start() {
	p.mu.Lock()
	if p.state != stateIdle {
		p.mu.Unlock()
		panic("producer: Start called more than once")
	}
	p.state = stateRunning
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
}

func (p *Producer) run() {
	defer p.wg.Done()
	w := &writerHandle{producer: p, cur: p.mgr.CreateBlock()}
	err := p.read(w)

	p.mu.Lock()
	if p.state == stateRunning {
		if err != nil {
			p.err = err
			p.state = stateFailed
			p.mgr.Release(w.cur)
		} else {
			w.cur.EndBlocks()
			p.queue = append(p.queue, w.cur)
			p.state = stateCompleted
		}
	} else {
		// cancelled while the reader was still running: drop the
		// in-progress block, nothing more to hand to the consumer.
		p.mgr.Release(w.cur)
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}

// enqueue is called by writerHandle whenever a block fills up or the
// reader finishes. It blocks the worker while the queue holds >= high
// blocks, resuming only once the consumer has drained it below low,
// and drops the block instead of queueing it if the producer has
// meanwhile been cancelled.
func (p *Producer) enqueue(b *block.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) >= p.high {
		p.throttled = true
	}
	for p.throttled && p.state == stateRunning {
		p.cond.Wait()
	}
	if p.state != stateRunning {
		p.mgr.Release(b)
		return
	}
	p.queue = append(p.queue, b)
	p.cond.Broadcast()
}

// GetNextBlock implements block.Provider. It blocks while the queue
// is empty and the producer has not yet reached a terminal state,
// propagates a stored reader error as the query-execution failure,
// and returns (nil, nil) once a Completed or Cancelled producer's
// queue has fully drained.
func (p *Producer) GetNextBlock() (*block.Block, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 {
		switch p.state {
		case stateFailed:
			return nil, p.err
		case stateCompleted, stateCancelled:
			return nil, nil
		}
		p.cond.Wait()
	}
	b := p.queue[0]
	p.queue = p.queue[1:]
	if p.throttled && len(p.queue) < p.low {
		p.throttled = false
	}
	p.cond.Broadcast()
	return b, nil
}

// Cancelled reports whether the producer has been asked to shut down.
// A well-behaved ReadFunc checks this at convenient points (a typical
// CSV reader checks every row) and returns promptly when it is true;
// the contract is best-effort, not a hard interrupt.
func (p *Producer) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateCancelled
}

// Close requests cancellation (if the worker is still running), joins
// the worker goroutine, and releases any blocks left in the queue
// back to the Manager. It is safe to call Close on a Producer that
// has already completed or failed.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.state == stateRunning {
		p.state = stateCancelled
		p.throttled = false
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	for _, b := range p.queue {
		p.mgr.Release(b)
	}
	p.queue = nil
	p.mu.Unlock()
	return nil
}
