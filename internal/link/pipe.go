package link

import "sync/atomic"

// PipeEnd is one end of an in-process link.
type PipeEnd struct {
	rx, tx *queue
	closed *atomic.Bool
}

// Pipe returns two connected ends. Each direction buffers up to buffer
// words. Closing either end closes both.
func Pipe(buffer int) (*PipeEnd, *PipeEnd) {
	ab, ba := newQueue(buffer), newQueue(buffer)
	closed := &atomic.Bool{}
	return &PipeEnd{rx: ba, tx: ab, closed: closed}, &PipeEnd{rx: ab, tx: ba, closed: closed}
}

// Send queues a word for the other end.
func (p *PipeEnd) Send(word uint32) error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.tx.push(word)
	return nil
}

// TryReceive returns the oldest word sent by the other end, if any.
func (p *PipeEnd) TryReceive() (uint32, bool) {
	if p.closed.Load() {
		return 0, false
	}
	return p.rx.pop()
}

// Dropped returns how many inbound words were discarded on overflow.
func (p *PipeEnd) Dropped() uint64 { return p.rx.droppedCount() }

// Close closes both ends.
func (p *PipeEnd) Close() error {
	p.closed.Store(true)
	return nil
}
