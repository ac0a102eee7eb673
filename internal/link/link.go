// Package link carries 32-bit words between two boards.
//
// Every driver is best effort: Send never waits for the peer and
// TryReceive returns at once when nothing has arrived. Inbound words wait
// in a bounded queue; when it is full the oldest word is dropped, since a
// newer position always supersedes an older one.
package link

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultBuffer is the inbound queue size used when none is configured.
const DefaultBuffer = 64

// Errors returned by drivers.
var (
	ErrClosed = errors.New("link: closed")
	ErrNoPeer = errors.New("link: peer not known yet")
)

// Conn is one end of a link. It satisfies the board's link contract and
// releases its resources on Close.
type Conn interface {
	Send(word uint32) error
	TryReceive() (uint32, bool)
	Close() error
}

// queue is a bounded FIFO of words that drops the oldest on overflow.
// It is safe for concurrent use.
type queue struct {
	mu      sync.Mutex
	buf     []uint32
	max     int
	dropped uint64
}

func newQueue(size int) *queue {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &queue{buf: make([]uint32, 0, size), max: size}
}

func (q *queue) push(w uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == q.max {
		copy(q.buf, q.buf[1:])
		q.buf = q.buf[:q.max-1]
		q.dropped++
	}
	q.buf = append(q.buf, w)
}

func (q *queue) pop() (uint32, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, false
	}
	w := q.buf[0]
	copy(q.buf, q.buf[1:])
	q.buf = q.buf[:len(q.buf)-1]
	return w, true
}

func (q *queue) droppedCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
