package framequeue

import (
	"sync"

	"github.com/getsentry/timekeeper/internal/frame"
)

// Queue is a FIFO of completed frames. Any number of goroutines may Push,
// a single consumer drains it.
type Queue struct {
	mu    sync.Mutex
	items []frame.Snapshot
	head  int
}

func New() *Queue {
	return &Queue{}
}

func (q *Queue) Push(s frame.Snapshot) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

// Len returns the number of frames waiting to be drained.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// DrainAll pops frames one at a time and passes each to fn, until the queue
// is observed empty. The lock is only held while popping, so producers are
// never blocked by fn. It returns the number of frames drained.
func (q *Queue) DrainAll(fn func(frame.Snapshot)) int {
	var n int
	for {
		s, ok := q.pop()
		if !ok {
			return n
		}
		fn(s)
		n++
	}
}

func (q *Queue) pop() (frame.Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return frame.Snapshot{}, false
	}
	s := q.items[q.head]
	q.items[q.head] = frame.Snapshot{}
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head > len(q.items)/2:
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return s, true
}
