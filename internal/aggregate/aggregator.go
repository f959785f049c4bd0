package aggregate

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/getsentry/timekeeper/internal/errorutil"
	"github.com/getsentry/timekeeper/internal/frame"
)

var errDataIntegrityNilTree = fmt.Errorf("aggregate: %w: frame tree must be non-nil", errorutil.ErrDataIntegrity)

type (
	// Drainer is the consumer side of a frame queue.
	Drainer interface {
		DrainAll(fn func(frame.Snapshot)) int
	}

	// ThreadRecord is a copy of the aggregated tree of one thread.
	ThreadRecord struct {
		ThreadID frame.ThreadID
		Root     *Record
	}

	// Aggregator merges frames into one cumulative Record tree per thread.
	//
	// Merge, Consume and Reset must be called from a single consumer
	// goroutine. Readers may call Threads and Thread from any goroutine: they
	// are serialized against the consumer and receive copies.
	Aggregator struct {
		mu      sync.RWMutex
		threads map[frame.ThreadID]*Record
		order   []frame.ThreadID
	}
)

func NewAggregator() *Aggregator {
	return &Aggregator{
		threads: make(map[frame.ThreadID]*Record),
	}
}

// Merge folds a frame into the tree of the thread that recorded it. The
// thread's tree is created on its first frame.
func (a *Aggregator) Merge(s frame.Snapshot) error {
	if s.Root == nil {
		return errDataIntegrityNilTree
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	root, ok := a.threads[s.ThreadID]
	if !ok {
		root = newRecord(s.Root.Name)
		a.threads[s.ThreadID] = root
		a.order = append(a.order, s.ThreadID)
		log.Debug().Uint64("thread_id", uint64(s.ThreadID)).Str("thread_name", s.ThreadName).Msg("new thread aggregated")
	}
	root.merge(s.Root)
	return nil
}

// Consume drains d and merges every frame it yields. It returns the number
// of frames drained.
func (a *Aggregator) Consume(d Drainer) int {
	return d.DrainAll(func(s frame.Snapshot) {
		if err := a.Merge(s); err != nil {
			log.Warn().Err(err).Uint64("thread_id", uint64(s.ThreadID)).Msg("dropping frame")
		}
	})
}

// Reset clears the statistics of every thread. Thread entries are kept.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, root := range a.threads {
		root.reset()
	}
}

// Len returns the number of threads seen so far. It never decreases.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}

// Threads returns a copy of every thread's tree, in the order threads were
// first seen.
func (a *Aggregator) Threads() []ThreadRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	threads := make([]ThreadRecord, 0, len(a.order))
	for _, id := range a.order {
		threads = append(threads, ThreadRecord{
			ThreadID: id,
			Root:     a.threads[id].deepCopy(),
		})
	}
	return threads
}

func (a *Aggregator) Thread(id frame.ThreadID) (ThreadRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	root, ok := a.threads[id]
	if !ok {
		return ThreadRecord{}, false
	}
	return ThreadRecord{ThreadID: id, Root: root.deepCopy()}, true
}
