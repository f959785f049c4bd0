package framequeue

import (
	"sync"
	"testing"

	"github.com/getsentry/timekeeper/internal/frame"
	"github.com/getsentry/timekeeper/internal/nodetree"
)

func TestQueueDrainEmpty(t *testing.T) {
	q := New()
	var calls int
	if n := q.DrainAll(func(frame.Snapshot) { calls++ }); n != 0 || calls != 0 {
		t.Fatalf("expected an empty drain, got n=%d calls=%d", n, calls)
	}
	if q.Len() != 0 {
		t.Fatalf("wanted empty queue, got %d", q.Len())
	}
}

func TestQueueFIFO(t *testing.T) {
	q := New()
	for i := 0; i < 5; i++ {
		q.Push(frame.Snapshot{ThreadID: frame.ThreadID(i), Root: &nodetree.Node{Name: "root"}})
	}
	if q.Len() != 5 {
		t.Fatalf("wanted 5 queued frames, got %d", q.Len())
	}

	var got []frame.ThreadID
	n := q.DrainAll(func(s frame.Snapshot) {
		got = append(got, s.ThreadID)
	})
	if n != 5 {
		t.Fatalf("wanted 5 drained frames, got %d", n)
	}
	for i, id := range got {
		if id != frame.ThreadID(i) {
			t.Fatalf("wanted frames in push order, got %v", got)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("wanted empty queue, got %d", q.Len())
	}
}

func TestQueuePushDuringDrain(t *testing.T) {
	q := New()
	q.Push(frame.Snapshot{ThreadID: 1})

	var got []frame.ThreadID
	q.DrainAll(func(s frame.Snapshot) {
		got = append(got, s.ThreadID)
		if s.ThreadID == 1 {
			q.Push(frame.Snapshot{ThreadID: 2})
		}
	})
	if len(got) != 2 || got[1] != 2 {
		t.Fatalf("expected frames pushed during the drain to be drained, got %v", got)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	const (
		producers = 8
		frames    = 500
	)
	q := New()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id frame.ThreadID) {
			defer wg.Done()
			for i := 0; i < frames; i++ {
				q.Push(frame.Snapshot{ThreadID: id})
			}
		}(frame.ThreadID(p))
	}

	counts := make(map[frame.ThreadID]int)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	drain := func() {
		q.DrainAll(func(s frame.Snapshot) {
			counts[s.ThreadID]++
		})
	}
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			drain()
		}
	}
	drain()

	for p := 0; p < producers; p++ {
		if counts[frame.ThreadID(p)] != frames {
			t.Fatalf("producer %d: wanted %d frames, got %d", p, frames, counts[frame.ThreadID(p)])
		}
	}
}

func TestQueueCompactsDrainedSlots(t *testing.T) {
	q := New()
	for i := 0; i < 8; i++ {
		q.Push(frame.Snapshot{ThreadID: frame.ThreadID(i)})
	}
	for i := 0; i < 5; i++ {
		if _, ok := q.pop(); !ok {
			t.Fatalf("pop %d: expected a frame", i)
		}
	}
	if q.head != 0 || len(q.items) != 3 {
		t.Fatalf("expected drained slots to be released, got head=%d len=%d", q.head, len(q.items))
	}
	q.Push(frame.Snapshot{ThreadID: 8})

	var got []frame.ThreadID
	q.DrainAll(func(s frame.Snapshot) {
		got = append(got, s.ThreadID)
	})
	want := []frame.ThreadID{5, 6, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wanted %v, got %v", want, got)
		}
	}
}

func TestQueueBoundedWhileProducersKeepUp(t *testing.T) {
	const frames = 1000
	q := New()
	q.Push(frame.Snapshot{ThreadID: 0})
	q.Push(frame.Snapshot{ThreadID: 1})

	next := frame.ThreadID(2)
	n := q.DrainAll(func(frame.Snapshot) {
		if len(q.items) > 3 {
			t.Fatalf("expected the backing slice to stay bounded, got %d slots", len(q.items))
		}
		if next < frames {
			q.Push(frame.Snapshot{ThreadID: next})
			next++
		}
	})
	if n != frames {
		t.Fatalf("wanted %d drained frames, got %d", frames, n)
	}
}
