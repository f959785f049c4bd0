package recorder

import (
	"fmt"
	"time"

	"github.com/getsentry/timekeeper/internal/clock"
	"github.com/getsentry/timekeeper/internal/errorutil"
	"github.com/getsentry/timekeeper/internal/frame"
	"github.com/getsentry/timekeeper/internal/nodetree"
)

// noSpan marks a missing arena index.
const noSpan = -1

type (
	// Sink receives completed frames. It is the only shared state a Recorder
	// touches and must be safe for concurrent use.
	Sink interface {
		Push(frame.Snapshot)
	}

	// span is an open or closed node of the frame being recorded. Spans live
	// in an arena and link to each other by index so that nothing handed to
	// the sink points back into the arena.
	span struct {
		name  string
		start time.Time
		end   time.Time

		parent     int
		firstChild int
		lastChild  int
		next       int
	}

	// Recorder records the span tree of one frame at a time. It must only be
	// used from a single goroutine; create one Recorder per producer.
	Recorder struct {
		id   frame.ThreadID
		sink Sink
		now  clock.NowFunc

		spans   []span
		current int
	}

	Option func(*Recorder)
)

// WithClock overrides the time source used to timestamp spans.
func WithClock(now clock.NowFunc) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func New(id frame.ThreadID, sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		id:      id,
		sink:    sink,
		now:     clock.System,
		current: noSpan,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) ThreadID() frame.ThreadID {
	return r.id
}

// InFrame returns true between BeginFrame and EndFrame.
func (r *Recorder) InFrame() bool {
	return r.current != noSpan
}

// Depth returns the number of spans currently open below the frame root.
func (r *Recorder) Depth() int {
	if r.current == noSpan {
		return 0
	}
	var depth int
	for i := r.current; i != 0; i = r.spans[i].parent {
		depth++
	}
	return depth
}

// BeginFrame discards whatever was recorded so far and starts a new frame
// named name, or named after the thread when name is empty.
func (r *Recorder) BeginFrame(name string) {
	if r.current > 0 {
		panic(violation("BeginFrame called with %d open span(s)", r.Depth()))
	}
	if name == "" {
		name = frame.DefaultThreadName(r.id)
	}
	r.spans = r.spans[:0]
	r.spans = append(r.spans, newSpan(name, r.now(), noSpan))
	r.current = 0
}

// Begin opens a span named key under the current span.
func (r *Recorder) Begin(key string) {
	if r.current == noSpan {
		panic(violation("Begin(%q) called outside of a frame", key))
	}
	idx := len(r.spans)
	r.spans = append(r.spans, newSpan(key, r.now(), r.current))
	parent := &r.spans[r.current]
	if parent.lastChild == noSpan {
		parent.firstChild = idx
	} else {
		r.spans[parent.lastChild].next = idx
	}
	parent.lastChild = idx
	r.current = idx
}

// End closes the current span and makes its parent current again.
func (r *Recorder) End() {
	switch r.current {
	case noSpan:
		panic(violation("End called outside of a frame"))
	case 0:
		panic(violation("End called without a matching Begin"))
	}
	s := &r.spans[r.current]
	s.end = r.now()
	r.current = s.parent
}

// Span opens a span and returns the function closing it, for use with defer.
func (r *Recorder) Span(key string) func() {
	r.Begin(key)
	return r.End
}

// EndFrame closes the frame and hands a copy of its tree to the sink. The
// arena is kept for the next frame.
func (r *Recorder) EndFrame() {
	switch {
	case r.current == noSpan:
		panic(violation("EndFrame called without BeginFrame"))
	case r.current != 0:
		panic(violation("EndFrame called with %d open span(s)", r.Depth()))
	}
	root := &r.spans[0]
	root.end = r.now()
	r.current = noSpan

	tree := r.build(0, root.start)
	r.sink.Push(frame.Snapshot{
		ThreadID:   r.id,
		ThreadName: root.name,
		Root:       tree,
		Elapsed:    root.end.Sub(root.start),
	})
}

func (r *Recorder) build(i int, origin time.Time) *nodetree.Node {
	s := r.spans[i]
	n := nodetree.NodeFromSpan(s.name, offsetNS(origin, s.start), offsetNS(origin, s.end))
	for c := s.firstChild; c != noSpan; c = r.spans[c].next {
		n.Children = append(n.Children, r.build(c, origin))
	}
	return n
}

func newSpan(name string, start time.Time, parent int) span {
	return span{
		name:       name,
		start:      start,
		parent:     parent,
		firstChild: noSpan,
		lastChild:  noSpan,
		next:       noSpan,
	}
}

func offsetNS(origin, t time.Time) uint64 {
	d := t.Sub(origin)
	if d < 0 {
		return 0
	}
	return uint64(d)
}

func violation(format string, args ...interface{}) error {
	return fmt.Errorf("recorder: %w: "+format, append([]interface{}{errorutil.ErrContractViolation}, args...)...)
}
