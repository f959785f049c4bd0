package timekeeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/getsentry/timekeeper/internal/aggregate"
	"github.com/getsentry/timekeeper/internal/clock"
	"github.com/getsentry/timekeeper/internal/errorutil"
	"github.com/getsentry/timekeeper/internal/frame"
	"github.com/getsentry/timekeeper/internal/framequeue"
	"github.com/getsentry/timekeeper/internal/framerate"
	"github.com/getsentry/timekeeper/internal/recorder"
)

type (
	Options struct {
		// FrameRateSamples is the capacity of the frame time buffer.
		FrameRateSamples int
		// Clock overrides the time source of recorders and of the frame rate
		// tracker.
		Clock clock.NowFunc
	}

	// Profiler ties recorders to a shared frame queue and aggregates what
	// they record.
	//
	// Recorders may be used concurrently, one per goroutine. Consume, Run and
	// Reset form the consumer side and must only ever be driven by one
	// goroutine at a time. Stats, ThreadStats and FrameRate are safe to call
	// from any goroutine.
	Profiler struct {
		now        clock.NowFunc
		queue      *framequeue.Queue
		aggregator *aggregate.Aggregator
		frameRate  *framerate.Tracker

		lastThreadID   atomic.Uint64
		consuming      atomic.Bool
		resetRequested atomic.Bool
	}
)

func New(opts Options) *Profiler {
	now := opts.Clock
	if now == nil {
		now = clock.System
	}
	return &Profiler{
		now:        now,
		queue:      framequeue.New(),
		aggregator: aggregate.NewAggregator(),
		frameRate:  framerate.New(opts.FrameRateSamples, clock.NewWithSource(now)),
	}
}

// NewRecorder returns a recorder with a new thread identity. The recorder
// belongs to the goroutine that uses it.
func (p *Profiler) NewRecorder() *recorder.Recorder {
	id := frame.ThreadID(p.lastThreadID.Add(1))
	return recorder.New(id, p.queue, recorder.WithClock(p.now))
}

// Consume is one display cycle: it applies a requested reset, merges every
// queued frame and records the time elapsed since the previous cycle. It
// returns the number of frames merged.
func (p *Profiler) Consume() int {
	if !p.consuming.CompareAndSwap(false, true) {
		panic(fmt.Errorf("timekeeper: %w: Consume called concurrently", errorutil.ErrContractViolation))
	}
	defer p.consuming.Store(false)

	if p.resetRequested.CompareAndSwap(true, false) {
		p.Reset()
	}
	n := p.aggregator.Consume(p.queue)
	p.frameRate.Update()
	return n
}

// Run calls Consume every interval until ctx is done.
func (p *Profiler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug().Dur("interval", interval).Msg("consumer started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("consumer stopped")
			return ctx.Err()
		case <-ticker.C:
			if n := p.Consume(); n > 0 {
				log.Debug().Int("frames", n).Int("threads", p.aggregator.Len()).Msg("frames aggregated")
			}
		}
	}
}

// Reset clears the aggregated statistics of every thread. Frame times are
// kept.
func (p *Profiler) Reset() {
	p.aggregator.Reset()
	log.Info().Int("threads", p.aggregator.Len()).Msg("aggregated statistics reset")
}

// RequestReset asks the consumer to reset the aggregated statistics at the
// start of its next cycle. Unlike Reset it may be called from any goroutine.
func (p *Profiler) RequestReset() {
	p.resetRequested.Store(true)
}

// Pending returns the number of frames waiting for the next Consume.
func (p *Profiler) Pending() int {
	return p.queue.Len()
}

// Threads returns the number of threads that have reported at least one
// frame. It is never decreased, not even by Reset.
func (p *Profiler) Threads() int {
	return p.aggregator.Len()
}

// Stats returns the statistics of every thread that has data, in the order
// threads first reported.
func (p *Profiler) Stats() []aggregate.ThreadStats {
	threads := p.aggregator.Threads()
	stats := make([]aggregate.ThreadStats, 0, len(threads))
	for _, t := range threads {
		s, err := t.Stats()
		if err != nil {
			continue
		}
		stats = append(stats, s)
	}
	return stats
}

// ThreadStats returns the statistics of one thread. The error wraps
// errorutil.ErrNoResults for unknown threads and errorutil.ErrNoData for
// threads without aggregated frames.
func (p *Profiler) ThreadStats(id frame.ThreadID) (aggregate.ThreadStats, error) {
	t, ok := p.aggregator.Thread(id)
	if !ok {
		return aggregate.ThreadStats{}, fmt.Errorf("timekeeper: %w: thread %v", errorutil.ErrNoResults, id)
	}
	return t.Stats()
}

func (p *Profiler) FrameRate() framerate.Summary {
	return p.frameRate.Summary()
}

func (p *Profiler) FramePlot() framerate.Plot {
	return p.frameRate.Plot()
}
