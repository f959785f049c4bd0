package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/getsentry/timekeeper/internal/config"
	"github.com/getsentry/timekeeper/internal/recorder"
	"github.com/getsentry/timekeeper/internal/timekeeper"
)

var workerNames = []string{"game", "render", "audio", "streaming"}

// simulate runs one producer goroutine per worker, each recording frames of
// nested spans until ctx is done.
func simulate(ctx context.Context, p *timekeeper.Profiler, c config.Simulation) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.Workers; i++ {
		name := workerNames[i%len(workerNames)]
		if i >= len(workerNames) {
			name = fmt.Sprintf("%s-%d", name, i/len(workerNames))
		}
		seed := int64(i) + 1
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("simulation: worker %s: %v", name, rec)
				}
			}()
			return runWorker(ctx, p.NewRecorder(), name, c.FrameBudget, rand.New(rand.NewSource(seed)))
		})
	}
	return g.Wait()
}

func runWorker(ctx context.Context, r *recorder.Recorder, name string, budget time.Duration, rng *rand.Rand) error {
	log.Debug().Str("worker", name).Uint64("thread_id", uint64(r.ThreadID())).Msg("worker started")
	ctx = recorder.NewContext(ctx, r)

	for {
		start := time.Now()

		r.BeginFrame(name)
		update(ctx, budget, rng)
		draw(ctx, budget, rng)
		r.EndFrame()

		wait := budget - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func update(ctx context.Context, budget time.Duration, rng *rand.Rand) {
	r, _ := recorder.FromContext(ctx)
	defer r.Span("update")()

	func() {
		defer r.Span("input")()
		work(budget/40, rng)
	}()
	// a variable number of physics substeps per frame
	for i := rng.Intn(3) + 1; i > 0; i-- {
		func() {
			defer r.Span("physics")()
			work(budget/10, rng)
		}()
	}
	func() {
		defer r.Span("ai")()
		work(budget/8, rng)
	}()
}

func draw(ctx context.Context, budget time.Duration, rng *rand.Rand) {
	r, _ := recorder.FromContext(ctx)
	defer r.Span("draw")()

	func() {
		defer r.Span("cull")()
		work(budget/20, rng)
	}()
	func() {
		defer r.Span("submit")()
		work(budget/6, rng)
	}()
}

// work sleeps between half and all of d.
func work(d time.Duration, rng *rand.Rand) {
	if d <= 0 {
		return
	}
	time.Sleep(d/2 + time.Duration(rng.Int63n(int64(d/2)+1)))
}
