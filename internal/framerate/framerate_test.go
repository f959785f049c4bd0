package framerate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/getsentry/timekeeper/internal/clock"
	"github.com/getsentry/timekeeper/internal/quantile"
	"github.com/getsentry/timekeeper/internal/testutil"
)

func TestTrackerUpdate(t *testing.T) {
	now, advance := testutil.FixedClock(time.Unix(1675277158, 0))
	tr := New(4, clock.NewWithSource(now))

	advance(20 * time.Millisecond)
	if d := tr.Update(); d != 20*time.Millisecond {
		t.Fatalf("wanted 20ms, got %v", d)
	}
	advance(10 * time.Millisecond)
	tr.Update()

	if diff := testutil.Diff(tr.Samples(), []float64{0.02, 0.01, 0, 0}, testutil.ApproxFloats()); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(tr.FPS(), []float64{50, 100, 0, 0}, testutil.ApproxFloats()); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if tr.Cursor() != 2 {
		t.Fatalf("wanted cursor 2, got %d", tr.Cursor())
	}
}

func TestTrackerCursorWraps(t *testing.T) {
	tr := New(3, nil)
	for i := 1; i <= 5; i++ {
		tr.Record(time.Duration(i) * time.Second)
	}
	if tr.Cursor() != 2 {
		t.Fatalf("wanted cursor 2, got %d", tr.Cursor())
	}
	if diff := testutil.Diff(tr.Samples(), []float64{4, 5, 3}); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestTrackerDefaultCapacity(t *testing.T) {
	if c := New(0, nil).Capacity(); c != DefaultCapacity {
		t.Fatalf("wanted %d, got %d", DefaultCapacity, c)
	}
}

func TestTrackerSummary(t *testing.T) {
	tr := New(4, nil)
	if got := tr.Summary(); got.Filled != 0 || got.FPS != (quantile.Summary{}) {
		t.Fatalf("expected an empty summary, got %+v", got)
	}

	tr.Record(10 * time.Millisecond)
	tr.Record(20 * time.Millisecond)
	want := Summary{
		FPS:       quantile.Summary{Min: 50, Max: 100, Mean: 75},
		FrameTime: quantile.Summary{Min: 0.01, Max: 0.02, Mean: 0.015},
		Filled:    2,
		Capacity:  4,
	}
	if diff := testutil.Diff(tr.Summary(), want, testutil.ApproxFloats()); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestTrackerSummaryOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New(DefaultCapacity, nil)
	for i := 0; i < 2*DefaultCapacity+17; i++ {
		tr.Record(time.Duration(1+rng.Intn(50)) * time.Millisecond)
	}

	s := tr.Summary()
	if s.Filled != DefaultCapacity {
		t.Fatalf("wanted a full buffer, got %d", s.Filled)
	}
	for name, q := range map[string]quantile.Summary{"fps": s.FPS, "frame time": s.FrameTime} {
		if !(q.Min <= q.Mean && q.Mean <= q.Max) {
			t.Fatalf("%s: expected min <= avg <= max, got %+v", name, q)
		}
	}
}

func TestTrackerPlot(t *testing.T) {
	tr := New(6, nil)
	for i := 1; i <= 4; i++ {
		tr.Record(time.Duration(i) * time.Second)
	}
	// cursor is 4, half the capacity is 3: the window starts at slot 1
	want := Plot{
		FPS:       []float64{1.0 / 2, 1.0 / 3, 1},
		FrameTime: []float64{2, 3, 1},
	}
	if diff := testutil.Diff(tr.Plot(), want, testutil.ApproxFloats()); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestTrackerPlotSingleSlot(t *testing.T) {
	tr := New(1, nil)
	tr.Record(time.Second)
	if diff := testutil.Diff(tr.Plot().FrameTime, []float64{1}); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}
