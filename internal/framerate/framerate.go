package framerate

import (
	"sync"
	"time"

	"github.com/getsentry/timekeeper/internal/clock"
	"github.com/getsentry/timekeeper/internal/quantile"
)

// DefaultCapacity is the number of frame times kept when none is configured.
const DefaultCapacity = 300

type (
	// Tracker keeps the most recent frame times in a circular buffer.
	Tracker struct {
		mu      sync.Mutex
		clock   *clock.Clock
		samples []float64
		cursor  int
		filled  int
	}

	Summary struct {
		FPS       quantile.Summary `json:"fps"`
		FrameTime quantile.Summary `json:"frame_time"`
		Filled    int              `json:"filled"`
		Capacity  int              `json:"capacity"`
	}

	// Plot holds the sliding windows of the buffer the way a line plot reads
	// them, oldest value first.
	Plot struct {
		FPS       []float64 `json:"fps"`
		FrameTime []float64 `json:"frame_time"`
	}
)

// New returns a Tracker holding capacity frame times, fed by c. A nil clock
// reads the system time.
func New(capacity int, c *clock.Clock) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if c == nil {
		c = clock.New()
	}
	return &Tracker{
		clock:   c,
		samples: make([]float64, capacity),
	}
}

// Update samples the clock and records the time elapsed since the previous
// update. It is meant to be called once per display cycle.
func (t *Tracker) Update() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock.Update()
	d := t.clock.DeltaTime()
	t.record(d)
	return d
}

// Record stores d at the cursor and advances it.
func (t *Tracker) Record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(d)
}

func (t *Tracker) record(d time.Duration) {
	t.samples[t.cursor] = d.Seconds()
	t.cursor = (t.cursor + 1) % len(t.samples)
	if t.filled < len(t.samples) {
		t.filled++
	}
}

func (t *Tracker) Capacity() int {
	return len(t.samples)
}

func (t *Tracker) Cursor() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// Samples returns a copy of the buffer, in seconds, in slot order.
func (t *Tracker) Samples() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	samples := make([]float64, len(t.samples))
	copy(samples, t.samples)
	return samples
}

// FPS returns the instantaneous frame rate of every slot. Empty slots and
// zero frame times report 0.
func (t *Tracker) FPS() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return framesPerSecond(t.samples)
}

// Summary returns the bounds and averages of the frame rate and frame time
// over the filled part of the buffer, which is the whole buffer once it has
// wrapped around.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	filled := t.samples[:t.filled]
	return Summary{
		FPS:       quantile.Summarize(framesPerSecond(filled)),
		FrameTime: quantile.Summarize(filled),
		Filled:    t.filled,
		Capacity:  len(t.samples),
	}
}

// Plot returns half a buffer of frame rates and frame times, read from the
// first half of the buffer starting at the cursor modulo half the capacity.
func (t *Tracker) Plot() Plot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Plot{
		FPS:       window(framesPerSecond(t.samples), t.cursor),
		FrameTime: window(t.samples, t.cursor),
	}
}

func window(values []float64, cursor int) []float64 {
	half := len(values) / 2
	if half == 0 {
		half = len(values)
	}
	offset := cursor % half
	w := make([]float64, half)
	for i := range w {
		w[i] = values[(offset+i)%half]
	}
	return w
}

func framesPerSecond(samples []float64) []float64 {
	fps := make([]float64, len(samples))
	for i, s := range samples {
		if s > 0 {
			fps[i] = 1 / s
		}
	}
	return fps
}
