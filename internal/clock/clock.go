package clock

import "time"

// NowFunc returns the current time. Values returned by time.Now carry a
// monotonic reading, which is what every subtraction in this module relies on.
type NowFunc func() time.Time

// System is the default time source.
var System NowFunc = time.Now

// Clock tracks the time elapsed between two calls to Update and since its
// construction. A Clock is not safe for concurrent use.
type Clock struct {
	now NowFunc

	start time.Time
	last  time.Time

	delta time.Duration
	total time.Duration
}

func New() *Clock {
	return NewWithSource(System)
}

// NewWithSource returns a Clock reading time from now. A nil now falls back to
// the system clock.
func NewWithSource(now NowFunc) *Clock {
	if now == nil {
		now = System
	}
	t := now()
	return &Clock{
		now:   now,
		start: t,
		last:  t,
	}
}

// Update samples the time source and recomputes the delta and total times.
func (c *Clock) Update() {
	t := c.now()
	c.delta = t.Sub(c.last)
	c.total = t.Sub(c.start)
	c.last = t
}

// DeltaTime returns the time between the last two calls to Update.
func (c *Clock) DeltaTime() time.Duration {
	return c.delta
}

// TotalTime returns the time between construction and the last call to Update.
func (c *Clock) TotalTime() time.Duration {
	return c.total
}

func (c *Clock) DeltaSeconds() float64 {
	return c.delta.Seconds()
}
