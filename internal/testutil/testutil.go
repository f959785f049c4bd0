package testutil

import (
	"math"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	alwaysEqual       = cmp.Comparer(func(_, _ interface{}) bool { return true })
	defaultCmpOptions = []cmp.Option{
		// NaNs compare equal
		cmp.FilterValues(func(x, y float64) bool {
			return math.IsNaN(x) && math.IsNaN(y)
		}, alwaysEqual),
		cmp.FilterValues(func(x, y float32) bool {
			return math.IsNaN(float64(x)) && math.IsNaN(float64(y))
		}, alwaysEqual),
	}
)

func Diff(a, b interface{}, opts ...cmp.Option) string {
	opts = append(opts, defaultCmpOptions...)
	return cmp.Diff(a, b, opts...)
}

// ApproxFloats makes Diff tolerate rounding errors on derived statistics.
func ApproxFloats() cmp.Option {
	return cmpopts.EquateApprox(1e-9, 1e-9)
}

// FixedClock returns a time source advanced manually by the caller. It is not
// safe for concurrent use.
func FixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	t := start
	now := func() time.Time { return t }
	advance := func(d time.Duration) { t = t.Add(d) }
	return now, advance
}
