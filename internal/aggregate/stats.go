package aggregate

import (
	"fmt"
	"time"

	"github.com/getsentry/timekeeper/internal/errorutil"
	"github.com/getsentry/timekeeper/internal/frame"
)

var errNoFrames = fmt.Errorf("aggregate: %w: no frames aggregated", errorutil.ErrNoData)

type (
	// Stats is the presentation view of a Record.
	Stats struct {
		Name                  string  `json:"name"`
		Count                 uint64  `json:"count"`
		TimeMs                float64 `json:"time_ms"`
		PercentOfTotal        float64 `json:"percent_of_total"`
		AverageContributionMs float64 `json:"average_contribution_ms"`
		EntriesPerFrame       float64 `json:"entries_per_frame"`
		Children              []Stats `json:"children,omitempty"`
	}

	ThreadStats struct {
		ThreadID frame.ThreadID `json:"thread_id"`
		Stats
	}
)

// Derive computes the statistics of r and its descendants relative to the
// number of frames and the time aggregated for the whole thread. It returns
// an error wrapping errorutil.ErrNoData when either total is zero.
func Derive(r *Record, totalFrames uint64, totalTime time.Duration) (Stats, error) {
	if r == nil || totalFrames == 0 || totalTime <= 0 {
		return Stats{}, errNoFrames
	}
	return derive(r, float64(totalFrames), totalTime.Seconds()), nil
}

func derive(r *Record, totalFrames, totalSeconds float64) Stats {
	seconds := r.Time.Seconds()
	count := float64(r.Count)
	s := Stats{
		Name:            r.Name,
		Count:           r.Count,
		TimeMs:          seconds * 1000,
		EntriesPerFrame: count / totalFrames,
		PercentOfTotal:  seconds / totalSeconds * 100,
	}
	if r.Count > 0 {
		// Equal to seconds / totalFrames * 1000, kept in the form the
		// profiler has always reported.
		s.AverageContributionMs = s.EntriesPerFrame * seconds / count * 1000
	}
	if len(r.Children) > 0 {
		s.Children = make([]Stats, 0, len(r.Children))
		for _, c := range r.Children {
			s.Children = append(s.Children, derive(c, totalFrames, totalSeconds))
		}
	}
	return s
}

// Stats derives the statistics of the thread's whole tree, using the root's
// frame count and time as totals.
func (t ThreadRecord) Stats() (ThreadStats, error) {
	if t.Root == nil {
		return ThreadStats{}, errNoFrames
	}
	s, err := Derive(t.Root, t.Root.Count, t.Root.Time)
	if err != nil {
		return ThreadStats{}, err
	}
	return ThreadStats{ThreadID: t.ThreadID, Stats: s}, nil
}
