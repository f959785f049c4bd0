package report

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getsentry/timekeeper/internal/aggregate"
	"github.com/getsentry/timekeeper/internal/framerate"
)

type (
	// DisplayOptions are owned by whoever presents the statistics. The
	// profiler never reads them.
	DisplayOptions struct {
		ShowPercent bool `yaml:"show_percent" env:"SHOW_PERCENT" env-default:"true"`
		ShowMs      bool `yaml:"show_ms" env:"SHOW_MS" env-default:"true"`
		ShowEntries bool `yaml:"show_entries" env:"SHOW_ENTRIES" env-default:"true"`

		// Range of the frame rate plot. The frame time plot uses the
		// matching range of frame times.
		MinDisplayFPS float64 `yaml:"min_display_fps" env:"MIN_DISPLAY_FPS" env-default:"10"`
		MaxDisplayFPS float64 `yaml:"max_display_fps" env:"MAX_DISPLAY_FPS" env-default:"144"`
	}

	// Report is everything the profiler exposes at one point in time.
	Report struct {
		Session   string                  `json:"session"`
		Timestamp time.Time               `json:"timestamp"`
		Threads   []aggregate.ThreadStats `json:"threads"`
		FrameRate framerate.Summary       `json:"frame_rate"`
		Plot      *framerate.Plot         `json:"plot,omitempty"`
	}
)

// NewSession returns an identifier for the running process, so consumers of
// reports can tell when statistics restarted from scratch.
func NewSession() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
