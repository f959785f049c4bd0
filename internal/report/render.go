package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/getsentry/timekeeper/internal/aggregate"
	"github.com/getsentry/timekeeper/internal/framerate"
)

const nameWidth = 32

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	threadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	plotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// sparkline block characters from lowest to highest
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Render writes a text rendition of r to w.
func Render(w io.Writer, r Report, opts DisplayOptions) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Performance Stats"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("═", 60)))
	b.WriteString("\n")

	if len(r.Threads) == 0 {
		b.WriteString(dimStyle.Render("  no frames aggregated yet"))
		b.WriteString("\n")
	}
	for _, t := range r.Threads {
		renderStats(&b, t.Stats, 0, opts)
	}

	b.WriteString(dimStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n")
	renderFrameRate(&b, r.FrameRate, r.Plot, opts)

	_, err := io.WriteString(w, b.String())
	return err
}

func renderStats(b *strings.Builder, s aggregate.Stats, depth int, opts DisplayOptions) {
	indent := strings.Repeat("  ", depth+1)
	name := s.Name
	if width := nameWidth - len(indent); len(name) < width {
		name += strings.Repeat(" ", width-len(name))
	}
	if depth == 0 {
		name = threadStyle.Render(name)
	}
	b.WriteString(indent)
	b.WriteString(name)
	if opts.ShowPercent {
		fmt.Fprintf(b, " %8.2f%%", s.PercentOfTotal)
	}
	if opts.ShowMs {
		fmt.Fprintf(b, " %10.4f ms", s.AverageContributionMs)
	}
	if opts.ShowEntries {
		fmt.Fprintf(b, " %8.2f entries/frame", s.EntriesPerFrame)
	}
	b.WriteString("\n")
	for _, c := range s.Children {
		renderStats(b, c, depth+1, opts)
	}
}

func renderFrameRate(b *strings.Builder, s framerate.Summary, plot *framerate.Plot, opts DisplayOptions) {
	fmt.Fprintf(b, "  FPS        min %8.2f  max %8.2f  avg %8.2f\n", s.FPS.Min, s.FPS.Max, s.FPS.Mean)
	if plot != nil && opts.MinDisplayFPS > 0 && opts.MaxDisplayFPS > opts.MinDisplayFPS {
		b.WriteString("  ")
		b.WriteString(plotStyle.Render(Sparkline(plot.FPS, opts.MinDisplayFPS, opts.MaxDisplayFPS)))
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "  FrameTime  min %8.4f  max %8.4f  avg %8.4f\n", s.FrameTime.Min, s.FrameTime.Max, s.FrameTime.Mean)
	if plot != nil && opts.MinDisplayFPS > 0 && opts.MaxDisplayFPS > opts.MinDisplayFPS {
		b.WriteString("  ")
		b.WriteString(plotStyle.Render(Sparkline(plot.FrameTime, 1/opts.MaxDisplayFPS, 1/opts.MinDisplayFPS)))
		b.WriteString("\n")
	}
}

// Sparkline renders values on a fixed [lo, hi] scale. Values outside the
// scale are clamped.
func Sparkline(values []float64, lo, hi float64) string {
	var b strings.Builder
	rng := hi - lo
	for _, v := range values {
		idx := 0
		if rng > 0 {
			idx = int((v - lo) / rng * float64(len(sparkBlocks)-1))
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
