// Package stats contains solve statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/cubetime/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Windows are the rolling average sizes shown everywhere.
var Windows = []int{5, 12, 100}

// Average is a mean duration that may be unavailable.
type Average struct {
	Millis float64
	OK     bool
}

// String formats the average, or "-" when unavailable.
func (a Average) String() string {
	if !a.OK {
		return "-"
	}
	return FormatMillis(a.Millis)
}

// Summary holds the aggregates for a history.
type Summary struct {
	Count   int
	Ao5     Average
	Ao12    Average
	Ao100   Average
	Overall Average
	Best    Average
	Worst   Average
}

// ByWindow returns the rolling average for one of Windows.
func (s Summary) ByWindow(n int) Average {
	switch n {
	case 5:
		return s.Ao5
	case 12:
		return s.Ao12
	case 100:
		return s.Ao100
	default:
		return Average{}
	}
}

// MeanOfLastN is the plain mean of the n newest durations. It is unavailable
// when fewer than n solves exist. No best/worst trimming is applied.
func MeanOfLastN(solves []model.Solve, n int) Average {
	if n <= 0 || len(solves) < n {
		return Average{}
	}
	var sum int64
	for _, s := range solves[:n] {
		sum += s.DurationMs
	}
	return Average{Millis: float64(sum) / float64(n), OK: true}
}

// Summarize computes all aggregates for newest-first solves.
func Summarize(solves []model.Solve) Summary {
	sum := Summary{
		Count:   len(solves),
		Ao5:     MeanOfLastN(solves, 5),
		Ao12:    MeanOfLastN(solves, 12),
		Ao100:   MeanOfLastN(solves, 100),
		Overall: MeanOfLastN(solves, len(solves)),
	}
	for i, s := range solves {
		v := float64(s.DurationMs)
		if i == 0 || v < sum.Best.Millis {
			sum.Best = Average{Millis: v, OK: true}
		}
		if i == 0 || v > sum.Worst.Millis {
			sum.Worst = Average{Millis: v, OK: true}
		}
	}
	return sum
}

// FormatMillis renders milliseconds as seconds.centiseconds, truncating.
func FormatMillis(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	centis := int64(math.Floor(ms / 10))
	return fmt.Sprintf("%d.%02d", centis/100, centis%100)
}

// FormatDuration renders a solve duration in milliseconds.
func FormatDuration(ms int64) string {
	return FormatMillis(float64(ms))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Chronological returns durations in seconds, oldest first.
func Chronological(solves []model.Solve) []float64 {
	out := make([]float64, len(solves))
	for i, s := range solves {
		out[len(solves)-1-i] = float64(s.DurationMs) / 1000
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the aggregates.
func RenderSummary(w io.Writer, solves []model.Solve) error {
	if len(solves) == 0 {
		_, err := fmt.Fprintln(w, "No solves found.")
		return err
	}
	sum := Summarize(solves)
	lines := []string{
		"Summary",
		fmt.Sprintf("Solves: %d", sum.Count),
		fmt.Sprintf("Best: %s", sum.Best),
		fmt.Sprintf("Worst: %s", sum.Worst),
		fmt.Sprintf("Ao5: %s", sum.Ao5),
		fmt.Sprintf("Ao12: %s", sum.Ao12),
		fmt.Sprintf("Ao100: %s", sum.Ao100),
		fmt.Sprintf("Overall: %s", sum.Overall),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSolveTable prints solves newest first, numbered like the timer list.
func RenderSolveTable(w io.Writer, solves []model.Solve) error {
	if len(solves) == 0 {
		_, err := fmt.Fprintln(w, "No solves found.")
		return err
	}
	tbl := newTextTable("#", "Time", "Timestamp", "Scramble").alignRight(0, 1)
	for i, s := range solves {
		tbl.add(
			fmt.Sprintf("%d", len(solves)-i),
			FormatDuration(s.DurationMs),
			s.Timestamp,
			s.ScrambleText,
		)
	}
	return tbl.write(w)
}

// RenderCurves prints solve times with Ao5 and Ao12 curves.
func RenderCurves(w io.Writer, solves []model.Solve) error {
	return RenderCurvesWithSize(w, solves, 0, 10, false)
}

// RenderCurvesWithSize prints solve-time curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, solves []model.Solve, totalWidth, height int, useColor bool) error {
	if len(solves) == 0 {
		return nil
	}
	times := Chronological(solves)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Solve Times (s)", []Series{
		{Name: "Single", Values: times},
		{Name: "Ao5", Values: MovingAverage(times, 5)},
		{Name: "Ao12", Values: MovingAverage(times, 12)},
	}, width, height, useColor)
}
