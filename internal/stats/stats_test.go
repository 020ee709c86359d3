package stats

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"

	"github.com/verte-zerg/cubetime/internal/model"
)

func solvesOf(durations ...int64) []model.Solve {
	out := make([]model.Solve, len(durations))
	for i, d := range durations {
		out[i] = model.Solve{
			DurationMs:   d,
			ScrambleText: "R U",
			Timestamp:    fmt.Sprintf("2025-01-01T10:%02d:00.000Z", 59-i),
		}
	}
	return out
}

func TestMeanOfLastNAvailability(t *testing.T) {
	for length := 0; length <= 13; length++ {
		durations := make([]int64, length)
		for i := range durations {
			durations[i] = int64(1000 + i)
		}
		solves := solvesOf(durations...)
		for _, n := range []int{1, 5, 12, 100} {
			got := MeanOfLastN(solves, n)
			if got.OK != (length >= n) {
				t.Fatalf("len=%d n=%d: expected OK=%v, got %v", length, n, length >= n, got.OK)
			}
		}
	}
	if MeanOfLastN(solvesOf(1000), 0).OK {
		t.Fatalf("n=0 must be unavailable")
	}
}

func TestMeanOfLastNUsesNewest(t *testing.T) {
	solves := solvesOf(100, 200, 300, 400, 500, 10000)
	got := MeanOfLastN(solves, 5)
	if !got.OK || got.Millis != 300 {
		t.Fatalf("expected mean of newest five = 300, got %+v", got)
	}
}

func TestSummarizeThreeSolves(t *testing.T) {
	sum := Summarize(solvesOf(1000, 1200, 800))
	if !sum.Overall.OK || sum.Overall.Millis != 1000 {
		t.Fatalf("expected overall 1000, got %+v", sum.Overall)
	}
	if sum.Ao5.OK || sum.Ao12.OK || sum.Ao100.OK {
		t.Fatalf("expected rolling averages unavailable: %+v", sum)
	}
	if sum.Best.Millis != 800 || sum.Worst.Millis != 1200 {
		t.Fatalf("unexpected best/worst: %+v %+v", sum.Best, sum.Worst)
	}
}

func TestSummarizeEmptyThenOne(t *testing.T) {
	sum := Summarize(nil)
	for _, avg := range []Average{sum.Ao5, sum.Ao12, sum.Ao100, sum.Overall} {
		if avg.OK || avg.String() != "-" {
			t.Fatalf("expected unavailable average, got %+v", avg)
		}
	}
	sum = Summarize(solvesOf(500))
	if !sum.Overall.OK || sum.Overall.Millis != 500 {
		t.Fatalf("expected overall 500, got %+v", sum.Overall)
	}
}

func TestFormatMillis(t *testing.T) {
	cases := map[float64]string{
		0:       "0.00",
		9:       "0.00",
		12340:   "12.34",
		12349.9: "12.34",
		61005:   "61.00",
		-5:      "0.00",
	}
	for in, want := range cases {
		if got := FormatMillis(in); got != want {
			t.Fatalf("FormatMillis(%v): expected %q, got %q", in, want, got)
		}
	}
	if got := FormatMillis(math.NaN()); got != "0.00" {
		t.Fatalf("expected NaN to format as zero, got %q", got)
	}
}

func TestChronological(t *testing.T) {
	got := Chronological(solvesOf(3000, 2000, 1000))
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("expected oldest first in seconds, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, solvesOf(1000, 1200, 800, 1000, 1000)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Solves: 5", "Best: 0.80", "Ao5: 1.00", "Ao12: -", "Overall: 1.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestRenderSolveTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSolveTable(&buf, solvesOf(1500, 900)); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2 1.50") || !strings.HasPrefix(lines[2], "1 0.90") {
		t.Fatalf("unexpected rows: %q", lines)
	}
}

func TestWritePrometheus(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePrometheus(&buf, solvesOf(1000, 1200, 800, 1000, 1000, 2000)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := families["cubetime_solves"].GetMetric()[0].GetGauge().GetValue(); got != 6 {
		t.Fatalf("expected 6 solves, got %v", got)
	}
	windows := map[string]float64{}
	for _, m := range families["cubetime_average_seconds"].GetMetric() {
		windows[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
	}
	if windows["5"] != 1 {
		t.Fatalf("expected ao5 of 1s, got %v", windows["5"])
	}
	if _, ok := windows["12"]; ok {
		t.Fatalf("ao12 should be omitted when unavailable")
	}
	if _, ok := windows["all"]; !ok {
		t.Fatalf("expected overall average")
	}
	if got := families["cubetime_best_seconds"].GetMetric()[0].GetGauge().GetValue(); got != 0.8 {
		t.Fatalf("expected best 0.8, got %v", got)
	}
}

func TestWritePrometheusEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePrometheus(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "cubetime_solves 0") {
		t.Fatalf("expected zero solves gauge, got %s", out)
	}
	if strings.Contains(out, "cubetime_average_seconds") {
		t.Fatalf("expected no averages for empty history: %s", out)
	}
}
