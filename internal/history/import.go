package history

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/cubetime/internal/model"
)

// importRecord accepts both the native field names and the browser
// export's {time, scramble, date}.
type importRecord struct {
	DurationMs   *float64 `json:"durationMs"`
	ScrambleText string   `json:"scrambleText"`
	Timestamp    string   `json:"timestamp"`

	Time     *float64 `json:"time"`
	Scramble string   `json:"scramble"`
	Date     string   `json:"date"`
}

// DecodeImport parses solves from either export format.
func DecodeImport(data []byte) ([]model.Solve, error) {
	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode import: %w", err)
	}
	solves := make([]model.Solve, 0, len(records))
	for i, r := range records {
		s, err := r.solve()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		solves = append(solves, s)
	}
	return solves, nil
}

func (r importRecord) solve() (model.Solve, error) {
	duration := r.DurationMs
	if duration == nil {
		duration = r.Time
	}
	if duration == nil {
		return model.Solve{}, fmt.Errorf("missing duration")
	}
	if *duration < 0 || math.IsNaN(*duration) || math.IsInf(*duration, 0) {
		return model.Solve{}, fmt.Errorf("invalid duration %v", *duration)
	}
	scramble := r.ScrambleText
	if scramble == "" {
		scramble = r.Scramble
	}
	stamp := r.Timestamp
	if stamp == "" {
		stamp = r.Date
	}
	parsed, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return model.Solve{}, fmt.Errorf("invalid timestamp %q: %w", stamp, err)
	}
	return model.Solve{
		DurationMs:   int64(math.Round(*duration)),
		ScrambleText: scramble,
		Timestamp:    model.FormatTimestamp(parsed),
	}, nil
}
