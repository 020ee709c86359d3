// Package history keeps the ordered list of solves.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/cubetime/internal/model"
)

// ErrDuplicate is returned when a solve with the same timestamp exists.
var ErrDuplicate = errors.New("duplicate solve timestamp")

// History is a newest-first list of solves with unique timestamps.
type History struct {
	solves []model.Solve
	index  map[string]struct{}
}

// New builds a history from newest-first solves. Later duplicates are dropped.
func New(solves []model.Solve) *History {
	h := &History{
		solves: make([]model.Solve, 0, len(solves)),
		index:  make(map[string]struct{}, len(solves)),
	}
	for _, s := range solves {
		if _, ok := h.index[s.Timestamp]; ok {
			continue
		}
		h.index[s.Timestamp] = struct{}{}
		h.solves = append(h.solves, s)
	}
	return h
}

// Len returns the number of solves.
func (h *History) Len() int {
	return len(h.solves)
}

// Solves returns a copy of the solves, newest first.
func (h *History) Solves() []model.Solve {
	out := make([]model.Solve, len(h.solves))
	copy(out, h.solves)
	return out
}

// Contains reports whether a solve with the timestamp exists.
func (h *History) Contains(timestamp string) bool {
	_, ok := h.index[timestamp]
	return ok
}

// Append inserts s as the newest solve.
func (h *History) Append(s model.Solve) error {
	if s.DurationMs < 0 {
		return fmt.Errorf("negative duration %d", s.DurationMs)
	}
	if h.Contains(s.Timestamp) {
		return fmt.Errorf("%w: %s", ErrDuplicate, s.Timestamp)
	}
	next := make([]model.Solve, 0, len(h.solves)+1)
	next = append(next, s)
	next = append(next, h.solves...)
	h.solves = next
	h.index[s.Timestamp] = struct{}{}
	return nil
}

// Delete removes the solve with the timestamp and reports whether it existed.
func (h *History) Delete(timestamp string) bool {
	if !h.Contains(timestamp) {
		return false
	}
	next := make([]model.Solve, 0, len(h.solves)-1)
	for _, s := range h.solves {
		if s.Timestamp == timestamp {
			continue
		}
		next = append(next, s)
	}
	h.solves = next
	delete(h.index, timestamp)
	return true
}

// Merge adds solves whose timestamps are unknown and re-sorts newest first.
// It returns the number of solves added.
func (h *History) Merge(solves []model.Solve) int {
	added := 0
	for _, s := range solves {
		if s.DurationMs < 0 || h.Contains(s.Timestamp) {
			continue
		}
		h.solves = append(h.solves, s)
		h.index[s.Timestamp] = struct{}{}
		added++
	}
	if added > 0 {
		sort.SliceStable(h.solves, func(i, j int) bool {
			return h.solves[i].Time().After(h.solves[j].Time())
		})
	}
	return added
}

// Durations returns the durations of the newest n solves, or all when n <= 0.
func (h *History) Durations(n int) []int64 {
	if n <= 0 || n > len(h.solves) {
		n = len(h.solves)
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = h.solves[i].DurationMs
	}
	return out
}

// Encode serializes solves as a JSON array.
func Encode(solves []model.Solve) ([]byte, error) {
	if solves == nil {
		solves = []model.Solve{}
	}
	return json.Marshal(solves)
}

// Decode parses a JSON array of solves.
func Decode(data []byte) ([]model.Solve, error) {
	var solves []model.Solve
	if err := json.Unmarshal(data, &solves); err != nil {
		return nil, fmt.Errorf("failed to decode solves: %w", err)
	}
	for i, s := range solves {
		if s.DurationMs < 0 {
			return nil, fmt.Errorf("solve %d has negative duration", i)
		}
		if s.Timestamp == "" {
			return nil, fmt.Errorf("solve %d has no timestamp", i)
		}
	}
	return solves, nil
}
