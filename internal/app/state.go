// Package app owns the session state shared by the timer and stats views:
// the solve history, the scramble for the next attempt and the theme.
//
// Every mutation updates memory first and then writes the whole value back
// to the key/value store. A failed write is logged and returned but never
// rolls back or corrupts the in-memory state.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/cubetime/internal/history"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/scramble"
	"github.com/verte-zerg/cubetime/internal/store"
)

// Storage keys.
const (
	KeySolves = "solves"
	KeyTheme  = "theme"
)

// Scrambler produces scramble text for the next attempt.
type Scrambler interface {
	Text(length int) string
}

// State is the in-memory application state.
type State struct {
	kv     store.KV
	log    zerolog.Logger
	gen    Scrambler
	length int

	history  *history.History
	scramble string
	theme    model.Theme
}

// Load reads the history and theme from kv. A missing or malformed history
// loads as empty.
func Load(ctx context.Context, kv store.KV, gen Scrambler, scrambleLength int, log zerolog.Logger) *State {
	if scrambleLength <= 0 {
		scrambleLength = scramble.DefaultLength
	}
	s := &State{
		kv:      kv,
		log:     log,
		gen:     gen,
		length:  scrambleLength,
		history: history.New(nil),
		theme:   model.ThemeDark,
	}
	s.history = history.New(s.loadSolves(ctx))
	s.theme = s.loadTheme(ctx)
	s.scramble = gen.Text(scrambleLength)
	return s
}

func (s *State) loadSolves(ctx context.Context) []model.Solve {
	data, err := s.kv.Get(ctx, KeySolves)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", KeySolves).Msg("failed to read history; starting empty")
		return nil
	}
	solves, err := history.Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Str("key", KeySolves).Msg("malformed history; starting empty")
		return nil
	}
	s.log.Debug().Int("solves", len(solves)).Msg("history loaded")
	return solves
}

func (s *State) loadTheme(ctx context.Context) model.Theme {
	data, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn().Err(err).Str("key", KeyTheme).Msg("failed to read theme")
		}
		return model.ThemeDark
	}
	if model.Theme(strings.TrimSpace(string(data))) == model.ThemeLight {
		return model.ThemeLight
	}
	return model.ThemeDark
}

// Solves returns the history, newest first.
func (s *State) Solves() []model.Solve {
	return s.history.Solves()
}

// Len returns the number of solves.
func (s *State) Len() int {
	return s.history.Len()
}

// Scramble returns the scramble for the upcoming attempt.
func (s *State) Scramble() string {
	return s.scramble
}

// Theme returns the current theme.
func (s *State) Theme() model.Theme {
	return s.theme
}

// SetScrambleLength changes the length used for future scrambles.
func (s *State) SetScrambleLength(n int) {
	if n > 0 {
		s.length = n
	}
}

// NextScramble replaces the current scramble without recording a solve.
func (s *State) NextScramble() string {
	s.scramble = s.gen.Text(s.length)
	return s.scramble
}

// Record stores a completed solve for the current scramble and rotates the
// scramble. The returned solve is recorded even when persisting fails.
func (s *State) Record(ctx context.Context, elapsed time.Duration, at time.Time) (model.Solve, error) {
	solve := model.Solve{
		DurationMs:   elapsed.Milliseconds(),
		ScrambleText: s.scramble,
		Timestamp:    s.uniqueTimestamp(at),
	}
	if err := s.history.Append(solve); err != nil {
		return model.Solve{}, err
	}
	s.NextScramble()
	s.log.Info().Int64("duration_ms", solve.DurationMs).Str("timestamp", solve.Timestamp).Msg("solve recorded")
	return solve, s.persistSolves(ctx)
}

// Delete removes the solve with the timestamp. Absent timestamps are a no-op
// and are not persisted.
func (s *State) Delete(ctx context.Context, timestamp string) (bool, error) {
	if !s.history.Delete(timestamp) {
		return false, nil
	}
	s.log.Info().Str("timestamp", timestamp).Msg("solve deleted")
	return true, s.persistSolves(ctx)
}

// Import merges solves and persists when anything was added.
func (s *State) Import(ctx context.Context, solves []model.Solve) (int, error) {
	added := s.history.Merge(solves)
	if added == 0 {
		return 0, nil
	}
	s.log.Info().Int("added", added).Msg("solves imported")
	return added, s.persistSolves(ctx)
}

// ToggleTheme switches and persists the theme.
func (s *State) ToggleTheme(ctx context.Context) (model.Theme, error) {
	s.theme = s.theme.Toggle()
	if err := s.kv.Put(ctx, KeyTheme, []byte(s.theme)); err != nil {
		s.log.Error().Err(err).Str("key", KeyTheme).Msg("failed to save theme")
		return s.theme, fmt.Errorf("failed to save theme: %w", err)
	}
	return s.theme, nil
}

func (s *State) persistSolves(ctx context.Context) error {
	data, err := history.Encode(s.history.Solves())
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Put(ctx, KeySolves, data); err != nil {
		s.log.Error().Err(err).Str("key", KeySolves).Msg("failed to save history")
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *State) uniqueTimestamp(at time.Time) string {
	at = at.UTC().Truncate(time.Millisecond)
	ts := model.FormatTimestamp(at)
	for s.history.Contains(ts) {
		at = at.Add(time.Millisecond)
		ts = model.FormatTimestamp(at)
	}
	return ts
}
