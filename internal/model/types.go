// Package model defines shared data structures.
package model

import "time"

// TimestampLayout is the ISO-8601 layout used for solve identifiers.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Config defines timer settings.
type Config struct {
	ScrambleLength int
	Hold           time.Duration
	ReleaseTimeout time.Duration
	Tick           time.Duration
	Recent         int
}

// StorageConfig selects the key/value backend.
type StorageConfig struct {
	Backend string
	Path    string
}

// Solve is a completed timed attempt.
type Solve struct {
	DurationMs   int64  `json:"durationMs" yaml:"durationMs"`
	ScrambleText string `json:"scrambleText" yaml:"scrambleText"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
}

// FormatTimestamp renders t as a solve identifier.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Time parses the solve timestamp. Zero time is returned for malformed values.
func (s Solve) Time() time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Theme is the colour palette preference.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
