package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/cubetime/internal/history"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/store"
)

type memKV struct {
	data    map[string][]byte
	putErr  error
	putKeys []string
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.putKeys = append(m.putKeys, key)
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Close() error { return nil }

type seqScrambler struct {
	n int
}

func (s *seqScrambler) Text(int) string {
	s.n++
	return []string{"", "R U", "L D", "F B", "U2 R'"}[s.n%5]
}

var t0 = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestLoadMalformedHistoryIsEmpty(t *testing.T) {
	kv := newMemKV()
	kv.data[KeySolves] = []byte("{broken")
	st := Load(context.Background(), kv, &seqScrambler{}, 20, zerolog.Nop())
	if st.Len() != 0 {
		t.Fatalf("expected empty history, got %d", st.Len())
	}
	if st.Scramble() == "" {
		t.Fatalf("expected initial scramble")
	}
	if st.Theme() != model.ThemeDark {
		t.Fatalf("expected default theme, got %s", st.Theme())
	}
}

func TestRecordPersistsAndRotatesScramble(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	st := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	scramble := st.Scramble()

	solve, err := st.Record(ctx, 12340*time.Millisecond, t0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if solve.DurationMs != 12340 || solve.ScrambleText != scramble {
		t.Fatalf("unexpected solve: %+v", solve)
	}
	if solve.Timestamp != "2025-06-01T09:30:00.000Z" {
		t.Fatalf("unexpected timestamp %q", solve.Timestamp)
	}
	if st.Scramble() == scramble {
		t.Fatalf("expected scramble to rotate after a solve")
	}
	saved, err := history.Decode(kv.data[KeySolves])
	if err != nil {
		t.Fatalf("decode saved: %v", err)
	}
	if len(saved) != 1 || saved[0] != solve {
		t.Fatalf("unexpected persisted history: %+v", saved)
	}

	reloaded := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	if reloaded.Len() != 1 {
		t.Fatalf("expected reloaded history to have 1 solve, got %d", reloaded.Len())
	}
}

func TestRecordSameInstantGetsUniqueTimestamp(t *testing.T) {
	ctx := context.Background()
	st := Load(ctx, newMemKV(), &seqScrambler{}, 20, zerolog.Nop())
	a, err := st.Record(ctx, time.Second, t0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	b, err := st.Record(ctx, time.Second, t0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.Timestamp == b.Timestamp {
		t.Fatalf("expected unique timestamps, got %q twice", a.Timestamp)
	}
}

func TestDeletePersistsOnlyWhenPresent(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	st := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	solve, err := st.Record(ctx, time.Second, t0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	writes := len(kv.putKeys)

	ok, err := st.Delete(ctx, "2000-01-01T00:00:00.000Z")
	if err != nil || ok {
		t.Fatalf("expected no-op delete, got %v %v", ok, err)
	}
	if len(kv.putKeys) != writes {
		t.Fatalf("no-op delete should not persist")
	}
	ok, err = st.Delete(ctx, solve.Timestamp)
	if err != nil || !ok {
		t.Fatalf("expected delete, got %v %v", ok, err)
	}
	if st.Len() != 0 || string(kv.data[KeySolves]) != "[]" {
		t.Fatalf("expected empty persisted history, got %s", kv.data[KeySolves])
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.putErr = errors.New("quota exceeded")
	st := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	solve, err := st.Record(ctx, 900*time.Millisecond, t0)
	if err == nil {
		t.Fatalf("expected persist error")
	}
	if st.Len() != 1 || st.Solves()[0] != solve {
		t.Fatalf("expected in-memory solve to survive, got %+v", st.Solves())
	}
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	st := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	theme, err := st.ToggleTheme(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if theme != model.ThemeLight {
		t.Fatalf("expected light theme, got %s", theme)
	}
	reloaded := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	if reloaded.Theme() != model.ThemeLight {
		t.Fatalf("expected persisted light theme, got %s", reloaded.Theme())
	}
}

func TestImportSkipsKnown(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	st := Load(ctx, kv, &seqScrambler{}, 20, zerolog.Nop())
	solve, err := st.Record(ctx, time.Second, t0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	added, err := st.Import(ctx, []model.Solve{
		solve,
		{DurationMs: 2000, ScrambleText: "R", Timestamp: "2025-05-01T00:00:00.000Z"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 || st.Len() != 2 {
		t.Fatalf("expected 1 added and 2 total, got %d and %d", added, st.Len())
	}
}
