package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/cubetime/internal/app"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/store"
)

type fixedScrambler struct{}

func (fixedScrambler) Text(int) string { return "R U R' U'" }

func newTestState(t *testing.T, durations ...int64) *app.State {
	t.Helper()
	kv, err := store.OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st := app.Load(context.Background(), kv, fixedScrambler{}, 4, zerolog.Nop())
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	for i, d := range durations {
		if _, err := st.Record(context.Background(), time.Duration(d)*time.Millisecond, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	return st
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsSummaryCards(t *testing.T) {
	st := newTestState(t, 10000, 12000, 14000, 11000, 13000)
	m := NewModel(st, zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Solves: 5", "Ao5", "12.00", "Best", "10.00", "Ao12", "-"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestOverviewEmpty(t *testing.T) {
	m := NewModel(newTestState(t), zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "No solves found.") {
		t.Fatalf("expected empty message")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(key("d"))
	if m.pending != "" {
		t.Fatalf("delete on empty table should not prompt")
	}
}

func TestDeleteSelectedSolveAfterConfirm(t *testing.T) {
	st := newTestState(t, 10000, 20000, 30000)
	m := NewModel(st, zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSolves {
		t.Fatalf("expected solves tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(key("d"))
	want := st.Solves()[1].Timestamp
	if m.pending != want {
		t.Fatalf("expected pending %q, got %q", want, m.pending)
	}
	if !strings.Contains(m.View(), "Delete solve?") {
		t.Fatalf("expected confirmation modal")
	}

	m.Update(key("q"))
	if m.pending == "" {
		t.Fatalf("q should not dismiss the confirmation")
	}
	m.Update(key("y"))
	if m.pending != "" {
		t.Fatalf("expected confirmation cleared")
	}
	solves := st.Solves()
	if len(solves) != 2 {
		t.Fatalf("expected 2 solves, got %d", len(solves))
	}
	for _, s := range solves {
		if s.Timestamp == want {
			t.Fatalf("solve %s not deleted", want)
		}
	}
	if len(m.solves) != 2 || m.solveTable.Cursor() > 1 {
		t.Fatalf("table not refreshed: %d rows cursor %d", len(m.solves), m.solveTable.Cursor())
	}
}

func TestDeleteCancelKeepsSolve(t *testing.T) {
	st := newTestState(t, 10000, 20000)
	m := NewModel(st, zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(key("d"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.pending != "" || st.Len() != 2 {
		t.Fatalf("expected cancel to keep solves, got %d", st.Len())
	}
}

func TestSolveRowsNumberNewestHighest(t *testing.T) {
	rows := solveRows([]model.Solve{
		{DurationMs: 9870, ScrambleText: "R", Timestamp: "b"},
		{DurationMs: 12345, ScrambleText: "U", Timestamp: "a"},
	})
	if rows[0][0] != "2" || rows[0][1] != "9.87" || rows[1][0] != "1" || rows[1][1] != "12.34" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestFitLinesPadsAndCrops(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
}

func TestStylesFollowPersistedTheme(t *testing.T) {
	st := newTestState(t)
	dark := NewModel(st, zerolog.Nop())
	if got := dark.styles.cardValue.GetForeground(); got != lipgloss.Color(darkColors.text) {
		t.Fatalf("expected dark text colour, got %v", got)
	}
	if _, err := st.ToggleTheme(context.Background()); err != nil {
		t.Fatalf("toggle theme: %v", err)
	}
	light := NewModel(st, zerolog.Nop())
	if got := light.styles.cardValue.GetForeground(); got != lipgloss.Color(lightColors.text) {
		t.Fatalf("expected light text colour, got %v", got)
	}
	if got := light.styles.table().Selected.GetForeground(); got != lipgloss.Color(lightColors.text) {
		t.Fatalf("expected light table selection, got %v", got)
	}
}
