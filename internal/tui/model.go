package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/cubetime/internal/app"
	"github.com/verte-zerg/cubetime/internal/gesture"
	"github.com/verte-zerg/cubetime/internal/model"
	statsPkg "github.com/verte-zerg/cubetime/internal/stats"
	"github.com/verte-zerg/cubetime/internal/ticker"
)

const (
	pollInterval   = 50 * time.Millisecond
	sparkSolves    = 30
	defaultRecent  = 5
	scrambleMargin = 0.70
)

// tickMsg refreshes the running display.
type tickMsg struct {
	token ticker.Token
}

// pollMsg checks whether the held key was released.
type pollMsg struct {
	token ticker.Token
}

// ConfigMsg replaces the timer settings while the program runs.
type ConfigMsg struct {
	Config model.Config
}

// Model implements the Bubble Tea timer UI.
type Model struct {
	config model.Config
	state  *app.State
	ctrl   *gesture.Controller
	log    zerolog.Logger
	now    func() time.Time

	// display drives the elapsed-time refresh while running; poll drives
	// release detection while the action key is held.
	display ticker.Arena
	poll    ticker.Arena

	held      bool
	lastPress time.Time

	width  int
	height int

	palette palette
	errMsg  string
}

// NewModel constructs a timer TUI model.
func NewModel(cfg model.Config, state *app.State, log zerolog.Logger) *Model {
	cfg = withDefaults(cfg)
	return &Model{
		config:  cfg,
		state:   state,
		ctrl:    gesture.New(cfg.Hold),
		log:     log,
		now:     time.Now,
		palette: newPalette(state.Theme()),
	}
}

func withDefaults(cfg model.Config) model.Config {
	if cfg.Hold <= 0 {
		cfg.Hold = gesture.DefaultHold
	}
	if cfg.ReleaseTimeout <= 0 {
		cfg.ReleaseTimeout = 700 * time.Millisecond
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 10 * time.Millisecond
	}
	if cfg.Recent <= 0 {
		cfg.Recent = defaultRecent
	}
	return cfg
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.display.Active(msg.token) {
			return m, nil
		}
		return m, m.scheduleTick(msg.token)
	case pollMsg:
		return m, m.handlePoll(msg.token)
	case ConfigMsg:
		m.applyConfig(msg.Config)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeySpace:
		return m, m.handlePress(m.now())
	case tea.KeyEsc:
		if m.ctrl.Abort().Aborted {
			m.held = false
			m.poll.Stop()
		}
		return m, nil
	}
	if m.ctrl.State() != gesture.Idle {
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "t":
		theme, err := m.state.ToggleTheme(context.Background())
		m.setErr(err)
		m.palette = newPalette(theme)
	case "n":
		m.state.NextScramble()
	}
	return m, nil
}

// handlePress treats the first press as hold-begin and later presses as
// auto-repeat of the same hold.
func (m *Model) handlePress(now time.Time) tea.Cmd {
	m.lastPress = now
	if m.held {
		return nil
	}
	m.held = true
	cmd := m.apply(gesture.Event{Kind: gesture.HoldBegin, At: now})
	tok := m.poll.Start()
	return tea.Batch(cmd, m.schedulePoll(tok))
}

// handlePoll emits hold-end once no repeat arrived within the release
// timeout. The release is dated at the last observed press.
func (m *Model) handlePoll(tok ticker.Token) tea.Cmd {
	if !m.poll.Active(tok) {
		return nil
	}
	if !m.held {
		m.poll.Stop()
		return nil
	}
	if m.now().Sub(m.lastPress) < m.config.ReleaseTimeout {
		return m.schedulePoll(tok)
	}
	m.held = false
	m.poll.Stop()
	return m.apply(gesture.Event{Kind: gesture.HoldEnd, At: m.lastPress})
}

func (m *Model) apply(ev gesture.Event) tea.Cmd {
	out := m.ctrl.Handle(ev)
	if out.Changed() {
		m.log.Debug().Stringer("event", ev.Kind).Stringer("from", out.From).Stringer("to", out.To).Msg("gesture transition")
	}
	if out.From == gesture.Running && out.To != gesture.Running {
		m.display.Stop()
	}
	if out.Completed {
		_, err := m.state.Record(context.Background(), out.Elapsed, ev.At)
		m.setErr(err)
	}
	if out.Started {
		return m.scheduleTick(m.display.Start())
	}
	return nil
}

func (m *Model) scheduleTick(tok ticker.Token) tea.Cmd {
	return tea.Tick(m.config.Tick, func(time.Time) tea.Msg {
		return tickMsg{token: tok}
	})
}

func (m *Model) schedulePoll(tok ticker.Token) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{token: tok}
	})
}

func (m *Model) applyConfig(cfg model.Config) {
	cfg = withDefaults(cfg)
	m.config = cfg
	m.ctrl.SetHold(cfg.Hold)
	m.state.SetScrambleLength(cfg.ScrambleLength)
	m.log.Info().Dur("hold", cfg.Hold).Dur("release_timeout", cfg.ReleaseTimeout).Int("scramble_length", cfg.ScrambleLength).Msg("timer settings updated")
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

// View implements tea.Model.
func (m *Model) View() string {
	now := m.now()
	contentWidth := int(float64(m.width) * scrambleMargin)
	if contentWidth < 1 {
		contentWidth = 0
	}
	sections := []string{
		m.palette.title.Render("cube") + m.palette.accent.Render("'") + m.palette.title.Render("time"),
		"",
		m.palette.scramble.Render(strings.Join(wrapTokens(m.state.Scramble(), contentWidth), "\n")),
		"",
		m.timeStyle(now).Render(statsPkg.FormatMillis(float64(m.ctrl.Display(now).Milliseconds()))),
		"",
		m.renderAverages(),
		"",
		m.renderRecent(contentWidth),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) timeStyle(now time.Time) lipgloss.Style {
	switch {
	case m.ready(now):
		return m.palette.ready
	case m.ctrl.State() == gesture.Armed:
		return m.palette.preparing
	default:
		return m.palette.time
	}
}

// ready reports whether releasing now would start the timer. While the key
// is held the release will be dated at the last press, so readiness is
// measured there too.
func (m *Model) ready(now time.Time) bool {
	if m.held {
		return m.ctrl.Ready(m.lastPress)
	}
	return m.ctrl.Ready(now)
}

func (m *Model) renderAverages() string {
	sum := statsPkg.Summarize(m.state.Solves())
	rows := []string{
		m.averageLine("Ao5", sum.Ao5),
		m.averageLine("Ao12", sum.Ao12),
		m.averageLine("Ao100", sum.Ao100),
		m.averageLine("Overall", sum.Overall),
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (m *Model) averageLine(label string, avg statsPkg.Average) string {
	return m.palette.muted.Render(label+": ") + m.palette.value.Render(avg.String())
}

func (m *Model) renderRecent(width int) string {
	solves := m.state.Solves()
	if len(solves) == 0 {
		return m.palette.muted.Render("No solves yet")
	}
	limit := m.config.Recent
	if limit > len(solves) {
		limit = len(solves)
	}
	lines := make([]string, 0, limit)
	for i, s := range solves[:limit] {
		line := fmt.Sprintf("%3d  %6s  %s", len(solves)-i, statsPkg.FormatDuration(s.DurationMs), s.ScrambleText)
		lines = append(lines, m.palette.muted.Render(truncate(line, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	switch m.ctrl.State() {
	case gesture.Running:
		segments = append(segments, "space: stop")
	case gesture.Armed:
		segments = append(segments, fmt.Sprintf("hold %.1fs, release to start", m.ctrl.Hold().Seconds()), "esc: cancel")
	default:
		segments = append(segments, "space: hold to prepare", "n: new scramble", "t: theme", "q: quit")
	}
	solves := m.state.Solves()
	if len(solves) > 1 {
		n := len(solves)
		if n > sparkSolves {
			n = sparkSolves
		}
		segments = append(segments, "trend "+statsPkg.Sparkline(statsPkg.Chronological(solves[:n])))
	}
	footer := m.palette.footer.Render(strings.Join(segments, "  "))
	if m.errMsg != "" {
		footer += "  " + m.palette.err.Render(m.errMsg)
	}
	return footer
}
