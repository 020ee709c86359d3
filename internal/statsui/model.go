// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/cubetime/internal/app"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/stats"
)

const (
	tabOverview = iota
	tabSolves
)

const (
	plotHeight = 10
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	state *app.State
	log   zerolog.Logger

	styles styles

	solves []model.Solve
	errMsg string

	tabs        []string
	activeTab   int
	overview    viewport.Model
	solveTable  table.Model
	tableLayout tableLayout

	// pending holds the timestamp awaiting delete confirmation.
	pending string

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(state *app.State, log zerolog.Logger) *Model {
	st := newStyles(state.Theme())
	m := &Model{
		state:      state,
		log:        log,
		styles:     st,
		tabs:       []string{"Overview", "Solves"},
		overview:   viewport.New(0, 0),
		solveTable: buildSolveTable(nil, 0, 1, st),
	}
	m.refresh()
	return m
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
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.pending != "" {
			return m.updateConfirm(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabSolves {
			m.solveTable.Focus()
		} else {
			m.solveTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "d", "delete":
			if m.activeTab == tabSolves {
				m.startDelete()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSolves {
				m.solveTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSolves {
				m.solveTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabSolves {
				m.solveTable, cmd = m.solveTable.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.pending != "" {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(m.styles.activeNav.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.setTableSize(m.width, bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSolves {
		m.solveTable.Focus()
	} else {
		m.solveTable.Blur()
	}
}

func (m *Model) startDelete() {
	if len(m.solves) == 0 {
		return
	}
	idx := m.solveTable.Cursor()
	if idx < 0 || idx >= len(m.solves) {
		return
	}
	m.pending = m.solves[idx].Timestamp
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		ts := m.pending
		m.pending = ""
		if _, err := m.state.Delete(context.Background(), ts); err != nil {
			m.errMsg = err.Error()
		} else {
			m.errMsg = ""
		}
		m.refresh()
		m.updateLayout()
	case "n", "esc":
		m.pending = ""
	}
	return m, nil
}

func (m *Model) refresh() {
	m.solves = m.state.Solves()
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applySolveTable(width, bodyHeight)
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.styles, m.solves, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.activeNav.Render(tab))
		} else {
			parts = append(parts, m.styles.inactiveNav.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Solves: %d  Theme: %s", len(m.solves), m.state.Theme())
	return tabs + "\n" + padLines(m.styles.header.Render(truncateLine(summary, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabSolves {
		help = "Nav: left/right  Select: up/down  Delete: d  Top/Bottom: g/G  Quit: q"
	}
	return m.styles.header.Render(help)
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + m.styles.err.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabSolves {
		if len(m.solves) == 0 {
			return fitLines("No solves found.", m.width, height)
		}
		return fitLines(m.styles.tableMuted.Render(m.solveTable.View()), m.width, height)
	}
	return fitLines(m.overview.View(), m.width, height)
}

func (m *Model) renderConfirmModal() string {
	body := []string{
		m.styles.cardValue.Render("Delete solve?"),
		m.describePending(),
		m.styles.header.Render("y/enter: delete  n/esc: keep"),
	}
	box := m.styles.modal.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) describePending() string {
	for _, s := range m.solves {
		if s.Timestamp == m.pending {
			return fmt.Sprintf("%s  %s", stats.FormatDuration(s.DurationMs), s.Timestamp)
		}
	}
	return m.pending
}

func renderOverview(st styles, solves []model.Solve, width int) string {
	if len(solves) == 0 {
		return "No solves found."
	}
	summary := renderSummaryCards(st, solves, width)
	curves := renderCurves(st, solves, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(st styles, solves []model.Solve, width int) string {
	sum := stats.Summarize(solves)
	cards := []string{
		metricCard(st, "Solves", fmt.Sprintf("%d", sum.Count)),
		metricCard(st, "Best", sum.Best.String()),
		metricCard(st, "Worst", sum.Worst.String()),
		metricCard(st, "Ao5", sum.Ao5.String()),
		metricCard(st, "Ao12", sum.Ao12.String()),
		metricCard(st, "Ao100", sum.Ao100.String()),
		metricCard(st, "Overall", sum.Overall.String()),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(st styles, label, value string) string {
	content := fmt.Sprintf("%s\n%s", st.cardTitle.Render(label), st.cardValue.Render(value))
	return st.card.Render(content)
}

func renderCurves(st styles, solves []model.Solve, width int) string {
	if len(solves) < 2 {
		return st.header.Render("Record at least two solves to plot a curve.")
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, solves, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func solveColumns(width int) []table.Column {
	scrambleWidth := maxInt(10, width-5-8-25-4)
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Time", Width: 8},
		{Title: "Timestamp", Width: 25},
		{Title: "Scramble", Width: scrambleWidth},
	}
}

func solveRows(solves []model.Solve) []table.Row {
	rows := make([]table.Row, 0, len(solves))
	for i, s := range solves {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", len(solves)-i),
			stats.FormatDuration(s.DurationMs),
			s.Timestamp,
			s.ScrambleText,
		})
	}
	return rows
}

func buildSolveTable(solves []model.Solve, width, height int, st styles) table.Model {
	t := table.New(
		table.WithColumns(solveColumns(width)),
		table.WithRows(solveRows(solves)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(st.table())
	return t
}

func (m *Model) applySolveTable(width, height int) {
	rows := solveRows(m.solves)
	m.solveTable.SetColumns(solveColumns(width))
	m.solveTable.SetRows(rows)
	if m.solveTable.Cursor() >= len(rows) {
		m.solveTable.SetCursor(maxInt(0, len(rows)-1))
	}
	m.tableLayout.rowCount = len(rows)
	m.tableLayout.width = 0
	m.setTableSize(width, height)
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.solveTable.SetColumns(solveColumns(width))
	m.solveTable.SetWidth(width)
	m.solveTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.solveTable.SetHeight(viewportHeight)
	}
}

// adjustTableHeight corrects the table height so its rendered view,
// header and border included, fills the body exactly.
func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.solveTable.Height()
	viewHeight := lipgloss.Height(m.solveTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.solveTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.solveTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
