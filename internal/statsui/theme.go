package statsui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cubetime/internal/model"
)

type styles struct {
	activeNav   lipgloss.Style
	inactiveNav lipgloss.Style
	header      lipgloss.Style
	err         lipgloss.Style
	card        lipgloss.Style
	cardTitle   lipgloss.Style
	cardValue   lipgloss.Style
	tableMuted  lipgloss.Style
	modal       lipgloss.Style

	tableHeader   lipgloss.Color
	tableSelected lipgloss.Color
	border        lipgloss.Color
}

type colors struct {
	text, soft, muted, faint, accent, border string
}

var (
	darkColors  = colors{text: "#F0F0F0", soft: "#B0B0B0", muted: "#8C8C8C", faint: "#6E6E6E", accent: "#C89A3A", border: "#4A4A4A"}
	lightColors = colors{text: "#222222", soft: "#475569", muted: "#64748B", faint: "#94A3B8", accent: "#3B82F6", border: "#CBD5E1"}
)

func newStyles(theme model.Theme) styles {
	c := darkColors
	if theme == model.ThemeLight {
		c = lightColors
	}
	return styles{
		activeNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.text)).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(c.accent)),
		inactiveNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.soft)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(c.border)),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color(c.faint)),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(c.border)),
		cardTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.muted)),
		cardValue:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.text)).Bold(true),
		tableMuted: lipgloss.NewStyle().Foreground(lipgloss.Color(c.soft)),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(c.accent)).
			Padding(1, 2),

		tableHeader:   lipgloss.Color(c.soft),
		tableSelected: lipgloss.Color(c.text),
		border:        lipgloss.Color(c.border),
	}
}

func (s styles) table() table.Styles {
	out := table.DefaultStyles()
	out.Header = out.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.border).
		Foreground(s.tableHeader).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	out.Cell = out.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	out.Selected = out.Cell.
		Foreground(s.tableSelected).
		Bold(true)
	return out
}
