package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cubetime/internal/model"
)

type palette struct {
	title     lipgloss.Style
	accent    lipgloss.Style
	scramble  lipgloss.Style
	time      lipgloss.Style
	preparing lipgloss.Style
	ready     lipgloss.Style
	muted     lipgloss.Style
	value     lipgloss.Style
	footer    lipgloss.Style
	err       lipgloss.Style
}

func newPalette(theme model.Theme) palette {
	text, muted, accent := "#F0F0F0", "#8C8C8C", "#C89A3A"
	if theme == model.ThemeLight {
		text, muted, accent = "#222222", "#64748B", "#3B82F6"
	}
	return palette{
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color(text)).Bold(true),
		accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		scramble:  lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Align(lipgloss.Center),
		time:      lipgloss.NewStyle().Foreground(lipgloss.Color(text)).Bold(true),
		preparing: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		ready:     lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		value:     lipgloss.NewStyle().Foreground(lipgloss.Color(text)).Bold(true),
		footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
}
