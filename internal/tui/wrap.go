// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapTokens breaks space-separated tokens into lines no wider than width.
// Tokens are never split; a token wider than width gets its own line.
func wrapTokens(text string, width int) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(tokens, " ")}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, tok := range tokens {
		tokWidth := runewidth.StringWidth(tok)
		if lineWidth > 0 && lineWidth+1+tokWidth > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(tok)
		lineWidth += tokWidth
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// truncate cuts s to width display cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
