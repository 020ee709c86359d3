package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// dash patterns per series index: plot when x%period < on.
var dashPatterns = [][2]int{{1, 1}, {6, 3}, {4, 1}, {8, 3}}

// canvas is a grid of braille cells, one bit per dot, one layer per series.
type canvas struct {
	width  int
	height int
	layers [][][]uint8
}

func newCanvas(layers, width, height int) *canvas {
	c := &canvas{width: width, height: height, layers: make([][][]uint8, layers)}
	for i := range c.layers {
		rows := make([][]uint8, height)
		for y := range rows {
			rows[y] = make([]uint8, width)
		}
		c.layers[i] = rows
	}
	return c
}

func (c *canvas) dot(layer, x, y int) {
	cellX, cellY := x/2, y/4
	if x < 0 || y < 0 || cellX >= c.width || cellY >= c.height {
		return
	}
	c.layers[layer][cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func (c *canvas) line(layer, x0, y0, x1, y1 int) {
	period, on := dashPatterns[layer%len(dashPatterns)][0], dashPatterns[layer%len(dashPatterns)][1]
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if x0%period < on {
			c.dot(layer, x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// cell merges all layers; the colour comes from the first layer with a dot.
func (c *canvas) cell(x, y int) (rune, int) {
	var mask uint8
	owner := -1
	for i, layer := range c.layers {
		if m := layer[y][x]; m != 0 {
			if owner < 0 {
				owner = i
			}
			mask |= m
		}
	}
	return rune(0x2800 + int(mask)), owner
}

// PlotSeries renders a multi-line text plot with all series on one scale.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a multi-line text plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, s := range kept {
		for _, v := range s.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxVal-minVal < 1e-9 {
		minVal--
		maxVal++
	}

	c := newCanvas(len(kept), width, height)
	dotRows := height * 4
	for si, s := range kept {
		values := resampleSeries(s.Values, width)
		prevX, prevY := -1, -1
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			py := clamp(int(math.Round((1-pos)*float64(dotRows-1))), 0, dotRows-1)
			px := 0
			if len(values) > 1 {
				px = x * (width*2 - 1) / (len(values) - 1)
			}
			if prevX < 0 {
				c.dot(si, px, py)
			} else {
				c.line(si, prevX, prevY, px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.2f", maxVal)
		case height / 2:
			label = fmt.Sprintf("%.2f", (maxVal+minVal)/2)
		case height - 1:
			label = fmt.Sprintf("%.2f", minVal)
		}
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, label, axisSeparator)
		for x := 0; x < width; x++ {
			ch, owner := c.cell(x, y)
			if useColor && owner >= 0 {
				b.WriteString(colorPalette[owner%len(colorPalette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(renderLegend(kept, useColor) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s", rune(0x2800+0x01), s.Name)
		if useColor {
			label = colorPalette[i%len(colorPalette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func brailleDotMask(x, y int) uint8 {
	if y == 3 {
		if x == 0 {
			return 0x40
		}
		return 0x80
	}
	if x == 0 {
		return 1 << uint(y)
	}
	return 1 << uint(y+3)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
