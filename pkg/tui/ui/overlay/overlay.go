// Package overlay draws modal views on top of a rendered background.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

// Placement controls overlay alignment.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Centered places the overlay in the middle of the background.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Offset is the top-left cell the overlay was drawn at.
type Offset struct {
	X int
	Y int
}

// Compose draws foreground over a width x height background. Background rows
// covered by the overlay keep their content left of it; the rest of the row
// is blanked since styled text can not be cut safely mid-sequence.
func Compose(background string, width, height int, foreground string, p Placement) (string, Offset) {
	bg := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bg, "\n"), Offset{}
	}

	fg := strings.Split(foreground, "\n")
	fgWidth := min(lipgloss.Width(foreground), width)
	fgHeight := min(len(fg), height)
	off := offsets(width, height, fgWidth, fgHeight, p)

	for row := 0; row < fgHeight; row++ {
		y := off.Y + row
		prefix := truncate.String(bg[y], uint(off.X))
		prefix += strings.Repeat(" ", max(off.X-lipgloss.Width(prefix), 0))
		bg[y] = pad(prefix+truncate.String(fg[row], uint(fgWidth)), width)
	}
	return strings.Join(bg, "\n"), off
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(lines[i], width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func offsets(width, height, w, h int, p Placement) Offset {
	x := p.MarginX
	switch p.Horizontal {
	case lipgloss.Right:
		x = width - w - p.MarginX
	case lipgloss.Center:
		x = (width - w) / 2
	}
	y := p.MarginY
	switch p.Vertical {
	case lipgloss.Bottom:
		y = height - h - p.MarginY
	case lipgloss.Center:
		y = (height - h) / 2
	}
	return Offset{X: clamp(x, 0, width-w), Y: clamp(y, 0, height-h)}
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
