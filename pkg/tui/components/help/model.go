// Package help renders the keyboard reference overlay.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/ledger/pkg/tui/theme"
)

//go:embed help.md
var helpMarkdown string

// Model shows the help text inside a framed, scrollable viewport.
type Model struct {
	viewport viewport.Model
	theme    theme.Theme
	width    int
	height   int
}

// New constructs a help overlay sized to the provided bounds.
func New(th theme.Theme, width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{viewport: vp, theme: th}
	m.SetSize(width, height)
	return m
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside the panel frame.
func (m *Model) View() (string, *tea.Cursor) {
	return m.theme.Panel.Frame.Width(m.width).Height(m.height).Render(m.viewport.View()), nil
}

// SetSize resizes the overlay and rewraps the text.
func (m *Model) SetSize(width, height int) {
	width = max(width, 32)
	height = max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	frame := m.theme.Panel.Frame
	inner := max(width-frame.GetHorizontalFrameSize(), 1)
	m.viewport.SetWidth(inner)
	m.viewport.SetHeight(max(height-frame.GetVerticalFrameSize(), 1))
	m.viewport.SetContent(render(m.theme, helpMarkdown, inner))
	m.viewport.SetYOffset(0)
}

// render styles the small markdown subset used by help.md.
func render(th theme.Theme, src string, width int) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(src), "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			b.WriteString(th.Modal.Label.Render(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			b.WriteString(th.Panel.Title.Render(strings.TrimPrefix(line, "# ")))
		case strings.HasPrefix(line, "- "):
			b.WriteString("  " + wordwrap.String(strings.TrimPrefix(line, "- "), max(width-2, 1)))
		default:
			b.WriteString(th.Panel.Muted.Render(wordwrap.String(line, width)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
