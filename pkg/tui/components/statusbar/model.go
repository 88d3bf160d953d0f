package statusbar

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/ledger/pkg/tui/theme"
)

// Model tracks footer help, status and error toast rendering state.
type Model struct {
	theme theme.Theme

	helpLine   string
	statusLine string
	errLine    string
	width      int
}

// New returns a footer model with the given theme.
func New(th theme.Theme) Model {
	return Model{theme: th, width: 80}
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// SetError shows err as a toast; nil clears it.
func (m *Model) SetError(err error) {
	if err == nil {
		m.errLine = ""
		return
	}
	m.errLine = err.Error()
}

// ErrorText returns the toast text, if any.
func (m Model) ErrorText() string {
	return m.errLine
}

// Status returns the status text.
func (m Model) Status() string {
	return m.statusLine
}

// SetWidth limits the rendered line.
func (m *Model) SetWidth(w int) {
	if w > 0 {
		m.width = w
	}
}

// View renders the footer line.
func (m Model) View() string {
	ft := m.theme.Footer
	var segments []string
	if m.errLine != "" {
		msg := truncate.StringWithTail("Fehler: "+m.errLine, uint(max(m.width/2, 20)), "…")
		segments = append(segments, ft.Error.Render(msg))
	}
	if m.statusLine != "" {
		segments = append(segments, ft.Status.Render(m.statusLine))
	}
	if m.helpLine != "" {
		segments = append(segments, ft.Help.Render(m.helpLine))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}
