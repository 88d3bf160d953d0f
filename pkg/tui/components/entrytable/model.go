package entrytable

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/money"
	"tableflip.dev/ledger/pkg/tui/events"
	"tableflip.dev/ledger/pkg/tui/theme"
)

// EmptyMessage is shown when there is nothing to list.
const EmptyMessage = "Keine Einträge gefunden."

const (
	colDate     = 10
	colType     = 8
	colAmount   = 14
	colCategory = 14
	colProjects = 18
	minDesc     = 12
	gap         = 2
)

// Model renders entries in the order the backend returned them. It never
// sorts and keeps no copy beyond what SetEntries hands it.
type Model struct {
	id    events.ComponentID
	theme theme.Theme

	entries []ledger.Entry
	cursor  int
	offset  int

	width  int
	height int

	focused        bool
	awaitingDelete bool
}

// New returns an empty table.
func New(id events.ComponentID, th theme.Theme) *Model {
	if id == "" {
		id = events.ComponentID("entrytable")
	}
	return &Model{id: id, theme: th, width: 100, height: 20, focused: true}
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID {
	return m.id
}

// SetEntries replaces the rows, keeping the cursor on the same entry id
// when it still exists.
func (m *Model) SetEntries(entries []ledger.Entry) {
	var selected int64
	if e, ok := m.Selected(); ok {
		selected = e.ID
	}
	m.entries = entries
	m.awaitingDelete = false
	if selected != 0 {
		for i, e := range entries {
			if e.ID == selected {
				m.cursor = i
				m.ensureVisible()
				return
			}
		}
	}
	m.cursor = clamp(m.cursor, 0, max(len(entries)-1, 0))
	m.ensureVisible()
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (ledger.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return ledger.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// SetSize sets the rendering area.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.ensureVisible()
}

// SetFocused toggles key handling.
func (m *Model) SetFocused(v bool) {
	m.focused = v
	if !v {
		m.awaitingDelete = false
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles navigation and the edit/delete requests.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	s := key.String()
	if s != "d" {
		m.awaitingDelete = false
	}
	switch s {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		m.cursor = 0
		m.ensureVisible()
	case "end", "G":
		m.cursor = max(len(m.entries)-1, 0)
		m.ensureVisible()
	case "pgdown":
		m.move(m.visibleRows())
	case "pgup":
		m.move(-m.visibleRows())
	case "e", "enter":
		if e, ok := m.Selected(); ok {
			return m, events.EditRequestCmd(m.id, e)
		}
	case "d":
		e, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !m.awaitingDelete {
			m.awaitingDelete = true
			return m, nil
		}
		m.awaitingDelete = false
		return m, events.DeleteRequestCmd(m.id, e.ID, e.Description)
	case "delete":
		if e, ok := m.Selected(); ok {
			return m, events.DeleteRequestCmd(m.id, e.ID, e.Description)
		}
	}
	return m, nil
}

// AwaitingDelete reports whether the next "d" confirms a delete.
func (m *Model) AwaitingDelete() bool {
	return m.awaitingDelete
}

func (m *Model) move(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.entries)-1)
	m.ensureVisible()
}

// visibleRows is a conservative row budget: notes may add a line per row.
func (m *Model) visibleRows() int {
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	budget := m.visibleRows()
	for m.offset < m.cursor && m.linesBetween(m.offset, m.cursor) > budget {
		m.offset++
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) linesBetween(from, to int) int {
	n := 0
	for i := from; i <= to && i < len(m.entries); i++ {
		n += rowHeight(m.entries[i])
	}
	return n
}

func rowHeight(e ledger.Entry) int {
	if e.NotesText() != "" {
		return 2
	}
	return 1
}

// View renders the header and the visible rows.
func (m *Model) View() (string, *tea.Cursor) {
	th := m.theme.Table
	if len(m.entries) == 0 {
		return m.theme.Panel.Muted.Render(EmptyMessage), nil
	}

	descW := m.descriptionWidth()
	lines := []string{th.Header.Render(m.row("Datum", "Beschreibung", "Typ", "Betrag", "Kategorie", "Projekte", descW))}

	budget := m.visibleRows()
	used := 0
	for i := m.offset; i < len(m.entries); i++ {
		e := m.entries[i]
		if used+rowHeight(e) > budget && used > 0 {
			break
		}
		used += rowHeight(e)
		lines = append(lines, m.renderEntry(e, i == m.cursor && m.focused, descW)...)
	}
	if m.awaitingDelete {
		lines = append(lines, m.theme.Footer.Status.Render("d erneut drücken zum Löschen"))
	}
	return strings.Join(lines, "\n"), nil
}

func (m *Model) descriptionWidth() int {
	fixed := colDate + colType + colAmount + colCategory + colProjects + 5*gap + 2
	return max(m.width-fixed, minDesc)
}

func (m *Model) renderEntry(e ledger.Entry, selected bool, descW int) []string {
	th := m.theme.Table

	sign, amountStyle := "−", m.theme.Money.Expense
	if e.EntryType == ledger.Income {
		sign, amountStyle = "+", m.theme.Money.Income
	}
	category := e.CategoryName()
	if category == "" {
		category = "—"
	}

	marker := "  "
	if selected {
		marker = "› "
	}
	line := marker + cell(e.Date, colDate) + spacer() +
		cell(e.Description, descW) + spacer() +
		cell(e.EntryType.String(), colType) + spacer() +
		amountStyle.Render(rightCell(money.Magnitude(sign, e.Amount), colAmount)) + spacer() +
		cell(category, colCategory) + spacer() +
		cell(e.ProjectNames(", "), colProjects)
	if selected {
		line = th.Selected.Render(line)
	} else {
		line = th.Row.Render(line)
	}
	out := []string{line}
	if notes := e.NotesText(); notes != "" {
		indent := strings.Repeat(" ", 2+colDate+gap)
		out = append(out, indent+th.Notes.Render(truncate.StringWithTail(oneLine(notes), uint(descW), "…")))
	}
	return out
}

func (m *Model) row(date, desc, typ, amount, category, projects string, descW int) string {
	return "  " + cell(date, colDate) + spacer() +
		cell(desc, descW) + spacer() +
		cell(typ, colType) + spacer() +
		rightCell(amount, colAmount) + spacer() +
		cell(category, colCategory) + spacer() +
		cell(projects, colProjects)
}

func cell(s string, width int) string {
	s = truncate.StringWithTail(oneLine(s), uint(width), "…")
	return lipgloss.NewStyle().Width(width).Render(s)
}

func rightCell(s string, width int) string {
	s = truncate.StringWithTail(s, uint(width), "…")
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(s)
}

func spacer() string {
	return strings.Repeat(" ", gap)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
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
