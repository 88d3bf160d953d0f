package filterbar

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/timeutil"
	"tableflip.dev/ledger/pkg/tui/events"
	"tableflip.dev/ledger/pkg/tui/theme"
)

const (
	allCategories = "Alle Kategorien"
	allProjects   = "Alle Projekte"
	allTypes      = "Alle Typen"
	resetLabel    = "Zurücksetzen"
)

// Model shows the active filters and turns key presses into filter
// changes. The root owns the filter set; this model only mirrors it.
type Model struct {
	id    events.ComponentID
	theme theme.Theme

	filters    ledger.Filters
	categories []ledger.Category
	projects   []ledger.Project

	editing ledger.FilterKey
	input   textinput.Model
	err     string

	now func() time.Time
}

// New returns an empty filter bar.
func New(id events.ComponentID, th theme.Theme) *Model {
	if id == "" {
		id = events.ComponentID("filterbar")
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = len(ledger.DateLayout)
	ti.SetWidth(12)
	return &Model{id: id, theme: th, filters: ledger.Filters{}, input: ti, now: time.Now}
}

// SetClock replaces the time source used by the month shortcut.
func (m *Model) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID {
	return m.id
}

// SetFilters mirrors the root's filter set.
func (m *Model) SetFilters(f ledger.Filters) {
	m.filters = f.Clone()
}

// SetCatalog sets the choices the category and project keys cycle through.
func (m *Model) SetCatalog(categories []ledger.Category, projects []ledger.Project) {
	m.categories = categories
	m.projects = projects
}

// Editing reports whether a date input currently captures keys.
func (m *Model) Editing() bool {
	return m.editing != ""
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles the filter keys. While a date is being edited every key
// goes to the input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.Editing() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.Editing() {
		return m, m.handleEditKey(key)
	}

	switch key.String() {
	case "c":
		return m, m.cycle(ledger.FilterCategory, categoryValues(m.categories))
	case "p":
		return m, m.cycle(ledger.FilterProject, projectValues(m.projects))
	case "t":
		return m, m.cycle(ledger.FilterType, []string{string(ledger.Income), string(ledger.Expense)})
	case "f":
		return m, m.startEdit(ledger.FilterDateFrom)
	case "b":
		return m, m.startEdit(ledger.FilterDateTo)
	case "m":
		return m, events.FilterChangeCmd(m.id, ledger.FilterDateFrom, timeutil.MonthStart(m.now()))
	case "r":
		if m.filters.IsEmpty() {
			return m, nil
		}
		return m, events.FilterResetCmd(m.id)
	}
	return m, nil
}

func (m *Model) handleEditKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.stopEdit()
		return nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value != "" {
			if _, err := time.Parse(ledger.DateLayout, value); err != nil {
				m.err = "Datum im Format YYYY-MM-DD"
				return nil
			}
		}
		k := m.editing
		m.stopEdit()
		return events.FilterChangeCmd(m.id, k, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	m.err = ""
	return cmd
}

func (m *Model) startEdit(k ledger.FilterKey) tea.Cmd {
	m.editing = k
	m.err = ""
	v, _ := m.filters.Get(k)
	m.input.SetValue(v)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEdit() {
	m.editing = ""
	m.err = ""
	m.input.Blur()
	m.input.SetValue("")
}

// cycle advances key through "" followed by values, wrapping around.
func (m *Model) cycle(key ledger.FilterKey, values []string) tea.Cmd {
	if len(values) == 0 {
		return nil
	}
	current, _ := m.filters.Get(key)
	next := values[0]
	for i, v := range values {
		if v == current {
			if i+1 < len(values) {
				next = values[i+1]
			} else {
				next = ""
			}
			break
		}
	}
	return events.FilterChangeCmd(m.id, key, next)
}

// View renders the single filter line.
func (m *Model) View() (string, *tea.Cursor) {
	ft := m.theme.Footer
	part := func(hotkey, label, value string, active bool) string {
		text := hotkey + " " + label + ": " + value
		if active {
			return ft.Filter.Render(text)
		}
		return ft.Help.Render(text)
	}

	catLabel, catActive := allCategories, false
	if v, ok := m.filters.Get(ledger.FilterCategory); ok {
		catLabel, catActive = m.categoryName(v), true
	}
	projLabel, projActive := allProjects, false
	if v, ok := m.filters.Get(ledger.FilterProject); ok {
		projLabel, projActive = m.projectName(v), true
	}
	typeLabel, typeActive := allTypes, false
	if v, ok := m.filters.Get(ledger.FilterType); ok {
		typeLabel, typeActive = v, true
	}

	parts := []string{
		part("c", "Kategorie", catLabel, catActive),
		part("p", "Projekt", projLabel, projActive),
		part("t", "Typ", typeLabel, typeActive),
		m.dateView("f", "Von", ledger.FilterDateFrom),
		m.dateView("b", "Bis", ledger.FilterDateTo),
	}
	if !m.filters.IsEmpty() {
		parts = append(parts, ft.Help.Render("r "+resetLabel))
	}
	line := strings.Join(parts, ft.Help.Render(" │ "))
	if m.err != "" {
		line += "  " + m.theme.Modal.Error.Render(m.err)
	}
	return line, nil
}

func (m *Model) dateView(hotkey, label string, key ledger.FilterKey) string {
	ft := m.theme.Footer
	if m.editing == key {
		return ft.Filter.Render(hotkey+" "+label+": ") + m.input.View()
	}
	if v, ok := m.filters.Get(key); ok {
		return ft.Filter.Render(hotkey + " " + label + ": " + v)
	}
	return ft.Help.Render(hotkey + " " + label + ": —")
}

func (m *Model) categoryName(raw string) string {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if c, ok := ledger.CategoryByID(m.categories, id); ok {
			return c.Name
		}
	}
	return "#" + raw
}

func (m *Model) projectName(raw string) string {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if p, ok := ledger.ProjectByID(m.projects, id); ok {
			return p.Name
		}
	}
	return "#" + raw
}

func categoryValues(categories []ledger.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, strconv.FormatInt(c.ID, 10))
	}
	return out
}

func projectValues(projects []ledger.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, strconv.FormatInt(p.ID, 10))
	}
	return out
}
