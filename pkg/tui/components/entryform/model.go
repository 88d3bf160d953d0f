package entryform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/tui/events"
	"tableflip.dev/ledger/pkg/tui/theme"
)

const labelWidth = 14

type focusField int

const (
	fieldDate focusField = iota
	fieldType
	fieldDescription
	fieldAmount
	fieldCategory
	fieldProjects
	fieldNotes
)

var focusOrder = []focusField{
	fieldDate,
	fieldType,
	fieldDescription,
	fieldAmount,
	fieldCategory,
	fieldProjects,
	fieldNotes,
}

// Options control the initial state of the form.
type Options struct {
	ID         events.ComponentID
	Entry      *ledger.Entry
	Categories []ledger.Category
	Projects   []ledger.Project
	Now        time.Time
	Theme      *theme.Theme
}

// Model is the create/edit overlay. It owns only its draft; the payload is
// handed to the root through FormSubmitMsg.
type Model struct {
	id    events.ComponentID
	theme theme.Theme

	entryID    int64
	draft      ledger.Draft
	categories []ledger.Category
	projects   []ledger.Project

	focus         focusField
	typeIndex     int
	categoryIndex int // 0 is "Keine"
	// uncataloged holds a category id the catalog does not list, so saving
	// an edit keeps it instead of clearing it.
	uncataloged string
	projectCursor int

	date        textinput.Model
	description textinput.Model
	amount      textinput.Model
	notes       textinput.Model

	width    int
	errorMsg string
}

// New builds the form, seeded from opts.Entry when editing.
func New(opts Options) *Model {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	id := opts.ID
	if id == "" {
		id = events.ComponentID("entryform")
	}

	m := &Model{
		id:          id,
		theme:       th,
		draft:       ledger.NewDraft(opts.Entry, now),
		categories:  opts.Categories,
		projects:    opts.Projects,
		focus:       fieldDescription,
		date:        newInput("YYYY-MM-DD"),
		description: newInput("Beschreibung"),
		amount:      newInput("0.00"),
		notes:       newInput("Optional"),
	}
	if opts.Entry != nil {
		m.entryID = opts.Entry.ID
	}

	m.date.SetValue(m.draft.Date)
	m.description.SetValue(m.draft.Description)
	m.amount.SetValue(m.draft.Amount)
	m.notes.SetValue(m.draft.Notes)

	m.typeIndex = 1
	if m.draft.EntryType == ledger.Income {
		m.typeIndex = 0
	}
	m.selectCategory(m.draft.CategoryID)
	m.SetWidth(60)
	m.updateInputFocus()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	return ti
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID {
	return m.id
}

// Editing reports whether the form edits an existing entry.
func (m *Model) Editing() bool {
	return m.entryID != 0
}

// Draft returns the current draft including unsaved input.
func (m *Model) Draft() ledger.Draft {
	m.syncDraft()
	d := m.draft
	d.ProjectIDs = append([]int64(nil), m.draft.ProjectIDs...)
	return d
}

// Error returns the validation message shown under the form.
func (m *Model) Error() string {
	return m.errorMsg
}

// SetCatalog refreshes the category and project choices, keeping the
// current selection where possible.
func (m *Model) SetCatalog(categories []ledger.Category, projects []ledger.Project) {
	m.syncDraft()
	m.categories = categories
	m.projects = projects
	m.selectCategory(m.draft.CategoryID)
	m.projectCursor = clampIndex(m.projectCursor, len(m.projects))
}

// SetWidth configures the usable width of the overlay.
func (m *Model) SetWidth(width int) {
	if width <= 0 {
		width = 60
	}
	m.width = width
	inputWidth := width - labelWidth - 8
	if inputWidth < 12 {
		inputWidth = 12
	}
	for _, in := range []*textinput.Model{&m.date, &m.description, &m.amount, &m.notes} {
		in.SetWidth(inputWidth)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.updateInputFocus())
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(min(msg.Width-10, 72))
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if in := m.focusedInput(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		return events.FormCancelCmd(m.id)
	case "enter", "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.advanceFocus(1)
	case "shift+tab", "up":
		m.advanceFocus(-1)
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		if !m.adjustSelection(delta) {
			cmds = appendCmd(cmds, m.updateFocusedInput(msg))
		}
	case "space", " ":
		if m.focus == fieldProjects {
			m.toggleProjectAtCursor()
			break
		}
		if m.focus == fieldType {
			m.typeIndex = 1 - m.typeIndex
			break
		}
		cmds = appendCmd(cmds, m.updateFocusedInput(msg))
	default:
		cmds = appendCmd(cmds, m.updateFocusedInput(msg))
	}
	cmds = appendCmd(cmds, m.updateInputFocus())
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	in := m.focusedInput()
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	m.errorMsg = ""
	return cmd
}

func (m *Model) focusedInput() *textinput.Model {
	switch m.focus {
	case fieldDate:
		return &m.date
	case fieldDescription:
		return &m.description
	case fieldAmount:
		return &m.amount
	case fieldNotes:
		return &m.notes
	}
	return nil
}

func (m *Model) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for _, f := range []focusField{fieldDate, fieldDescription, fieldAmount, fieldNotes} {
		in := m.inputFor(f)
		if f == m.focus {
			cmd = in.Focus()
			continue
		}
		in.Blur()
	}
	return cmd
}

func (m *Model) inputFor(f focusField) *textinput.Model {
	switch f {
	case fieldDate:
		return &m.date
	case fieldDescription:
		return &m.description
	case fieldAmount:
		return &m.amount
	default:
		return &m.notes
	}
}

func (m *Model) advanceFocus(delta int) {
	current := 0
	for i, f := range focusOrder {
		if f == m.focus {
			current = i
			break
		}
	}
	current = (current + len(focusOrder) + delta) % len(focusOrder)
	m.focus = focusOrder[current]
}

// adjustSelection moves selectors and reports whether the key was consumed.
func (m *Model) adjustSelection(delta int) bool {
	switch m.focus {
	case fieldType:
		m.typeIndex = wrapIndex(m.typeIndex+delta, len(ledger.EntryTypes))
	case fieldCategory:
		m.uncataloged = ""
		m.categoryIndex = wrapIndex(m.categoryIndex+delta, len(m.categories)+1)
	case fieldProjects:
		if len(m.projects) == 0 {
			return true
		}
		m.projectCursor = clampIndex(m.projectCursor+delta, len(m.projects))
	default:
		return false
	}
	return true
}

func (m *Model) toggleProjectAtCursor() {
	if len(m.projects) == 0 {
		return
	}
	m.draft.ToggleProject(m.projects[m.projectCursor].ID)
}

func (m *Model) selectCategory(raw string) {
	m.categoryIndex = 0
	m.uncataloged = ""
	if raw == "" {
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}
	for i, c := range m.categories {
		if c.ID == id {
			m.categoryIndex = i + 1
			return
		}
	}
	m.uncataloged = raw
}

func (m *Model) syncDraft() {
	m.draft.Date = m.date.Value()
	m.draft.Description = m.description.Value()
	m.draft.Amount = m.amount.Value()
	m.draft.Notes = m.notes.Value()
	m.draft.EntryType = ledger.EntryTypes[clampIndex(m.typeIndex, len(ledger.EntryTypes))]
	m.draft.CategoryID = m.uncataloged
	if m.categoryIndex > 0 && m.categoryIndex <= len(m.categories) {
		m.draft.CategoryID = strconv.FormatInt(m.categories[m.categoryIndex-1].ID, 10)
	}
}

func (m *Model) submit() tea.Cmd {
	m.syncDraft()
	payload, err := m.draft.Payload()
	if err != nil {
		m.errorMsg = err.Error()
		return nil
	}
	m.errorMsg = ""
	return events.FormSubmitCmd(m.id, m.entryID, payload)
}

// View renders the overlay.
func (m *Model) View() (string, *tea.Cursor) {
	m.syncDraft()
	th := m.theme.Modal

	title := "Neuer Eintrag"
	action := "Erstellen"
	if m.Editing() {
		title = "Eintrag bearbeiten"
		action = "Speichern"
	}

	lines := []string{th.Title.Render(title), ""}
	inputRow := -1
	for _, f := range focusOrder {
		if f == m.focus && m.focusedInput() != nil {
			inputRow = len(lines)
		}
		lines = append(lines, m.renderRow(f))
	}
	lines = append(lines, "")
	if m.errorMsg != "" {
		lines = append(lines, th.Error.Render(m.errorMsg))
	}
	lines = append(lines, th.Label.Render(fmt.Sprintf("enter %s · esc Abbrechen · tab weiter · space Projekt wählen", action)))

	body := lipgloss.NewStyle().Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	box := th.Frame.Render(body)

	var cursor *tea.Cursor
	if in := m.focusedInput(); in != nil && inputRow >= 0 {
		if c := in.Cursor(); c != nil {
			clone := *c
			clone.Position.X += 2 + labelWidth + 1 + 2 + 1 // indicator, label, gap, padding, border
			clone.Position.Y += inputRow + 1 + 1           // padding, border
			cursor = &clone
		}
	}
	return box, cursor
}

func (m *Model) renderRow(f focusField) string {
	th := m.theme.Modal
	indicator := "  "
	labelStyle := th.Label
	if f == m.focus {
		indicator = th.Focused.Render("› ")
		labelStyle = th.Focused
	}
	label := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, fieldLabel(f)))

	var value string
	switch f {
	case fieldDate:
		value = m.date.View()
	case fieldDescription:
		value = m.description.View()
	case fieldAmount:
		value = m.amount.View()
	case fieldNotes:
		value = m.notes.View()
	case fieldType:
		value = m.renderChoices(typeLabels(), m.typeIndex)
	case fieldCategory:
		value = m.renderCategory()
	case fieldProjects:
		value = m.renderProjects()
	}
	return indicator + label + " " + value
}

func (m *Model) renderChoices(options []string, selected int) string {
	th := m.theme.Modal
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		if i == selected {
			parts = append(parts, th.Active.Render(" "+opt+" "))
			continue
		}
		parts = append(parts, th.Chip.Render(" "+opt+" "))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderCategory() string {
	name := "Keine"
	switch {
	case m.categoryIndex > 0 && m.categoryIndex <= len(m.categories):
		name = m.categories[m.categoryIndex-1].Name
	case m.uncataloged != "":
		name = "#" + m.uncataloged
	}
	return "‹ " + name + " ›"
}

func (m *Model) renderProjects() string {
	th := m.theme.Modal
	if len(m.projects) == 0 {
		return th.Label.Render("Keine Projekte")
	}
	parts := make([]string, 0, len(m.projects))
	for i, p := range m.projects {
		mark := "○ "
		style := th.Chip
		if m.draft.HasProject(p.ID) {
			mark = "● "
			style = th.Active
		}
		chip := style.Render(mark + p.Name)
		if m.focus == fieldProjects && i == m.projectCursor {
			chip = th.Focused.Render("[") + chip + th.Focused.Render("]")
		}
		parts = append(parts, chip)
	}
	return strings.Join(parts, " ")
}

func typeLabels() []string {
	out := make([]string, 0, len(ledger.EntryTypes))
	for _, t := range ledger.EntryTypes {
		out = append(out, t.String())
	}
	return out
}

func fieldLabel(f focusField) string {
	switch f {
	case fieldDate:
		return "Datum"
	case fieldType:
		return "Typ"
	case fieldDescription:
		return "Beschreibung"
	case fieldAmount:
		return "Betrag (€)"
	case fieldCategory:
		return "Kategorie"
	case fieldProjects:
		return "Projekte"
	case fieldNotes:
		return "Notizen"
	}
	return ""
}

func appendCmd(cmds []tea.Cmd, cmd tea.Cmd) []tea.Cmd {
	if cmd == nil {
		return cmds
	}
	return append(cmds, cmd)
}

func clampIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}

func wrapIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	return (idx%length + length) % length
}
