// Package ui is the root Bubble Tea model of the ledger dashboard. It owns
// no data itself: the canonical state lives in app.State and every
// component is refreshed from snapshots of it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/tui/components/dashboard"
	"tableflip.dev/ledger/pkg/tui/components/entryform"
	"tableflip.dev/ledger/pkg/tui/components/entrytable"
	"tableflip.dev/ledger/pkg/tui/components/filterbar"
	"tableflip.dev/ledger/pkg/tui/components/help"
	"tableflip.dev/ledger/pkg/tui/components/statusbar"
	"tableflip.dev/ledger/pkg/tui/events"
	"tableflip.dev/ledger/pkg/tui/theme"
	"tableflip.dev/ledger/pkg/tui/ui/overlay"
)

const (
	helpDashboard = "tab Tabelle · n Neu · ctrl+r Neu laden · ? Hilfe · q Ende"
	helpTable     = "tab Dashboard · n Neu · e Bearbeiten · dd Löschen · ? Hilfe · q Ende"
	helpForm      = "enter Speichern · esc Abbrechen"
	helpOverlay   = "j/k Blättern · esc Schließen"
	headerLines   = 3
)

// Preferences persists UI choices between runs.
type Preferences interface {
	SaveView(app.ViewMode) error
	SaveFilters(ledger.Filters) error
}

// Options configure the root model.
type Options struct {
	Log   logrus.FieldLogger
	Prefs Preferences
	Theme *theme.Theme
	Now   func() time.Time
	Title string
}

type loadDoneMsg struct {
	result app.LoadResult
	err    error
}

type mutationDoneMsg struct {
	op  string
	err error
}

// Model composes the filter bar, the dashboard or table and the entry form
// around an app.Controller.
type Model struct {
	ctrl  *app.Controller
	ctx   context.Context
	log   logrus.FieldLogger
	prefs Preferences
	theme theme.Theme
	now   func() time.Time
	title string

	width  int
	height int

	table     *entrytable.Model
	dashboard *dashboard.Model
	filterbar *filterbar.Model
	form      *entryform.Model
	help      *help.Model
	status    statusbar.Model

	pending int
}

// New constructs a root model bound to ctrl.
func New(ctx context.Context, ctrl *app.Controller, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	title := opts.Title
	if title == "" {
		title = "Ledger"
	}
	m := &Model{
		ctrl:      ctrl,
		ctx:       ctx,
		log:       log,
		prefs:     opts.Prefs,
		theme:     th,
		now:       now,
		title:     title,
		width:     100,
		height:    30,
		table:     entrytable.New(events.ComponentID("entries"), th),
		dashboard: dashboard.New(th, 100, 20),
		filterbar: filterbar.New(events.ComponentID("filters"), th),
		status:    statusbar.New(th),
	}
	m.filterbar.SetClock(now)
	m.layoutContent()
	m.syncFromState()
	return m
}

// Run launches the Bubble Tea program.
func Run(ctx context.Context, ctrl *app.Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, ctrl, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update routes Bubble Tea messages to the controller and components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d, ok := msg.(interface{ Describe() string }); ok {
		m.log.WithField("msg", fmt.Sprintf("%T", msg)).Debug(d.Describe())
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layoutContent()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(v)

	case loadDoneMsg:
		m.pending = max(m.pending-1, 0)
		if v.err != nil {
			m.status.SetStatus("Laden fehlgeschlagen")
		} else if v.result.Applied {
			m.status.SetStatus(fmt.Sprintf("%d Einträge", len(m.ctrl.State.Entries())))
		}
		m.syncFromState()
		return m, nil

	case mutationDoneMsg:
		m.pending = max(m.pending-1, 0)
		if v.err != nil && !errors.Is(v.err, app.ErrReload) {
			m.status.SetStatus(v.op + " fehlgeschlagen")
		} else {
			m.status.SetStatus(v.op + " ✓")
		}
		m.syncFromState()
		return m, nil

	case events.FormSubmitMsg:
		m.status.SetStatus("Speichere…")
		if v.Editing() {
			return m, m.updateCmd(v.EntryID, v.Payload)
		}
		return m, m.createCmd(v.Payload)

	case events.FormCancelMsg:
		m.ctrl.State.CloseModal()
		m.form = nil
		m.refreshHelp()
		return m, nil

	case events.EditRequestMsg:
		m.ctrl.State.OpenEdit(v.Entry)
		return m, m.openForm(&v.Entry)

	case events.DeleteRequestMsg:
		m.ctrl.BeginDelete(v.EntryID)
		m.syncFromState()
		m.status.SetStatus(fmt.Sprintf("Lösche %q…", v.Description))
		return m, m.deleteCmd(v.EntryID)

	case events.FilterChangeMsg:
		m.ctrl.State.SetFilter(v.Key, v.Value)
		m.saveFilters()
		m.syncFromState()
		return m, m.loadCmd()

	case events.FilterResetMsg:
		m.ctrl.State.ClearFilters()
		m.saveFilters()
		m.syncFromState()
		return m, m.loadCmd()
	}

	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	if m.filterbar.Editing() {
		_, cmd := m.filterbar.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return cmd
	}
	if m.filterbar.Editing() {
		_, cmd := m.filterbar.Update(msg)
		return cmd
	}
	if m.help != nil {
		switch msg.String() {
		case "esc", "?", "q":
			m.help = nil
			m.refreshHelp()
			return nil
		}
		_, cmd := m.help.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.help = help.New(m.theme, min(m.width-4, 80), m.bodyHeight())
		m.refreshHelp()
		return nil
	case "tab", "v":
		view := m.ctrl.State.ToggleView()
		if m.prefs != nil {
			if err := m.prefs.SaveView(view); err != nil {
				m.log.WithError(err).Warn("save view preference")
			}
		}
		m.refreshHelp()
		return nil
	case "n":
		m.ctrl.State.OpenCreate()
		return m.openForm(nil)
	case "ctrl+r":
		return m.loadCmd()
	case "c", "p", "t", "f", "b", "m", "r":
		_, cmd := m.filterbar.Update(msg)
		return cmd
	}

	if m.ctrl.State.View() == app.ViewTable {
		_, cmd := m.table.Update(msg)
		return cmd
	}
	_, cmd := m.dashboard.Update(msg)
	return cmd
}

func (m *Model) openForm(entry *ledger.Entry) tea.Cmd {
	snap := m.ctrl.State.Snapshot()
	m.form = entryform.New(entryform.Options{
		ID:         events.ComponentID("entryform"),
		Entry:      entry,
		Categories: snap.Categories,
		Projects:   snap.Projects,
		Now:        m.now(),
		Theme:      &m.theme,
	})
	m.form.SetWidth(min(m.width-10, 72))
	m.refreshHelp()
	return m.form.Init()
}

func (m *Model) loadCmd() tea.Cmd {
	m.pending++
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		res, err := ctrl.Load(ctx)
		return loadDoneMsg{result: res, err: err}
	}
}

func (m *Model) createCmd(payload ledger.NewEntry) tea.Cmd {
	m.pending++
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_, err := ctrl.HandleCreate(ctx, payload)
		return mutationDoneMsg{op: "Erstellen", err: err}
	}
}

func (m *Model) updateCmd(id int64, payload ledger.NewEntry) tea.Cmd {
	m.pending++
	ctrl, ctx := m.ctrl, m.ctx
	patch := ledger.PatchFromNewEntry(payload)
	return func() tea.Msg {
		_, err := ctrl.HandleUpdate(ctx, id, patch)
		return mutationDoneMsg{op: "Speichern", err: err}
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	m.pending++
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		err := ctrl.FinishDelete(ctx, id)
		return mutationDoneMsg{op: "Löschen", err: err}
	}
}

func (m *Model) saveFilters() {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SaveFilters(m.ctrl.State.Filters()); err != nil {
		m.log.WithError(err).Warn("save filter preference")
	}
}

// syncFromState pushes read-only copies of the canonical state into every
// component.
func (m *Model) syncFromState() {
	st := m.ctrl.State
	snap := st.Snapshot()
	m.table.SetEntries(snap.Entries)
	m.dashboard.SetSummary(snap.Summary)
	m.filterbar.SetFilters(st.Filters())
	m.filterbar.SetCatalog(snap.Categories, snap.Projects)
	if m.form != nil {
		if !st.Modal().Open() {
			m.form = nil
		} else {
			m.form.SetCatalog(snap.Categories, snap.Projects)
		}
	}
	m.status.SetError(st.LastError())
	m.table.SetFocused(m.form == nil)
	m.refreshHelp()
}

func (m *Model) refreshHelp() {
	switch {
	case m.form != nil:
		m.status.SetHelp(helpForm)
	case m.help != nil:
		m.status.SetHelp(helpOverlay)
	case m.ctrl.State.View() == app.ViewTable:
		m.status.SetHelp(helpTable)
	default:
		m.status.SetHelp(helpDashboard)
	}
}

func (m *Model) layoutContent() {
	if m.width <= 0 {
		m.width = 1
	}
	if m.height <= 0 {
		m.height = 1
	}
	body := m.bodyHeight()
	m.table.SetSize(m.width, body)
	m.dashboard.SetSize(m.width, body)
	m.status.SetWidth(m.width)
	if m.form != nil {
		m.form.SetWidth(min(m.width-10, 72))
	}
	if m.help != nil {
		m.help.SetSize(min(m.width-4, 80), body)
	}
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerLines-1, 3)
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	header := m.renderHeader()
	filters, _ := m.filterbar.View()

	bodyHeight := m.bodyHeight()
	var body string
	if m.ctrl.State.View() == app.ViewTable {
		body, _ = m.table.View()
	} else {
		body, _ = m.dashboard.View()
	}

	var cursor *tea.Cursor
	switch {
	case m.form != nil:
		formView, formCursor := m.form.View()
		var off overlay.Offset
		body, off = overlay.Compose(body, m.width, bodyHeight, formView, overlay.Centered)
		if formCursor != nil {
			clone := *formCursor
			clone.Position.X += off.X
			clone.Position.Y += headerLines + off.Y
			cursor = &clone
		}
	case m.help != nil:
		helpView, _ := m.help.View()
		body, _ = overlay.Compose(body, m.width, bodyHeight, helpView, overlay.Centered)
	default:
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, filters, "", body, m.status.View())
	return out, cursor
}

func (m *Model) renderHeader() string {
	th := m.theme
	tab := func(label string, active bool) string {
		if active {
			return th.Modal.Active.Render(" " + label + " ")
		}
		return th.Panel.Muted.Render(" " + label + " ")
	}
	view := m.ctrl.State.View()
	header := th.Panel.Title.Render(m.title) + "  " +
		tab("Dashboard", view == app.ViewDashboard) +
		tab("Tabelle", view == app.ViewTable)
	if m.pending > 0 {
		header += "  " + th.Panel.Muted.Render("lädt…")
	}
	return header
}
