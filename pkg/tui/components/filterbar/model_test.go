package filterbar

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/tui/events"
	"tableflip.dev/ledger/pkg/tui/theme"
)

func key(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Text: s, Code: r}
}

func change(t *testing.T, cmd tea.Cmd) events.FilterChangeMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected filter change command")
	}
	msg, ok := cmd().(events.FilterChangeMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	return msg
}

func TestCategoryCycle(t *testing.T) {
	m := New("filters", theme.Default())
	m.SetCatalog([]ledger.Category{{ID: 7, Name: "Miete"}, {ID: 9, Name: "Essen"}}, nil)

	tests := []struct {
		current string
		want    string
	}{
		{current: "", want: "7"},
		{current: "7", want: "9"},
		{current: "9", want: ""},
	}
	for _, tt := range tests {
		m.SetFilters(ledger.Filters{}.With(ledger.FilterCategory, tt.current))
		_, cmd := m.Update(key("c"))
		msg := change(t, cmd)
		if msg.Key != ledger.FilterCategory || msg.Value != tt.want {
			t.Errorf("from %q: got %s=%q, want %q", tt.current, msg.Key, msg.Value, tt.want)
		}
	}
}

func TestTypeCycle(t *testing.T) {
	m := New("", theme.Default())
	_, cmd := m.Update(key("t"))
	if msg := change(t, cmd); msg.Value != string(ledger.Income) {
		t.Fatalf("value = %q", msg.Value)
	}
}

func TestCycleWithoutChoicesIsNoop(t *testing.T) {
	m := New("", theme.Default())
	if _, cmd := m.Update(key("p")); cmd != nil {
		t.Fatalf("expected no command without projects")
	}
}

func TestResetOnlyWhenFiltered(t *testing.T) {
	m := New("", theme.Default())
	if _, cmd := m.Update(key("r")); cmd != nil {
		t.Fatalf("reset with empty filters should be a noop")
	}
	m.SetFilters(ledger.Filters{ledger.FilterType: string(ledger.Expense)})
	_, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatalf("expected reset command")
	}
	if _, ok := cmd().(events.FilterResetMsg); !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
}

func TestDateEdit(t *testing.T) {
	m := New("", theme.Default())
	m.Update(key("f"))
	if !m.Editing() {
		t.Fatalf("expected date edit mode")
	}
	for _, r := range "2024-13-01" {
		m.Update(tea.KeyPressMsg{Text: string(r), Code: r})
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatalf("invalid date must not be emitted")
	}
	if !m.Editing() || m.err == "" {
		t.Fatalf("expected inline error while still editing")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.Editing() {
		t.Fatalf("esc should leave edit mode")
	}

	m.Update(key("b"))
	for _, r := range "2024-02-29" {
		m.Update(tea.KeyPressMsg{Text: string(r), Code: r})
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := change(t, cmd)
	if msg.Key != ledger.FilterDateTo || msg.Value != "2024-02-29" {
		t.Fatalf("change = %+v", msg)
	}
}

func TestViewShowsNamesAndDefaults(t *testing.T) {
	m := New("", theme.Default())
	m.SetCatalog([]ledger.Category{{ID: 7, Name: "Miete"}}, nil)
	view, _ := m.View()
	for _, want := range []string{allCategories, allProjects, allTypes} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q: %s", want, view)
		}
	}
	if strings.Contains(view, resetLabel) {
		t.Fatalf("reset hint shown without filters")
	}

	m.SetFilters(ledger.Filters{ledger.FilterCategory: "7", ledger.FilterProject: "5"})
	view, _ = m.View()
	for _, want := range []string{"Miete", "#5", resetLabel} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q: %s", want, view)
		}
	}
}

func TestMonthShortcut(t *testing.T) {
	m := New("", theme.Default())
	m.SetClock(func() time.Time { return time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC) })
	_, cmd := m.Update(key("m"))
	msg := change(t, cmd)
	if msg.Key != ledger.FilterDateFrom || msg.Value != "2024-05-01" {
		t.Fatalf("change = %+v", msg)
	}
}
