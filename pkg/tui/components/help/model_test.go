package help

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/ledger/pkg/tui/theme"
)

func TestViewShowsSections(t *testing.T) {
	m := New(theme.Default(), 80, 60)
	view, _ := m.View()
	for _, want := range []string{"Ledger", "Ansichten", "ctrl+r"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderWrapsToWidth(t *testing.T) {
	out := render(theme.Default(), helpMarkdown, 40)
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 40 {
			t.Fatalf("line too wide (%d): %q", w, line)
		}
	}
}

func TestSetSizeClampsMinimum(t *testing.T) {
	m := New(theme.Default(), 4, 2)
	if m.width != 32 || m.height != 8 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
}
