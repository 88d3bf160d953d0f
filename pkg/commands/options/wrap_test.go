package options

import (
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	got := Wrap("Household  ledger on\tthe command line", 16)
	want := "Household ledger\non the command\nline"
	if got != want {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
	for _, line := range strings.Split(Wrap80(strings.Repeat("Eintrag ", 30)), "\n") {
		if len(line) > 80 {
			t.Fatalf("line too long (%d): %q", len(line), line)
		}
	}
	if Wrap("   ", 10) != "   " {
		t.Fatalf("blank text changed")
	}
}
