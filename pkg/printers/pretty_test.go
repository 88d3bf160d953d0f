package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/ledger/pkg/ledger"
)

func init() {
	color.NoColor = true
}

func TestEntries(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}
	pp.Entries(
		ledger.Entry{ID: 2, Date: "2024-02-01", Description: "Gehalt", Amount: 2500, EntryType: ledger.Income,
			Category: &ledger.Category{ID: 1, Name: "Lohn"}},
		ledger.Entry{ID: 1, Date: "2024-01-15", Description: "Miete", Amount: 850, EntryType: ledger.Expense,
			Projects: []ledger.Project{{ID: 3, Name: "Wohnung"}, {ID: 4, Name: "Umzug"}}},
	)
	out := buf.String()
	for _, want := range []string{"ID", "Beschreibung", "Gehalt", "+€ 2.500,00", "−€ 850,00", "Lohn", "—", "Wohnung, Umzug"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Gehalt") > strings.Index(out, "Miete") {
		t.Errorf("entries reordered:\n%s", out)
	}
}

func TestEntriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Entries()
	if !strings.Contains(buf.String(), "keine") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Summary(ledger.Summary{
		TotalIncome:  1000,
		TotalExpense: 1250,
		Balance:      -250,
		Monthly: []ledger.MonthlyTotal{
			{Month: "2024-01", Income: 1000, Expense: 400},
			{Month: "2024-02", Income: 0, Expense: 850},
		},
		ByCategory: []ledger.CategoryTotal{{Name: "Miete", Value: 850}, {Name: "Essen", Value: 400}},
	})
	out := buf.String()
	for _, want := range []string{"€ 1.000,00", "-€ 250,00", "2024-01", "€ 600,00", "-€ 850,00", "Miete", "68%", "32%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryWithoutData(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Summary(ledger.Summary{})
	if got := strings.Count(buf.String(), "keine Daten"); got != 2 {
		t.Fatalf("placeholders = %d:\n%s", got, buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	if err := pp.JSON([]ledger.Category{{ID: 1, Name: "Lohn"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"name": "Lohn"`) {
		t.Fatalf("output = %s", buf.String())
	}
}
