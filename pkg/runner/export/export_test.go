package export

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"

	"tableflip.dev/ledger/pkg/api"
	"tableflip.dev/ledger/pkg/api/apitest"
	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

func TestExportWritesWorkbook(t *testing.T) {
	color.NoColor = true
	srv := apitest.NewServer(nil, nil)
	t.Cleanup(srv.Close)
	srv.Seed(ledger.Entry{Date: "2024-01-01", Description: "Gehalt", Amount: 2000, EntryType: ledger.Income})
	srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Miete", Amount: 800, EntryType: ledger.Expense})
	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	var buf bytes.Buffer
	n := Export{Service: &app.Service{Backend: client}, Path: path, Out: &buf}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !strings.Contains(buf.String(), "2 Einträge") {
		t.Fatalf("output = %q", buf.String())
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(printers.SheetEntries)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestExportRejectsInvalidFilters(t *testing.T) {
	n := Export{Service: &app.Service{}, Path: "x.xlsx", Filters: ledger.Filters{ledger.FilterDateFrom: "gestern"}}
	if err := n.Do(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
}
