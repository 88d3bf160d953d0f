package commands

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"tableflip.dev/ledger/pkg/api/apitest"
	"tableflip.dev/ledger/pkg/ledger"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("LEDGER_CONFIG_PATH", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestVersion(t *testing.T) {
	t.Setenv("LEDGER_CONFIG_PATH", t.TempDir())
	viper.Reset()
	defer viper.Reset()

	var buf bytes.Buffer
	cmd := New()
	cmd.SetArgs([]string{"version", "--short"})
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), version) {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestAddSendsPayload(t *testing.T) {
	srv := apitest.NewServer([]ledger.Category{{ID: 2, Name: "Wohnen"}}, nil)
	defer srv.Close()

	err := execute(t, "add", "--api-url", srv.URL, "-d", "Miete", "-a", "850,00", "--category", "2", "--date", "2024-03-01")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	req, ok := srv.LastRequest(http.MethodPost, "/api/entries")
	if !ok {
		t.Fatalf("no POST recorded")
	}
	if req.Body["description"] != "Miete" || req.Body["amount"] != 850.0 || req.Body["category_id"] != 2.0 {
		t.Fatalf("body = %v", req.Body)
	}
	if req.Body["entry_type"] != string(ledger.Expense) || req.Body["notes"] != nil {
		t.Fatalf("body = %v", req.Body)
	}
}

func TestEditSendsChangedFlagsOnly(t *testing.T) {
	srv := apitest.NewServer(nil, nil)
	defer srv.Close()
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Miete", Amount: 800, EntryType: ledger.Expense})

	if err := execute(t, "edit", "1", "--api-url", srv.URL, "--description", "Miete Jänner"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	req, _ := srv.LastRequest(http.MethodPut, "/api/entries/1")
	if len(req.Body) != 1 || req.Body["description"] != "Miete Jänner" {
		t.Fatalf("body = %v", req.Body)
	}
	if got := srv.Entries(); got[0].ID != e.ID || got[0].Amount != 800 {
		t.Fatalf("entries = %+v", got)
	}
}

func TestDeleteValidatesID(t *testing.T) {
	err := execute(t, "delete", "abc")
	if !errors.Is(err, ledger.ErrInvalidID) {
		t.Fatalf("err = %v", err)
	}
}

func TestHealthFailsOnServerError(t *testing.T) {
	srv := apitest.NewServer(nil, nil)
	defer srv.Close()
	srv.Fail("GET /api/health", http.StatusServiceUnavailable)

	if err := execute(t, "health", "--api-url", srv.URL); err == nil {
		t.Fatalf("expected error")
	}
}
