package edit

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"tableflip.dev/ledger/pkg/api"
	"tableflip.dev/ledger/pkg/api/apitest"
	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
)

func TestEditSendsOnlyPatchedFields(t *testing.T) {
	srv := apitest.NewServer(nil, nil)
	defer srv.Close()
	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Miete", Amount: 800, EntryType: ledger.Expense})

	amount := 850.0
	var buf bytes.Buffer
	n := Edit{
		Service: &app.Service{Backend: client},
		ID:      e.ID,
		Patch:   ledger.EntryPatch{Amount: &amount, ClearNotes: true},
		Out:     &buf,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}

	req, ok := srv.LastRequest(http.MethodPut, "/api/entries/1")
	if !ok {
		t.Fatalf("no PUT recorded")
	}
	if len(req.Body) != 2 || req.Body["amount"] != 850.0 {
		t.Fatalf("body = %v", req.Body)
	}
	if v, ok := req.Body["notes"]; !ok || v != nil {
		t.Fatalf("notes should be sent as null, body = %v", req.Body)
	}
}

func TestEditRejectsBadID(t *testing.T) {
	n := Edit{Service: &app.Service{}, ID: 0}
	if err := n.Do(context.Background()); !errors.Is(err, ledger.ErrInvalidID) {
		t.Fatalf("err = %v", err)
	}
}
