package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableflip.dev/ledger/pkg/api/apitest"
	"tableflip.dev/ledger/pkg/ledger"
)

var (
	testCategories = []ledger.Category{{ID: 1, Name: "Lebensmittel"}, {ID: 2, Name: "Gehalt"}}
	testProjects   = []ledger.Project{{ID: 1, Name: "Urlaub"}, {ID: 2, Name: "Wohnung"}}
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(testCategories, testProjects)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://nope"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) succeeded", raw)
		}
	}
}

func TestFetchEntriesSendsOnlyNonEmptyFilters(t *testing.T) {
	c, srv := newTestClient(t)
	filters := ledger.Filters{}.
		With(ledger.FilterType, "Einnahme").
		With(ledger.FilterDateFrom, "2024-01-01").
		With(ledger.FilterCategory, "")

	if _, err := c.FetchEntries(context.Background(), filters); err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	req, ok := srv.LastRequest(http.MethodGet, "/api/entries")
	if !ok {
		t.Fatalf("no request recorded")
	}
	if want := "date_from=2024-01-01&entry_type=Einnahme"; req.RawQuery != want {
		t.Fatalf("query = %q, want %q", req.RawQuery, want)
	}
}

func TestFetchEntriesEmptyFiltersHasNoQuery(t *testing.T) {
	c, srv := newTestClient(t)
	if _, err := c.FetchEntries(context.Background(), ledger.Filters{ledger.FilterProject: ""}); err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	req, _ := srv.LastRequest(http.MethodGet, "/api/entries")
	if req.RawQuery != "" {
		t.Fatalf("query = %q, want empty", req.RawQuery)
	}
}

func TestCreateThenFetchShowsServerID(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	cat := int64(1)
	created, err := c.CreateEntry(ctx, ledger.NewEntry{
		Date:        "2024-02-03",
		Description: "Billa",
		Amount:      42.1,
		EntryType:   ledger.Expense,
		CategoryID:  &cat,
		ProjectIDs:  []int64{2},
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected server id")
	}
	if created.Category == nil || created.Category.Name != "Lebensmittel" {
		t.Fatalf("category not resolved: %+v", created.Category)
	}

	entries, err := c.FetchEntries(ctx, nil)
	if err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	if _, ok := ledger.FindEntry(entries, created.ID); !ok {
		t.Fatalf("created entry %d not listed in %+v", created.ID, entries)
	}
}

func TestCreateEntryValidatesLocally(t *testing.T) {
	c, srv := newTestClient(t)
	_, err := c.CreateEntry(context.Background(), ledger.NewEntry{Date: "2024-01-01", Amount: 1, EntryType: ledger.Income})
	if !errors.Is(err, ledger.ErrMissingDescription) {
		t.Fatalf("err = %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Fatalf("invalid payload reached the server")
	}
}

func TestUpdateEntrySendsOnlyPatchedFields(t *testing.T) {
	c, srv := newTestClient(t)
	notes := "alt"
	e := srv.Seed(ledger.Entry{Date: "2024-01-05", Description: "Strom", Amount: 60, EntryType: ledger.Expense, Notes: &notes})

	amount := 65.5
	updated, err := c.UpdateEntry(context.Background(), e.ID, ledger.EntryPatch{Amount: &amount, ClearNotes: true})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.Amount != 65.5 || updated.Notes != nil || updated.Description != "Strom" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	req, _ := srv.LastRequest(http.MethodPut, "/api/entries/1")
	if len(req.Body) != 2 {
		t.Fatalf("body = %v, want amount and notes only", req.Body)
	}
}

func TestUpdateMissingEntryIsNotFound(t *testing.T) {
	c, _ := newTestClient(t)
	desc := "x"
	_, err := c.UpdateEntry(context.Background(), 99, ledger.EntryPatch{Description: &desc})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Detail != "Entry not found" {
		t.Fatalf("detail = %+v", apiErr)
	}
}

func TestDeleteEntryIsIdempotent(t *testing.T) {
	c, srv := newTestClient(t)
	e := srv.Seed(ledger.Entry{Date: "2024-01-05", Description: "Strom", Amount: 60, EntryType: ledger.Expense})
	ctx := context.Background()
	if err := c.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := c.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if got := srv.Entries(); len(got) != 0 {
		t.Fatalf("entries = %+v", got)
	}
}

func TestDeleteEntrySurfacesServerErrors(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Fail("DELETE /api/entries/1", http.StatusInternalServerError)
	err := c.DeleteEntry(context.Background(), 1)
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("err = %v", err)
	}
}

func TestCatalogAndProjects(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	cats, err := c.FetchCategories(ctx)
	if err != nil {
		t.Fatalf("FetchCategories: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Gehalt" {
		t.Fatalf("categories = %+v", cats)
	}

	p, err := c.CreateProject(ctx, " Auto ")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Auto" || p.ID != 3 {
		t.Fatalf("project = %+v", p)
	}
	projects, err := c.FetchProjects(ctx)
	if err != nil {
		t.Fatalf("FetchProjects: %v", err)
	}
	if len(projects) != 3 || projects[0].Name != "Auto" {
		t.Fatalf("projects = %+v", projects)
	}
	if _, err := c.CreateProject(ctx, "  "); err == nil {
		t.Fatalf("expected error for empty project name")
	}
}

func TestFetchSummaryPassesFilters(t *testing.T) {
	c, srv := newTestClient(t)
	cat := int64(1)
	srv.Seed(ledger.Entry{Date: "2024-01-10", Description: "Gehalt", Amount: 1000, EntryType: ledger.Income})
	srv.Seed(ledger.Entry{Date: "2024-01-12", Description: "Billa", Amount: 400, EntryType: ledger.Expense, CategoryID: &cat})

	sum, err := c.FetchSummary(context.Background(), ledger.Filters{ledger.FilterDateFrom: "2024-01-01"})
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}
	if sum.Balance != 600 || len(sum.Monthly) != 1 || sum.Monthly[0].Month != "2024-01" {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.ByCategory) != 1 || sum.ByCategory[0].Value != 400 {
		t.Fatalf("by category = %+v", sum.ByCategory)
	}
	req, _ := srv.LastRequest(http.MethodGet, "/api/entries/summary")
	if req.RawQuery != "date_from=2024-01-01" {
		t.Fatalf("query = %q", req.RawQuery)
	}
}

func TestHealth(t *testing.T) {
	c, srv := newTestClient(t)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	srv.Fail("GET /api/health", http.StatusServiceUnavailable)
	if err := c.Health(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", WithUserAgent("ledger-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.FetchCategories(context.Background()); err != nil {
		t.Fatalf("FetchCategories: %v", err)
	}
	if got.Get("User-Agent") != "ledger-test" {
		t.Fatalf("User-Agent = %q", got.Get("User-Agent"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatalf("missing request id")
	}
}

func TestDetailFromValidationList(t *testing.T) {
	raw := []byte(`{"detail":[{"loc":["body","amount"],"msg":"field required"}]}`)
	if got := detailFrom(raw); got != "amount: field required" {
		t.Fatalf("detail = %q", got)
	}
	if got := detailFrom([]byte("boom")); got != "boom" {
		t.Fatalf("detail = %q", got)
	}
}
