package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"tableflip.dev/ledger/pkg/api"
	"tableflip.dev/ledger/pkg/api/apitest"
	"tableflip.dev/ledger/pkg/ledger"
)

type memoryBackend struct {
	mu         sync.Mutex
	entries    []ledger.Entry
	categories []ledger.Category
	projects   []ledger.Project
	failOn     string
	calls      []string
}

func (m *memoryBackend) note(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.failOn == name {
		return errors.New(name + " unavailable")
	}
	return nil
}

func (m *memoryBackend) FetchEntries(_ context.Context, _ ledger.Filters) ([]ledger.Entry, error) {
	if err := m.note("entries"); err != nil {
		return nil, err
	}
	return ledger.CloneEntries(m.entries), nil
}

func (m *memoryBackend) FetchCategories(context.Context) ([]ledger.Category, error) {
	if err := m.note("categories"); err != nil {
		return nil, err
	}
	return m.categories, nil
}

func (m *memoryBackend) FetchProjects(context.Context) ([]ledger.Project, error) {
	if err := m.note("projects"); err != nil {
		return nil, err
	}
	return m.projects, nil
}

func (m *memoryBackend) FetchSummary(context.Context, ledger.Filters) (*ledger.Summary, error) {
	if err := m.note("summary"); err != nil {
		return nil, err
	}
	return &ledger.Summary{TotalIncome: 1}, nil
}

func (m *memoryBackend) CreateEntry(context.Context, ledger.NewEntry) (*ledger.Entry, error) {
	return nil, errors.New("not implemented")
}

func (m *memoryBackend) UpdateEntry(context.Context, int64, ledger.EntryPatch) (*ledger.Entry, error) {
	return nil, errors.New("not implemented")
}

func (m *memoryBackend) DeleteEntry(context.Context, int64) error {
	return errors.New("not implemented")
}

func (m *memoryBackend) CreateProject(context.Context, string) (*ledger.Project, error) {
	return nil, errors.New("not implemented")
}

// gatedBackend holds FetchEntries until gate is closed.
type gatedBackend struct {
	*memoryBackend
	started chan struct{}
	gate    chan struct{}
}

func (g *gatedBackend) FetchEntries(ctx context.Context, f ledger.Filters) ([]ledger.Entry, error) {
	close(g.started)
	<-g.gate
	return g.memoryBackend.FetchEntries(ctx, f)
}

func newControllerWithServer(t *testing.T) (*Controller, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(
		[]ledger.Category{{ID: 1, Name: "Lebensmittel"}},
		[]ledger.Project{{ID: 1, Name: "Urlaub"}},
	)
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return NewController(&Service{Backend: client}, NewState(), nil), srv
}

func TestSnapshotIsAllOrNothing(t *testing.T) {
	backend := &memoryBackend{
		entries:    []ledger.Entry{{ID: 1, Description: "a"}},
		categories: []ledger.Category{{ID: 1, Name: "x"}},
		failOn:     "projects",
	}
	svc := &Service{Backend: backend}
	snap, err := svc.Snapshot(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if snap.Entries != nil || snap.Categories != nil {
		t.Fatalf("partial snapshot returned: %+v", snap)
	}
}

func TestLoadFailureKeepsPreviousData(t *testing.T) {
	backend := &memoryBackend{entries: []ledger.Entry{{ID: 1, Description: "a"}}}
	c := NewController(&Service{Backend: backend}, NewState(), nil)
	ctx := context.Background()
	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	backend.failOn = "summary"
	backend.entries = nil
	if _, err := c.Load(ctx); err == nil {
		t.Fatalf("expected load failure")
	}
	if got := c.State.Entries(); len(got) != 1 {
		t.Fatalf("entries = %+v, want stale copy kept", got)
	}
	if c.State.LastError() == nil {
		t.Fatalf("expected error recorded")
	}

	backend.failOn = ""
	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.State.LastError() != nil {
		t.Fatalf("error not cleared after successful load")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	s := NewState()
	first, _ := s.BeginLoad()
	second, _ := s.BeginLoad()

	if s.ApplyLoad(first, Snapshot{Entries: []ledger.Entry{{ID: 1}}}) {
		t.Fatalf("stale load applied")
	}
	if !s.ApplyLoad(second, Snapshot{Entries: []ledger.Entry{{ID: 2}}}) {
		t.Fatalf("latest load rejected")
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0].ID != 2 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestBeginLoadCapturesFilters(t *testing.T) {
	s := NewState()
	s.SetFilter(ledger.FilterType, "Einnahme")
	_, filters := s.BeginLoad()
	s.SetFilter(ledger.FilterType, "")
	if filters[ledger.FilterType] != "Einnahme" {
		t.Fatalf("filters = %v", filters)
	}
	if !s.Filters().IsEmpty() {
		t.Fatalf("filter not removed: %v", s.Filters())
	}
}

func TestHandleCreateRoundTrip(t *testing.T) {
	c, _ := newControllerWithServer(t)
	ctx := context.Background()
	c.State.OpenCreate()

	created, err := c.HandleCreate(ctx, ledger.NewEntry{
		Date:        "2024-03-01",
		Description: "Gehalt",
		Amount:      2500,
		EntryType:   ledger.Income,
	})
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if c.State.Modal().Open() {
		t.Fatalf("modal still open")
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), created.ID); !ok {
		t.Fatalf("created entry %d not loaded", created.ID)
	}
	if got := c.State.Snapshot().Summary.TotalIncome; got != 2500 {
		t.Fatalf("summary income = %v", got)
	}
}

func TestHandleCreateFailureKeepsModal(t *testing.T) {
	c, srv := newControllerWithServer(t)
	srv.Fail("POST /api/entries", http.StatusInternalServerError)
	c.State.OpenCreate()
	_, err := c.HandleCreate(context.Background(), ledger.NewEntry{
		Date: "2024-03-01", Description: "x", Amount: 1, EntryType: ledger.Expense,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if c.State.Modal().Mode != ModalCreating {
		t.Fatalf("modal = %+v", c.State.Modal())
	}
	if c.State.LastError() == nil {
		t.Fatalf("error not recorded")
	}
}

func TestHandleUpdateClearsEditTarget(t *testing.T) {
	c, srv := newControllerWithServer(t)
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Strom", Amount: 50, EntryType: ledger.Expense})
	ctx := context.Background()
	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.State.OpenEdit(e)

	desc := "Strom Jänner"
	if _, err := c.HandleUpdate(ctx, e.ID, ledger.EntryPatch{Description: &desc}); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
	if m := c.State.Modal(); m.Open() || m.Entry != nil {
		t.Fatalf("edit target not cleared: %+v", m)
	}
	got, _ := ledger.FindEntry(c.State.Entries(), e.ID)
	if got.Description != desc {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestHandleDeleteIsOptimisticThenReconciled(t *testing.T) {
	c, srv := newControllerWithServer(t)
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Strom", Amount: 50, EntryType: ledger.Expense})
	ctx := context.Background()
	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	srv.IgnoreDeletes(true)
	if !c.BeginDelete(e.ID) {
		t.Fatalf("entry not removed locally")
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), e.ID); ok {
		t.Fatalf("entry still present before reload")
	}
	if err := c.FinishDelete(ctx, e.ID); err != nil {
		t.Fatalf("FinishDelete: %v", err)
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), e.ID); !ok {
		t.Fatalf("server kept the entry but reload did not restore it")
	}
}

func TestDeleteSupersedesLoadInFlight(t *testing.T) {
	backend := &memoryBackend{entries: []ledger.Entry{{ID: 1, Description: "Strom"}, {ID: 2, Description: "Miete"}}}
	svc := &Service{Backend: backend}
	c := NewController(svc, NewState(), nil)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	gated := &gatedBackend{memoryBackend: backend, started: make(chan struct{}), gate: make(chan struct{})}
	svc.Backend = gated
	done := make(chan LoadResult, 1)
	go func() {
		res, _ := c.Load(context.Background())
		done <- res
	}()
	<-gated.started

	if !c.BeginDelete(1) {
		t.Fatalf("entry not removed locally")
	}
	close(gated.gate)
	if res := <-done; res.Applied {
		t.Fatalf("load issued before the delete was applied (seq %d)", res.Seq)
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), 1); ok {
		t.Fatalf("deleted entry came back from an older load")
	}
	if got := len(c.State.Entries()); got != 1 {
		t.Fatalf("entries = %d", got)
	}
}

func TestMutationWithFailedReload(t *testing.T) {
	c, srv := newControllerWithServer(t)
	ctx := context.Background()
	srv.Fail("GET /api/categories", http.StatusInternalServerError)

	created, err := c.HandleCreate(ctx, ledger.NewEntry{
		Date: "2024-02-01", Description: "Kino", Amount: 12, EntryType: ledger.Expense,
	})
	if !errors.Is(err, ErrReload) {
		t.Fatalf("err = %v, want ErrReload", err)
	}
	if created == nil || len(srv.Entries()) != 1 {
		t.Fatalf("entry was not created: %+v", created)
	}
	if c.State.LastError() == nil {
		t.Fatalf("reload failure not recorded")
	}

	if _, err := c.HandleCreate(ctx, ledger.NewEntry{Date: "2024-02-01", Amount: 12, EntryType: ledger.Expense}); errors.Is(err, ErrReload) {
		t.Fatalf("rejected create reported as reload failure: %v", err)
	}
}

func TestHandleDeleteFailureRestoresEntry(t *testing.T) {
	c, srv := newControllerWithServer(t)
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Strom", Amount: 50, EntryType: ledger.Expense})
	ctx := context.Background()
	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv.Fail("DELETE /api/entries/1", http.StatusInternalServerError)

	if err := c.HandleDelete(ctx, e.ID); err == nil {
		t.Fatalf("expected delete error")
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), e.ID); !ok {
		t.Fatalf("entry should reappear after failed delete")
	}
	if c.State.LastError() == nil {
		t.Fatalf("delete error not recorded")
	}
}

func TestHandleDeleteTwiceIsIdempotent(t *testing.T) {
	c, srv := newControllerWithServer(t)
	e := srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Strom", Amount: 50, EntryType: ledger.Expense})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := c.HandleDelete(ctx, e.ID); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	if _, ok := ledger.FindEntry(c.State.Entries(), e.ID); ok {
		t.Fatalf("entry still present")
	}
}

func TestSetFilterAndClearReload(t *testing.T) {
	c, srv := newControllerWithServer(t)
	srv.Seed(ledger.Entry{Date: "2024-01-02", Description: "Lohn", Amount: 100, EntryType: ledger.Income})
	srv.Seed(ledger.Entry{Date: "2024-01-03", Description: "Billa", Amount: 20, EntryType: ledger.Expense})
	ctx := context.Background()

	if err := c.SetFilter(ctx, ledger.FilterType, "Einnahme"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if got := c.State.Entries(); len(got) != 1 || got[0].Description != "Lohn" {
		t.Fatalf("filtered entries = %+v", got)
	}
	req, _ := srv.LastRequest(http.MethodGet, "/api/entries")
	if req.RawQuery != "entry_type=Einnahme" {
		t.Fatalf("query = %q", req.RawQuery)
	}

	if err := c.ClearFilters(ctx); err != nil {
		t.Fatalf("ClearFilters: %v", err)
	}
	if got := c.State.Entries(); len(got) != 2 {
		t.Fatalf("entries = %+v", got)
	}
	req, _ = srv.LastRequest(http.MethodGet, "/api/entries")
	if req.RawQuery != "" {
		t.Fatalf("query = %q", req.RawQuery)
	}
}

func TestToggleView(t *testing.T) {
	s := NewState()
	if s.View() != ViewDashboard {
		t.Fatalf("default view = %v", s.View())
	}
	if s.ToggleView() != ViewTable || s.ToggleView() != ViewDashboard {
		t.Fatalf("toggle did not alternate")
	}
	if ParseViewMode(ViewTable.String()) != ViewTable {
		t.Fatalf("round trip failed")
	}
}
