// Package apitest provides an in-memory ledger backend for tests.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"tableflip.dev/ledger/pkg/ledger"
)

// Request records a call received by the fake backend.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     map[string]any
}

// Server is an httptest server that mimics the ledger API.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	nextID     int64
	entries    map[int64]ledger.Entry
	categories []ledger.Category
	projects   []ledger.Project
	requests   []Request
	failures   map[string]int
	ignoreDel  bool
}

// NewServer starts a fake backend seeded with the given categories and
// projects. Call Close when done.
func NewServer(categories []ledger.Category, projects []ledger.Project) *Server {
	s := &Server{
		nextID:     1,
		entries:    map[int64]ledger.Entry{},
		categories: append([]ledger.Category(nil), categories...),
		projects:   append([]ledger.Project(nil), projects...),
		failures:   map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.health)
	mux.HandleFunc("/api/entries", s.entriesRoot)
	mux.HandleFunc("/api/entries/", s.entryByID)
	mux.HandleFunc("/api/categories", s.listCategories)
	mux.HandleFunc("/api/projects", s.projectsRoot)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Fail makes every request matching "METHOD /path" answer with status.
// A zero status clears the failure.
func (s *Server) Fail(methodPath string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, methodPath)
		return
	}
	s.failures[methodPath] = status
}

// IgnoreDeletes makes DELETE answer 204 without removing anything, which
// lets tests observe the optimistic removal being reverted.
func (s *Server) IgnoreDeletes(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignoreDel = v
}

// Seed stores an entry directly and returns it with its id.
func (s *Server) Seed(e ledger.Entry) ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.entries[e.ID] = s.resolve(e)
	return s.entries[e.ID]
}

// Entries returns the stored entries in API order.
func (s *Server) Entries() []ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered(ledger.Filters{})
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request for method and path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				rec.Body = body
				buf, _ := json.Marshal(body)
				r.Body = io.NopCloser(bytes.NewReader(buf))
			}
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		status := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) entriesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters := ledger.Filters{}
		for _, k := range ledger.FilterKeys {
			filters = filters.With(k, r.URL.Query().Get(string(k)))
		}
		s.mu.Lock()
		out := s.filtered(filters)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var in ledger.NewEntry
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		s.mu.Lock()
		e := ledger.Entry{
			ID:          s.nextID,
			Date:        in.Date,
			Description: in.Description,
			Amount:      in.Amount,
			EntryType:   in.EntryType,
			CategoryID:  in.CategoryID,
			Notes:       in.Notes,
		}
		for _, id := range in.ProjectIDs {
			e.Projects = append(e.Projects, ledger.Project{ID: id})
		}
		s.nextID++
		e = s.resolve(e)
		s.entries[e.ID] = e
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, e)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) entryByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if rest == "summary" {
		s.summary(w, r)
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Entry not found"})
		return
	}
	switch r.Method {
	case http.MethodPut:
		var fields map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		e = applyFields(e, fields)
		e = s.resolve(e)
		s.entries[id] = e
		writeJSON(w, http.StatusOK, e)
	case http.MethodDelete:
		if !s.ignoreDel {
			delete(s.entries, id)
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	filters := ledger.Filters{}.
		With(ledger.FilterDateFrom, r.URL.Query().Get(string(ledger.FilterDateFrom))).
		With(ledger.FilterDateTo, r.URL.Query().Get(string(ledger.FilterDateTo)))
	s.mu.Lock()
	entries := s.filtered(filters)
	s.mu.Unlock()

	var sum ledger.Summary
	monthly := map[string]*ledger.MonthlyTotal{}
	byCat := map[string]float64{}
	for _, e := range entries {
		month := e.Date
		if len(month) >= 7 {
			month = month[:7]
		}
		m, ok := monthly[month]
		if !ok {
			m = &ledger.MonthlyTotal{Month: month}
			monthly[month] = m
		}
		if e.EntryType == ledger.Income {
			sum.TotalIncome += e.Amount
			m.Income += e.Amount
			continue
		}
		sum.TotalExpense += e.Amount
		m.Expense += e.Amount
		if e.Category != nil {
			byCat[e.Category.Name] += e.Amount
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	sum.Monthly = []ledger.MonthlyTotal{}
	for _, m := range monthly {
		sum.Monthly = append(sum.Monthly, *m)
	}
	sort.Slice(sum.Monthly, func(i, j int) bool { return sum.Monthly[i].Month < sum.Monthly[j].Month })
	sum.ByCategory = []ledger.CategoryTotal{}
	for name, v := range byCat {
		sum.ByCategory = append(sum.ByCategory, ledger.CategoryTotal{Name: name, Value: v})
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool { return sum.ByCategory[i].Name < sum.ByCategory[j].Name })
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]ledger.Category{}, s.categories...)
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) projectsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		out := append([]ledger.Project{}, s.projects...)
		s.mu.Unlock()
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "name is required"})
			return
		}
		s.mu.Lock()
		var maxID int64
		for _, p := range s.projects {
			if p.ID > maxID {
				maxID = p.ID
			}
		}
		p := ledger.Project{ID: maxID + 1, Name: in.Name}
		s.projects = append(s.projects, p)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, p)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// filtered must be called with mu held.
func (s *Server) filtered(f ledger.Filters) []ledger.Entry {
	out := []ledger.Entry{}
	for _, e := range s.entries {
		if v, ok := f.Get(ledger.FilterType); ok && string(e.EntryType) != v {
			continue
		}
		if v, ok := f.Get(ledger.FilterCategory); ok {
			if e.CategoryID == nil || strconv.FormatInt(*e.CategoryID, 10) != v {
				continue
			}
		}
		if v, ok := f.Get(ledger.FilterProject); ok {
			found := false
			for _, p := range e.Projects {
				if strconv.FormatInt(p.ID, 10) == v {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if v, ok := f.Get(ledger.FilterDateFrom); ok && e.Date < v {
			continue
		}
		if v, ok := f.Get(ledger.FilterDateTo); ok && e.Date > v {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return ledger.CloneEntries(out)
}

// resolve must be called with mu held.
func (s *Server) resolve(e ledger.Entry) ledger.Entry {
	e.Category = nil
	if e.CategoryID != nil {
		if c, ok := ledger.CategoryByID(s.categories, *e.CategoryID); ok {
			e.Category = &c
		}
	}
	var projects []ledger.Project
	for _, p := range e.Projects {
		if full, ok := ledger.ProjectByID(s.projects, p.ID); ok {
			projects = append(projects, full)
		}
	}
	e.Projects = projects
	if e.Projects == nil {
		e.Projects = []ledger.Project{}
	}
	return e
}

func applyFields(e ledger.Entry, fields map[string]json.RawMessage) ledger.Entry {
	for k, raw := range fields {
		isNull := string(raw) == "null"
		switch k {
		case "date":
			_ = json.Unmarshal(raw, &e.Date)
		case "description":
			_ = json.Unmarshal(raw, &e.Description)
		case "amount":
			_ = json.Unmarshal(raw, &e.Amount)
		case "entry_type":
			_ = json.Unmarshal(raw, &e.EntryType)
		case "category_id":
			if isNull {
				e.CategoryID = nil
				continue
			}
			var id int64
			if json.Unmarshal(raw, &id) == nil {
				e.CategoryID = &id
			}
		case "notes":
			if isNull {
				e.Notes = nil
				continue
			}
			var n string
			if json.Unmarshal(raw, &n) == nil {
				e.Notes = &n
			}
		case "project_ids":
			var ids []int64
			_ = json.Unmarshal(raw, &ids)
			e.Projects = nil
			for _, id := range ids {
				e.Projects = append(e.Projects, ledger.Project{ID: id})
			}
		}
	}
	return e
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
