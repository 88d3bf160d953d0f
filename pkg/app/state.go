package app

import (
	"sync"

	"tableflip.dev/ledger/pkg/ledger"
)

// ViewMode selects the main panel.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewTable
)

func (v ViewMode) String() string {
	if v == ViewTable {
		return "table"
	}
	return "dashboard"
}

// ParseViewMode maps the persisted name back to a mode, defaulting to the
// dashboard.
func ParseViewMode(s string) ViewMode {
	if s == "table" {
		return ViewTable
	}
	return ViewDashboard
}

// ModalMode says whether the entry form is open and for what.
type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreating
	ModalEditing
)

// Modal is the form state. Entry is set only while editing.
type Modal struct {
	Mode  ModalMode
	Entry *ledger.Entry
}

// Open reports whether the form is visible.
func (m Modal) Open() bool {
	return m.Mode != ModalClosed
}

// State is the canonical client-side copy of everything the dashboard
// shows. Readers get copies; only State methods mutate.
type State struct {
	mu sync.RWMutex

	view    ViewMode
	modal   Modal
	filters ledger.Filters

	snap   Snapshot
	loaded bool

	// seq is the id of the latest load issued.
	seq uint64

	lastErr error
}

// NewState returns an empty state showing the dashboard.
func NewState() *State {
	return &State{filters: ledger.Filters{}}
}

func (s *State) View() ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *State) SetView(v ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// ToggleView flips between dashboard and table and returns the new mode.
func (s *State) ToggleView() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == ViewDashboard {
		s.view = ViewTable
	} else {
		s.view = ViewDashboard
	}
	return s.view
}

func (s *State) Modal() Modal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.modal
	if m.Entry != nil {
		e := ledger.CloneEntries([]ledger.Entry{*m.Entry})[0]
		m.Entry = &e
	}
	return m
}

func (s *State) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal{Mode: ModalCreating}
}

func (s *State) OpenEdit(e ledger.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := ledger.CloneEntries([]ledger.Entry{e})[0]
	s.modal = Modal{Mode: ModalEditing, Entry: &cp}
}

func (s *State) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal{}
}

// Filters returns a copy of the current filter set.
func (s *State) Filters() ledger.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// SetFilters replaces the filter set wholesale.
func (s *State) SetFilters(f ledger.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f.Clone()
}

// SetFilter assigns key, or removes it when value is blank, and returns the
// new set.
func (s *State) SetFilter(key ledger.FilterKey, value string) ledger.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.With(key, value)
	return s.filters.Clone()
}

// ClearFilters resets to the empty set.
func (s *State) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = ledger.Filters{}
}

// BeginLoad issues a new load id and returns it with the filters the load
// must use.
func (s *State) BeginLoad() (uint64, ledger.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, s.filters.Clone()
}

// ApplyLoad replaces all four collections at once, but only when seq is the
// latest load issued. Results of superseded loads are dropped and false is
// returned.
func (s *State) ApplyLoad(seq uint64, snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.snap = snap.Clone()
	s.loaded = true
	s.lastErr = nil
	return true
}

// IsLatest reports whether seq is still the newest load.
func (s *State) IsLatest(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq == s.seq
}

// Loaded reports whether any load has been applied.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the canonical collections.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Entries returns a copy of the entry collection.
func (s *State) Entries() []ledger.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.CloneEntries(s.snap.Entries)
}

// RemoveEntry drops id from the local collection without asking the
// backend. Loads already in flight were issued before the removal, so they
// are superseded; the next load issued overrides it.
func (s *State) RemoveEntry(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	for i, e := range s.snap.Entries {
		if e.ID == id {
			s.snap.Entries = append(s.snap.Entries[:i:i], s.snap.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// SetError records the failure shown in the status bar. nil clears it.
func (s *State) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *State) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
