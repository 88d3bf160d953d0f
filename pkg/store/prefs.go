package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
)

const (
	keyViewMode = "view_mode"
	keyFilters  = "filters"
)

// Preferences is what survives between dashboard runs.
type Preferences struct {
	View    app.ViewMode
	Filters ledger.Filters
}

// Prefs persists UI preferences as small files under a state directory.
type Prefs struct {
	d *diskv.Diskv
}

// OpenPrefs returns a preference store rooted at basePath.
func OpenPrefs(basePath string) (*Prefs, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: state path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure state path: %w", err)
	}
	return &Prefs{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Load returns the stored preferences. Missing keys yield defaults; a
// filter set that no longer validates is dropped rather than reported.
func (p *Prefs) Load() (Preferences, error) {
	out := Preferences{View: app.ViewDashboard, Filters: ledger.Filters{}}

	if p.d.Has(keyViewMode) {
		raw, err := p.d.Read(keyViewMode)
		if err != nil {
			return out, fmt.Errorf("store: read %s: %w", keyViewMode, err)
		}
		out.View = app.ParseViewMode(strings.TrimSpace(string(raw)))
	}

	if p.d.Has(keyFilters) {
		raw, err := p.d.Read(keyFilters)
		if err != nil {
			return out, fmt.Errorf("store: read %s: %w", keyFilters, err)
		}
		var f ledger.Filters
		if err := json.Unmarshal(raw, &f); err != nil {
			return out, fmt.Errorf("store: decode %s: %w", keyFilters, err)
		}
		if f.Validate() == nil {
			out.Filters = f.Clone()
		}
	}
	return out, nil
}

// SaveView stores the active view.
func (p *Prefs) SaveView(v app.ViewMode) error {
	return p.d.Write(keyViewMode, []byte(v.String()))
}

// SaveFilters stores the filter set; an empty set erases the key.
func (p *Prefs) SaveFilters(f ledger.Filters) error {
	f = f.Clone()
	if f.IsEmpty() {
		if !p.d.Has(keyFilters) {
			return nil
		}
		return p.d.Erase(keyFilters)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return p.d.Write(keyFilters, data)
}

// Reset removes every stored preference.
func (p *Prefs) Reset() error {
	return p.d.EraseAll()
}
