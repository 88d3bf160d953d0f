package ledger

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FilterKey names a dimension the backend can constrain entries and the
// summary by.
type FilterKey string

const (
	FilterCategory FilterKey = "category_id"
	FilterProject  FilterKey = "project_id"
	FilterType     FilterKey = "entry_type"
	FilterDateFrom FilterKey = "date_from"
	FilterDateTo   FilterKey = "date_to"
)

// FilterKeys lists every recognized key.
var FilterKeys = []FilterKey{FilterCategory, FilterProject, FilterType, FilterDateFrom, FilterDateTo}

// Known reports whether k is a recognized filter key.
func (k FilterKey) Known() bool {
	for _, known := range FilterKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Filters maps recognized keys to their constraint. A missing key means the
// dimension is unconstrained; an empty value is never stored.
//
// Filters is treated as immutable: With and Without return a fresh map.
type Filters map[FilterKey]string

// With returns a copy of f with key set to value, or with key removed when
// value is blank.
func (f Filters) With(key FilterKey, value string) Filters {
	next := f.Clone()
	value = strings.TrimSpace(value)
	if value == "" {
		delete(next, key)
		return next
	}
	next[key] = value
	return next
}

// Without returns a copy of f with key removed.
func (f Filters) Without(key FilterKey) Filters {
	next := f.Clone()
	delete(next, key)
	return next
}

// Clone copies f, dropping blank values. The result is never nil.
func (f Filters) Clone() Filters {
	next := make(Filters, len(f))
	for k, v := range f {
		if strings.TrimSpace(v) == "" {
			continue
		}
		next[k] = v
	}
	return next
}

// Get returns the value for key and whether it is set.
func (f Filters) Get(key FilterKey) (string, bool) {
	v, ok := f[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// IsEmpty reports whether no dimension is constrained.
func (f Filters) IsEmpty() bool {
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Query encodes the recognized, non-empty keys as URL query values.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for k, v := range f {
		if !k.Known() {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		q.Set(string(k), v)
	}
	return q
}

// Validate checks that every value parses for its dimension.
func (f Filters) Validate() error {
	for k, v := range f {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch k {
		case FilterCategory, FilterProject:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return fmt.Errorf("%s: %w", k, ErrInvalidID)
			}
		case FilterType:
			if !EntryType(v).Valid() {
				return fmt.Errorf("%s: %w: %q", k, ErrInvalidEntryType, v)
			}
		case FilterDateFrom, FilterDateTo:
			if _, err := time.Parse(DateLayout, v); err != nil {
				return fmt.Errorf("%s: %w", k, ErrInvalidDate)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownFilter, k)
		}
	}
	return nil
}

// String renders the filters in key order, for logs and the status bar.
func (f Filters) String() string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[FilterKey(k)])
	}
	return strings.Join(parts, " ")
}
