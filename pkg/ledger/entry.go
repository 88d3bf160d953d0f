// Package ledger holds the domain types shared by the API client, the
// dashboard and the CLI.
package ledger

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar-day encoding used on the wire.
const DateLayout = "2006-01-02"

// EntryType distinguishes income from expense. The values are the wire
// strings the backend expects.
type EntryType string

const (
	Income  EntryType = "Einnahme"
	Expense EntryType = "Ausgabe"
)

// EntryTypes lists the known types in display order.
var EntryTypes = []EntryType{Income, Expense}

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

func (t EntryType) String() string {
	return string(t)
}

// ParseEntryType accepts the wire values and the english aliases.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "einnahme", "income", "in":
		return Income, nil
	case "ausgabe", "expense", "out":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
}

// Category is a named bucket an entry may belong to.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project groups entries; an entry can belong to many projects.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Entry is a single income or expense booking. Amount is always a
// non-negative magnitude; the sign comes from EntryType.
type Entry struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	EntryType   EntryType `json:"entry_type"`
	CategoryID  *int64    `json:"category_id"`
	Category    *Category `json:"category"`
	Projects    []Project `json:"projects"`
	Notes       *string   `json:"notes"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// Signed returns the amount with the sign implied by the entry type.
func (e Entry) Signed() float64 {
	if e.EntryType == Income {
		return e.Amount
	}
	return -e.Amount
}

// CategoryName returns the resolved category name or "" when unset.
func (e Entry) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}

// NotesText returns the notes or "" when unset.
func (e Entry) NotesText() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// ProjectIDs returns the ids of the linked projects in order.
func (e Entry) ProjectIDs() []int64 {
	ids := make([]int64, 0, len(e.Projects))
	for _, p := range e.Projects {
		ids = append(ids, p.ID)
	}
	return ids
}

// ProjectNames joins the linked project names with sep.
func (e Entry) ProjectNames(sep string) string {
	names := make([]string, 0, len(e.Projects))
	for _, p := range e.Projects {
		names = append(names, p.Name)
	}
	return strings.Join(names, sep)
}

// MonthlyTotal is one point of the monthly series, keyed "YYYY-MM".
type MonthlyTotal struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is the read-only aggregate computed by the backend.
type Summary struct {
	TotalIncome  float64         `json:"total_income"`
	TotalExpense float64         `json:"total_expense"`
	Balance      float64         `json:"balance"`
	Monthly      []MonthlyTotal  `json:"monthly"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// CloneEntries returns a copy of entries that shares no slices with the
// input.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Projects != nil {
			e.Projects = append([]Project(nil), e.Projects...)
		}
		out[i] = e
	}
	return out
}

// FindEntry returns the entry with id, if present.
func FindEntry(entries []Entry, id int64) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// CategoryByID resolves id against categories.
func CategoryByID(categories []Category, id int64) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ProjectByID resolves id against projects.
func ProjectByID(projects []Project, id int64) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
