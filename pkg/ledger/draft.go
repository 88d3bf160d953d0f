package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Draft is the editable text state behind the entry form. Every field is
// kept as the user typed it until Payload normalizes it.
type Draft struct {
	Date        string
	Description string
	Amount      string
	EntryType   EntryType
	CategoryID  string
	ProjectIDs  []int64
	Notes       string
}

// NewDraft seeds a draft from an existing entry, or from the create defaults
// (today, expense) when e is nil.
func NewDraft(e *Entry, now time.Time) Draft {
	if e == nil {
		return Draft{
			Date:      now.Format(DateLayout),
			EntryType: Expense,
		}
	}
	d := Draft{
		Date:        e.Date,
		Description: e.Description,
		Amount:      strconv.FormatFloat(e.Amount, 'f', -1, 64),
		EntryType:   e.EntryType,
		ProjectIDs:  e.ProjectIDs(),
		Notes:       e.NotesText(),
	}
	switch {
	case e.CategoryID != nil:
		d.CategoryID = strconv.FormatInt(*e.CategoryID, 10)
	case e.Category != nil:
		d.CategoryID = strconv.FormatInt(e.Category.ID, 10)
	}
	if !d.EntryType.Valid() {
		d.EntryType = Expense
	}
	return d
}

// ToggleProject adds id when absent and removes it when present. The
// selection keeps the order in which projects were picked.
func (d *Draft) ToggleProject(id int64) {
	for i, existing := range d.ProjectIDs {
		if existing == id {
			d.ProjectIDs = append(d.ProjectIDs[:i:i], d.ProjectIDs[i+1:]...)
			return
		}
	}
	d.ProjectIDs = append(d.ProjectIDs, id)
}

// HasProject reports whether id is selected.
func (d Draft) HasProject(id int64) bool {
	for _, existing := range d.ProjectIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Payload converts the draft into a validated create payload. An empty
// category becomes null, as do empty notes.
func (d Draft) Payload() (NewEntry, error) {
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return NewEntry{}, err
	}
	n := NewEntry{
		Date:        strings.TrimSpace(d.Date),
		Description: strings.TrimSpace(d.Description),
		Amount:      amount,
		EntryType:   d.EntryType,
		ProjectIDs:  append([]int64{}, d.ProjectIDs...),
	}
	if raw := strings.TrimSpace(d.CategoryID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return NewEntry{}, fmt.Errorf("category: %w", ErrInvalidID)
		}
		n.CategoryID = &id
	}
	if d.Notes != "" {
		notes := d.Notes
		n.Notes = &notes
	}
	if err := n.Validate(); err != nil {
		return NewEntry{}, err
	}
	return n, nil
}

// ParseAmount reads a non-negative decimal amount. A comma is accepted as
// the decimal separator when no dot is present.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
