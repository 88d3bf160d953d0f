package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

var validate = validator.New()

// NewEntry is the create payload.
type NewEntry struct {
	Date        string    `json:"date" validate:"required,datetime=2006-01-02"`
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"gte=0"`
	EntryType   EntryType `json:"entry_type" validate:"oneof=Einnahme Ausgabe"`
	CategoryID  *int64    `json:"category_id"`
	ProjectIDs  []int64   `json:"project_ids"`
	Notes       *string   `json:"notes"`
}

// Validate checks the payload and maps failures onto the package errors.
func (n NewEntry) Validate() error {
	if math.IsNaN(n.Amount) || math.IsInf(n.Amount, 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(n.Description) == "" {
		return ErrMissingDescription
	}
	if err := validate.Struct(n); err != nil {
		return translate(err)
	}
	return nil
}

// Normalized returns a copy with an empty project list instead of nil so the
// wire always carries an array.
func (n NewEntry) Normalized() NewEntry {
	if n.ProjectIDs == nil {
		n.ProjectIDs = []int64{}
	}
	n.Description = strings.TrimSpace(n.Description)
	return n
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Date":
		return ErrInvalidDate
	case "Description":
		return ErrMissingDescription
	case "Amount":
		return ErrInvalidAmount
	case "EntryType":
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, fe.Value())
	}
	return fmt.Errorf("ledger: %s failed %q", fe.Field(), fe.Tag())
}

// EntryPatch is a partial update. Nil fields are left untouched on the
// server. ClearCategory and ClearNotes send an explicit null.
type EntryPatch struct {
	Date        *string
	Description *string
	Amount      *float64
	EntryType   *EntryType
	CategoryID  *int64
	Notes       *string

	ClearCategory bool
	ClearNotes    bool

	// ReplaceProjects sends ProjectIDs even when empty.
	ReplaceProjects bool
	ProjectIDs      []int64
}

// IsEmpty reports whether the patch would change nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Date == nil && p.Description == nil && p.Amount == nil &&
		p.EntryType == nil && p.CategoryID == nil && p.Notes == nil &&
		!p.ClearCategory && !p.ClearNotes && !p.ReplaceProjects
}

// Validate checks every supplied field.
func (p EntryPatch) Validate() error {
	if p.Date != nil {
		if _, err := time.Parse(DateLayout, *p.Date); err != nil {
			return ErrInvalidDate
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrMissingDescription
	}
	if p.Amount != nil {
		a := *p.Amount
		if a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
			return ErrInvalidAmount
		}
	}
	if p.EntryType != nil && !p.EntryType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, *p.EntryType)
	}
	return nil
}

// Fields returns the wire representation of the patch.
func (p EntryPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.Description != nil {
		out["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil {
		out["amount"] = *p.Amount
	}
	if p.EntryType != nil {
		out["entry_type"] = *p.EntryType
	}
	switch {
	case p.ClearCategory:
		out["category_id"] = nil
	case p.CategoryID != nil:
		out["category_id"] = *p.CategoryID
	}
	switch {
	case p.ClearNotes:
		out["notes"] = nil
	case p.Notes != nil:
		out["notes"] = *p.Notes
	}
	if p.ReplaceProjects {
		ids := p.ProjectIDs
		if ids == nil {
			ids = []int64{}
		}
		out["project_ids"] = ids
	}
	return out
}

// MarshalJSON emits only the supplied fields.
func (p EntryPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// PatchFromNewEntry builds a patch that replaces every field with the
// values of n.
func PatchFromNewEntry(n NewEntry) EntryPatch {
	n = n.Normalized()
	p := EntryPatch{
		Date:            &n.Date,
		Description:     &n.Description,
		Amount:          &n.Amount,
		EntryType:       &n.EntryType,
		ReplaceProjects: true,
		ProjectIDs:      n.ProjectIDs,
	}
	if n.CategoryID == nil {
		p.ClearCategory = true
	} else {
		p.CategoryID = n.CategoryID
	}
	if n.Notes == nil {
		p.ClearNotes = true
	} else {
		p.Notes = n.Notes
	}
	return p
}
