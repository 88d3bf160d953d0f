package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/ledger"
)

// EntryOptions are the fields of an entry as flags.
type EntryOptions struct {
	Date        string
	Description string
	Amount      string
	Type        string
	Category    int64
	Projects    []int64
	Notes       string

	NoCategory bool
	NoNotes    bool
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Booking date, example: --date="2024-02-28". Defaults to today.`)
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"What the money was for.")
	cmd.Flags().StringVarP(&o.Amount, "amount", "a", "",
		`Amount in euros, "12.50" or "12,50".`)
	cmd.Flags().StringVarP(&o.Type, "type", "t", string(ledger.Expense),
		`"income" or "expense".`)
	cmd.Flags().Int64Var(&o.Category, "category", 0,
		"Category id.")
	cmd.Flags().Int64SliceVarP(&o.Projects, "project", "p", nil,
		"Project id, repeat for several projects.")
	cmd.Flags().StringVarP(&o.Notes, "notes", "n", "",
		"Free text notes.")
}

// AddClearArgs registers the flags that null out optional fields.
func AddClearArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().BoolVar(&o.NoCategory, "no-category", false,
		"Remove the category.")
	cmd.Flags().BoolVar(&o.NoNotes, "no-notes", false,
		"Remove the notes.")
}

// NewEntry builds a create payload from the flags.
func (o *EntryOptions) NewEntry(now time.Time) (ledger.NewEntry, error) {
	d := ledger.Draft{
		Date:        strings.TrimSpace(o.Date),
		Description: o.Description,
		Amount:      o.Amount,
		Notes:       o.Notes,
		ProjectIDs:  append([]int64(nil), o.Projects...),
	}
	if d.Date == "" {
		d.Date = now.Format(ledger.DateLayout)
	}
	t, err := ledger.ParseEntryType(o.Type)
	if err != nil {
		return ledger.NewEntry{}, err
	}
	d.EntryType = t
	if o.Category > 0 {
		d.CategoryID = strconv.FormatInt(o.Category, 10)
	}
	return d.Payload()
}

// Patch builds an update from the flags the user actually set on cmd.
func (o *EntryOptions) Patch(cmd *cobra.Command) (ledger.EntryPatch, error) {
	changed := cmd.Flags().Changed
	var p ledger.EntryPatch

	if changed("date") {
		v := strings.TrimSpace(o.Date)
		p.Date = &v
	}
	if changed("description") {
		v := o.Description
		p.Description = &v
	}
	if changed("amount") {
		v, err := ledger.ParseAmount(o.Amount)
		if err != nil {
			return p, err
		}
		p.Amount = &v
	}
	if changed("type") {
		t, err := ledger.ParseEntryType(o.Type)
		if err != nil {
			return p, err
		}
		p.EntryType = &t
	}
	switch {
	case o.NoCategory && changed("category"):
		return p, fmt.Errorf("--category and --no-category are mutually exclusive")
	case o.NoCategory:
		p.ClearCategory = true
	case changed("category"):
		v := o.Category
		p.CategoryID = &v
	}
	if changed("project") {
		p.ReplaceProjects = true
		p.ProjectIDs = append([]int64{}, o.Projects...)
	}
	switch {
	case o.NoNotes && changed("notes"):
		return p, fmt.Errorf("--notes and --no-notes are mutually exclusive")
	case o.NoNotes:
		p.ClearNotes = true
	case changed("notes"):
		v := o.Notes
		p.Notes = &v
	}

	if p.IsEmpty() {
		return p, fmt.Errorf("nothing to change, set at least one flag")
	}
	return p, p.Validate()
}

// ParseID parses a positive entry id argument.
func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", arg, ledger.ErrInvalidID)
	}
	return id, nil
}
