package ledger

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestNewDraftDefaults(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	d := NewDraft(nil, now)
	if d.Date != "2024-03-09" {
		t.Fatalf("date = %q", d.Date)
	}
	if d.EntryType != Expense {
		t.Fatalf("type = %q, want %q", d.EntryType, Expense)
	}
	if d.Description != "" || d.Amount != "" || d.CategoryID != "" || d.Notes != "" || len(d.ProjectIDs) != 0 {
		t.Fatalf("expected empty fields, got %+v", d)
	}
}

func TestNewDraftFromEntry(t *testing.T) {
	cat := int64(4)
	notes := "Q1"
	e := &Entry{
		ID:          9,
		Date:        "2024-02-01",
		Description: "Miete",
		Amount:      850,
		EntryType:   Expense,
		CategoryID:  &cat,
		Projects:    []Project{{ID: 2, Name: "Wohnung"}, {ID: 1, Name: "Haushalt"}},
		Notes:       &notes,
	}
	d := NewDraft(e, time.Now())
	want := Draft{
		Date:        "2024-02-01",
		Description: "Miete",
		Amount:      "850",
		EntryType:   Expense,
		CategoryID:  "4",
		ProjectIDs:  []int64{2, 1},
		Notes:       "Q1",
	}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("draft = %+v, want %+v", d, want)
	}
}

func TestDraftPayloadNormalization(t *testing.T) {
	d := Draft{
		Date:        "2024-01-15",
		Description: "Kaffee",
		Amount:      "12.5",
		EntryType:   Expense,
		CategoryID:  "",
		Notes:       "",
	}
	p, err := d.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if p.Amount != 12.5 {
		t.Fatalf("amount = %v, want 12.5", p.Amount)
	}
	if p.CategoryID != nil {
		t.Fatalf("category_id = %v, want nil", *p.CategoryID)
	}
	if p.Notes != nil {
		t.Fatalf("notes = %q, want nil", *p.Notes)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, frag := range []string{`"category_id":null`, `"notes":null`, `"amount":12.5`, `"project_ids":[]`} {
		if !strings.Contains(string(raw), frag) {
			t.Fatalf("payload %s missing %s", raw, frag)
		}
	}
}

func TestDraftPayloadErrors(t *testing.T) {
	base := Draft{Date: "2024-01-15", Description: "x", Amount: "1", EntryType: Income}
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{name: "amount text", mutate: func(d *Draft) { d.Amount = "abc" }, want: ErrInvalidAmount},
		{name: "negative", mutate: func(d *Draft) { d.Amount = "-3" }, want: ErrInvalidAmount},
		{name: "empty amount", mutate: func(d *Draft) { d.Amount = "" }, want: ErrInvalidAmount},
		{name: "description", mutate: func(d *Draft) { d.Description = "  " }, want: ErrMissingDescription},
		{name: "date", mutate: func(d *Draft) { d.Date = "15.01.2024" }, want: ErrInvalidDate},
		{name: "category", mutate: func(d *Draft) { d.CategoryID = "x" }, want: ErrInvalidID},
		{name: "type", mutate: func(d *Draft) { d.EntryType = "Spende" }, want: ErrInvalidEntryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			if _, err := d.Payload(); !errors.Is(err, tt.want) {
				t.Fatalf("Payload() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDraftToggleProjectKeepsClickOrder(t *testing.T) {
	var d Draft
	d.ToggleProject(3)
	d.ToggleProject(1)
	d.ToggleProject(2)
	d.ToggleProject(1)
	d.ToggleProject(1)
	if want := []int64{3, 2, 1}; !reflect.DeepEqual(d.ProjectIDs, want) {
		t.Fatalf("projects = %v, want %v", d.ProjectIDs, want)
	}
	if !d.HasProject(2) || d.HasProject(7) {
		t.Fatalf("HasProject mismatch for %v", d.ProjectIDs)
	}
}

func TestParseAmountAcceptsComma(t *testing.T) {
	got, err := ParseAmount("€ 12,75")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if got != 12.75 {
		t.Fatalf("amount = %v", got)
	}
}

func TestEntryPatchMarshalsOnlySetFields(t *testing.T) {
	desc := "Neu"
	p := EntryPatch{Description: &desc, ClearNotes: true}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("fields = %v", got)
	}
	if got["description"] != "Neu" {
		t.Fatalf("description = %v", got["description"])
	}
	if v, ok := got["notes"]; !ok || v != nil {
		t.Fatalf("notes = %v (present %v), want explicit null", v, ok)
	}
	if (EntryPatch{}).IsEmpty() != true || p.IsEmpty() {
		t.Fatalf("IsEmpty mismatch")
	}
}

func TestPatchFromNewEntryReplacesEverything(t *testing.T) {
	n := NewEntry{Date: "2024-01-01", Description: "Gehalt", Amount: 3000, EntryType: Income}
	fields := PatchFromNewEntry(n).Fields()
	for _, key := range []string{"date", "description", "amount", "entry_type", "category_id", "notes", "project_ids"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing %s in %v", key, fields)
		}
	}
	if fields["category_id"] != nil || fields["notes"] != nil {
		t.Fatalf("expected nulls, got %v", fields)
	}
}

func TestEntryPatchValidate(t *testing.T) {
	neg := -1.0
	if err := (EntryPatch{Amount: &neg}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Validate() = %v", err)
	}
	bad := EntryType("x")
	if err := (EntryPatch{EntryType: &bad}).Validate(); !errors.Is(err, ErrInvalidEntryType) {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestEntrySigned(t *testing.T) {
	if got := (Entry{Amount: 5, EntryType: Expense}).Signed(); got != -5 {
		t.Fatalf("Signed() = %v", got)
	}
	if got := (Entry{Amount: 5, EntryType: Income}).Signed(); got != 5 {
		t.Fatalf("Signed() = %v", got)
	}
}
