package printers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/gosuri/uitable"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/money"
)

const descriptionWidth = 40

// PrettyPrint renders ledger data as aligned, colored tables.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint, color.Italic)
	income  = color.New(color.FgGreen)
	expense = color.New(color.FgRed)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

// NewLine prints an empty line.
func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Title prints a bold, underlined heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount prints a heading followed by a faint count.
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " Eintrag")
	default:
		_, _ = c.Fprintln(pp.out(), " Einträge")
	}
}

// Entries prints entries in the order given.
func (pp *PrettyPrint) Entries(entries ...ledger.Entry) {
	if len(entries) == 0 {
		_, _ = faint.Fprint(pp.out(), " keine\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = descriptionWidth
	header := []interface{}{"Datum", "Beschreibung", "Typ", "Betrag", "Kategorie", "Projekte", "Notizen"}
	if pp.ShowID {
		header = append([]interface{}{"ID"}, header...)
	}
	tbl.AddRow(boldAll(header)...)

	for _, e := range entries {
		category := e.CategoryName()
		if category == "" {
			category = "—"
		}
		row := []interface{}{e.Date, e.Description, e.EntryType.String(), signed(e), category, e.ProjectNames(", "), e.NotesText()}
		if pp.ShowID {
			row = append([]interface{}{strconv.FormatInt(e.ID, 10)}, row...)
		}
		tbl.AddRow(row...)
	}
	amountCol := 3
	if pp.ShowID {
		amountCol++
	}
	tbl.RightAlign(amountCol)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Entry prints a single entry as a key/value block.
func (pp *PrettyPrint) Entry(e ledger.Entry) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), e.ID)
	tbl.AddRow(bold.Sprint("Datum"), e.Date)
	tbl.AddRow(bold.Sprint("Beschreibung"), e.Description)
	tbl.AddRow(bold.Sprint("Typ"), e.EntryType.String())
	tbl.AddRow(bold.Sprint("Betrag"), signed(e))
	if c := e.CategoryName(); c != "" {
		tbl.AddRow(bold.Sprint("Kategorie"), c)
	}
	if p := e.ProjectNames(", "); p != "" {
		tbl.AddRow(bold.Sprint("Projekte"), p)
	}
	if n := e.NotesText(); n != "" {
		tbl.AddRow(bold.Sprint("Notizen"), n)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Categories prints the category catalog.
func (pp *PrettyPrint) Categories(categories ...ledger.Category) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Kategorie"))
	for _, c := range categories {
		tbl.AddRow(c.ID, c.Name)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Projects prints the project catalog.
func (pp *PrettyPrint) Projects(projects ...ledger.Project) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Projekt"))
	for _, p := range projects {
		tbl.AddRow(p.ID, p.Name)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Summary prints totals, the monthly breakdown with its running balance and
// the expense share per category.
func (pp *PrettyPrint) Summary(s ledger.Summary) {
	totals := uitable.New()
	totals.Separator = "  "
	totals.AddRow(bold.Sprint("Einnahmen"), income.Sprint(money.Format(s.TotalIncome)))
	totals.AddRow(bold.Sprint("Ausgaben"), expense.Sprint(money.Format(s.TotalExpense)))
	totals.AddRow(bold.Sprint("Bilanz"), balance(s.Balance))
	totals.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), totals)
	pp.NewLine()

	pp.Title("Monatlich")
	if len(s.Monthly) == 0 {
		_, _ = faint.Fprint(pp.out(), " keine Daten\n\n")
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("Monat"), bold.Sprint("Einnahmen"), bold.Sprint("Ausgaben"), bold.Sprint("Bilanz"))
		for _, m := range s.Monthly {
			tbl.AddRow(m.Month, money.Format(m.Income), money.Format(m.Expense), balance(money.Sub(m.Income, m.Expense)))
		}
		tbl.RightAlign(1)
		tbl.RightAlign(2)
		tbl.RightAlign(3)
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}

	pp.Title("Nach Kategorie")
	if len(s.ByCategory) == 0 {
		_, _ = faint.Fprint(pp.out(), " keine Daten\n\n")
		return
	}
	values := make([]float64, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		values = append(values, c.Value)
	}
	total := money.Sum(values...)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Kategorie"), bold.Sprint("Ausgaben"), bold.Sprint("Anteil"))
	for _, c := range s.ByCategory {
		tbl.AddRow(c.Name, money.Format(c.Value), fmt.Sprintf("%d%%", money.Percent(c.Value, total)))
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// JSON prints v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}

func signed(e ledger.Entry) string {
	if e.EntryType == ledger.Income {
		return income.Sprint(money.Magnitude("+", e.Amount))
	}
	return expense.Sprint(money.Magnitude("−", e.Amount))
}

func balance(v float64) string {
	if v < 0 {
		return expense.Sprint(money.Format(v))
	}
	return income.Sprint(money.Format(v))
}

func boldAll(cells []interface{}) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = bold.Sprint(c)
	}
	return out
}
