package printers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/money"
)

const (
	SheetEntries = "Einträge"
	SheetMonthly = "Monate"

	euroFormat = `#,##0.00 "€";-#,##0.00 "€"`
)

// Workbook writes entries and the monthly totals of summary as an xlsx file.
// Expenses are stored as negative amounts so the sheet sums to the balance.
func Workbook(w io.Writer, entries []ledger.Entry, summary ledger.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetEntries)
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	format := euroFormat
	euro, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	rows := [][]any{{"Datum", "Beschreibung", "Typ", "Betrag", "Kategorie", "Projekte", "Notizen"}}
	for _, e := range entries {
		rows = append(rows, []any{
			e.Date, e.Description, string(e.EntryType), e.Signed(),
			e.CategoryName(), e.ProjectNames(", "), e.NotesText(),
		})
	}
	if err := writeRows(f, SheetEntries, rows); err != nil {
		return err
	}
	last := len(rows)
	if err := firstErr(
		f.SetCellStyle(SheetEntries, "A1", "G1", bold),
		f.SetCellStyle(SheetEntries, "D2", fmt.Sprintf("D%d", max(last, 2)), euro),
		f.SetColWidth(SheetEntries, "A", "A", 12),
		f.SetColWidth(SheetEntries, "B", "B", 30),
		f.SetColWidth(SheetEntries, "D", "D", 14),
		f.SetColWidth(SheetEntries, "E", "F", 18),
		f.SetColWidth(SheetEntries, "G", "G", 40),
	); err != nil {
		return fmt.Errorf("workbook: %s: %w", SheetEntries, err)
	}

	rows = [][]any{{"Monat", "Einnahmen", "Ausgaben", "Bilanz"}}
	for _, m := range summary.Monthly {
		rows = append(rows, []any{m.Month, m.Income, m.Expense, money.Sub(m.Income, m.Expense)})
	}
	rows = append(rows, []any{"Gesamt", summary.TotalIncome, summary.TotalExpense, summary.Balance})
	if err := writeRows(f, SheetMonthly, rows); err != nil {
		return err
	}
	last = len(rows)
	if err := firstErr(
		f.SetCellStyle(SheetMonthly, "A1", "D1", bold),
		f.SetCellStyle(SheetMonthly, fmt.Sprintf("A%d", last), fmt.Sprintf("A%d", last), bold),
		f.SetCellStyle(SheetMonthly, "B2", fmt.Sprintf("D%d", last), euro),
		f.SetColWidth(SheetMonthly, "A", "D", 14),
	); err != nil {
		return fmt.Errorf("workbook: %s: %w", SheetMonthly, err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
