// Package export writes quotations to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/quote"
)

// Sheet names used in exported workbooks.
const (
	SheetServices = "Services"
	SheetTotals   = "Totals"
	SheetDaily    = "Daily"
)

// ErrNilQuotation is returned when asked to export nothing.
var ErrNilQuotation = errors.New("quotation is nil")

var serviceHeader = []any{
	"Day", "Description", "Category", "Cost basis", "Location", "Quantity",
	"Catalog entry", "Unit price", "Currency", "Confidence", "Matched", "Hint",
}

// SaveXLSX writes the quotation workbook to path.
func SaveXLSX(path string, q *model.Quotation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteXLSX(f, q); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteXLSX renders a quotation as a workbook with services, totals and a
// daily breakdown.
func WriteXLSX(w io.Writer, q *model.Quotation) error {
	if q == nil {
		return ErrNilQuotation
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName("Sheet1", SheetServices); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetTotals, SheetDaily} {
		if _, err := wb.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeServices(wb, q, bold); err != nil {
		return err
	}
	presentation := quote.Present(q.Totals, q.Config)
	if err := writeTotals(wb, q, presentation, bold); err != nil {
		return err
	}
	if err := writeDaily(wb, presentation, bold); err != nil {
		return err
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeServices(wb *excelize.File, q *model.Quotation, headerStyle int) error {
	if err := writeRow(wb, SheetServices, 1, serviceHeader); err != nil {
		return err
	}
	if err := wb.SetRowStyle(SheetServices, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, m := range q.Matches {
		entryName := ""
		if m.Entry != nil {
			entryName = m.Entry.ServiceName
		}
		row := []any{
			m.Service.Day,
			m.Service.Description,
			m.Service.Category.Label(),
			string(m.Service.CostBasis),
			m.Service.Location,
			m.Service.EffectiveQuantity(),
			entryName,
			money(m.UnitPrice),
			m.Currency,
			m.Confidence,
			m.Matched,
			m.Hint,
		}
		if err := writeRow(wb, SheetServices, i+2, row); err != nil {
			return err
		}
	}

	return wb.SetColWidth(SheetServices, "B", "B", 40)
}

func writeTotals(wb *excelize.File, q *model.Quotation, p quote.Presentation, headerStyle int) error {
	rows := [][]any{
		{"Quotation", q.Title},
		{"Travelers", q.NumPeople},
		{"Currency", p.Currency},
		{"Net per person", money(p.NetPerPerson)},
		{"Tax", money(p.TaxAmount)},
		{"Markup", money(p.MarkupAmount)},
		{"Sell per person", money(p.SellPerPerson)},
		{"Sell per group", money(p.SellPerGroup)},
		{"Rounded to", p.Increment},
		{"Missing prices", len(q.MissingPrices())},
	}
	for i, row := range rows {
		if err := writeRow(wb, SheetTotals, i+1, row); err != nil {
			return err
		}
	}
	if err := wb.SetCellStyle(SheetTotals, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("failed to style totals: %w", err)
	}
	return wb.SetColWidth(SheetTotals, "A", "B", 20)
}

func writeDaily(wb *excelize.File, p quote.Presentation, headerStyle int) error {
	if err := writeRow(wb, SheetDaily, 1, []any{"Day", "Net", "Sell"}); err != nil {
		return err
	}
	if err := wb.SetRowStyle(SheetDaily, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, d := range p.Days {
		if err := writeRow(wb, SheetDaily, i+2, []any{d.Day, money(d.Net), money(d.Sell)}); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
