package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/catalog"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/quote"
	"github.com/Veraticus/tourquote/internal/service"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...)
}

// RenderQuotation writes the services, missing prices, daily breakdown and
// totals of q.
func RenderQuotation(w io.Writer, q *model.Quotation) error {
	p := quote.Present(q.Totals, q.Config)

	var b strings.Builder
	title := q.Title
	if title == "" {
		title = "Quotation"
	}
	b.WriteString(FormatTitle(fmt.Sprintf("%s (%d travelers)", title, q.NumPeople)))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("ID " + q.ID))
	b.WriteString("\n\n")

	b.WriteString(servicesTable(q.Matches).String())
	b.WriteString("\n")

	if missing := q.MissingPrices(); len(missing) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarning(fmt.Sprintf("%d services have no catalog price", len(missing))))
		b.WriteString("\n")
		for _, m := range missing {
			b.WriteString(fmt.Sprintf("  Day %d: %s\n", m.Service.Day, m.Hint))
		}
	}

	if len(p.Days) > 0 {
		b.WriteString("\n")
		b.WriteString(dailyTable(p).String())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderBox(MoneyIcon+" Totals", totalsText(q, p)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func servicesTable(matches []model.MatchResult) *table.Table {
	t := newTable("Day", "Service", "Category", "Basis", "Qty", "Catalog entry", "Unit price", "Conf")
	for _, m := range matches {
		entry, price := "missing", "-"
		if m.Matched && m.Entry != nil {
			entry = m.Entry.ServiceName
			price = formatMoney(m.UnitPrice, m.Currency)
		}
		t.Row(
			strconv.Itoa(m.Service.Day),
			m.Service.Description,
			m.Service.Category.Label(),
			string(m.Service.CostBasis),
			strconv.Itoa(m.Service.EffectiveQuantity()),
			entry,
			price,
			strconv.Itoa(m.Confidence),
		)
	}
	return t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return TableHeaderStyle
		}
		if row >= 0 && row < len(matches) && !matches[row].Matched {
			return MissingCellStyle
		}
		return TableCellStyle
	})
}

func dailyTable(p quote.Presentation) *table.Table {
	t := newTable("Day", "Net", "Sell")
	for _, d := range p.Days {
		t.Row(strconv.Itoa(d.Day), formatMoney(d.Net, p.Currency), formatMoney(d.Sell, p.Currency))
	}
	return t.StyleFunc(headerOrCell)
}

func totalsText(q *model.Quotation, p quote.Presentation) string {
	lines := []struct {
		label string
		value decimal.Decimal
	}{
		{"Net per person", p.NetPerPerson},
		{"Tax", p.TaxAmount},
		{"Markup", p.MarkupAmount},
		{"Sell per person", p.SellPerPerson},
		{"Sell per group", p.SellPerGroup},
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("%-16s %s\n", l.label, formatMoney(l.value, p.Currency)))
	}
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Rounded to %d %s, tax %s, markup %s",
		p.Increment, p.Currency, percent(q.Config.TaxRate), percent(q.Config.MarkupRate))))
	if p.Converted {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("Converted from %s at %v", q.Totals.Currency, q.Config.ExchangeRate)))
	}
	return b.String()
}

// RenderCatalog writes catalog entries as a table.
func RenderCatalog(w io.Writer, entries []model.CatalogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("Catalog is empty"))
		return err
	}

	t := newTable("ID", "Service", "Category", "Location", "Basis", "Price", "Active")
	for _, e := range entries {
		active := SuccessIcon
		if !e.Active {
			active = ErrorIcon
		}
		t.Row(shortID(e.ID), e.ServiceName, e.Category, e.LocationText(), string(e.CostBasis),
			formatMoney(e.UnitPrice, e.Currency), active)
	}
	t.StyleFunc(headerOrCell)

	_, err := fmt.Fprintf(w, "%s\n%s\n", FormatTitle(fmt.Sprintf("%s %d catalog entries", CatalogIcon, len(entries))), t.String())
	return err
}

// RenderQuotationList writes stored quotation summaries as a table.
func RenderQuotationList(w io.Writer, summaries []service.QuotationSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No saved quotations"))
		return err
	}

	t := newTable("ID", "Created", "Title", "Pax", "Services", "Missing", "Sell per group")
	for _, s := range summaries {
		total := s.SellPerGroup + " " + s.Currency
		if amount, err := decimal.NewFromString(s.SellPerGroup); err == nil {
			total = formatMoney(amount.Round(2), s.Currency)
		}
		t.Row(s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Title, strconv.Itoa(s.NumPeople),
			strconv.Itoa(s.ServiceCount), strconv.Itoa(s.MissingPrices), total)
	}
	t.StyleFunc(headerOrCell)

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderImportResult summarizes a price-list import.
func RenderImportResult(w io.Writer, path string, result *catalog.Result) error {
	var b strings.Builder
	b.WriteString(FormatSuccess(fmt.Sprintf("Imported %d entries from %s", len(result.Entries), path)))
	b.WriteString("\n")
	if len(result.Errors) > 0 {
		b.WriteString(FormatWarning(fmt.Sprintf("Skipped %d rows", len(result.Errors))))
		b.WriteString("\n")
		for _, rowErr := range result.Errors {
			b.WriteString(SubtleStyle.Render("  " + rowErr.Error()))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func headerOrCell(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return TableHeaderStyle
	}
	return TableCellStyle
}

func formatMoney(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if amount.Equal(amount.Truncate(0)) {
		s = amount.Truncate(0).String()
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func percent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).String() + "%"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
