package sheets

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/quote"
)

var serviceColumns = []any{
	"Day", "Description", "Category", "Cost basis", "Location", "Qty",
	"Catalog entry", "Unit price", "Currency", "Confidence", "Status",
}

// tabName derives a sheet title that is unique per quotation and within the
// 100 character limit Sheets imposes.
func tabName(q *model.Quotation) string {
	title := strings.TrimSpace(q.Title)
	if title == "" {
		title = "Quotation"
	}
	title = strings.NewReplacer("'", "", "!", "", "[", "(", "]", ")", "*", "", "?", "", "/", "-", "\\", "-", ":", "-").Replace(title)

	suffix := q.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}

	if r := []rune(title); len(r) > 80 {
		title = string(r[:80])
	}
	if suffix == "" {
		return title
	}
	return fmt.Sprintf("%s %s", title, suffix)
}

// quoteTab wraps a tab name for use in A1 notation.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// prepareQuotationData lays out a quotation: title, totals, daily breakdown,
// then one row per detected service.
func prepareQuotationData(q *model.Quotation) [][]any {
	p := quote.Present(q.Totals, q.Config)
	missing := q.MissingPrices()

	values := make([][]any, 0, 16+len(p.Days)+len(q.Matches)+len(missing))
	values = append(values,
		[]any{q.Title, q.CreatedAt.Format("2006-01-02 15:04")},
		[]any{},
		[]any{"Summary"},
		[]any{"Travelers", q.NumPeople},
		[]any{"Currency", p.Currency},
		[]any{"Net per person", p.NetPerPerson.InexactFloat64()},
		[]any{"Tax", p.TaxAmount.InexactFloat64()},
		[]any{"Markup", p.MarkupAmount.InexactFloat64()},
		[]any{"Sell per person", p.SellPerPerson.InexactFloat64()},
		[]any{"Sell per group", p.SellPerGroup.InexactFloat64()},
		[]any{"Missing prices", len(missing)},
		[]any{},
		[]any{"Daily Breakdown"},
		[]any{"Day", "Net", "Sell"},
	)

	for _, d := range p.Days {
		values = append(values, []any{d.Day, d.Net.InexactFloat64(), d.Sell.InexactFloat64()})
	}

	values = append(values,
		[]any{},
		[]any{"Services"},
		serviceColumns,
	)

	for _, m := range q.Matches {
		entry := ""
		if m.Entry != nil {
			entry = m.Entry.ServiceName
		}
		status := "matched"
		if !m.Matched {
			status = "missing price"
		}
		values = append(values, []any{
			m.Service.Day,
			m.Service.Description,
			m.Service.Category.Label(),
			string(m.Service.CostBasis),
			m.Service.Location,
			m.Service.EffectiveQuantity(),
			entry,
			m.UnitPrice.InexactFloat64(),
			m.Currency,
			m.Confidence,
			status,
		})
	}

	if len(missing) > 0 {
		values = append(values, []any{}, []any{"Missing Prices"})
		for _, m := range missing {
			values = append(values, []any{m.Service.Day, m.Hint})
		}
	}

	return values
}
