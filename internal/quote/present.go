package quote

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/model"
)

// Presentation is the rounded, display-ready view of QuotationTotals.
type Presentation struct {
	Currency      string
	NetPerPerson  decimal.Decimal
	TaxAmount     decimal.Decimal
	MarkupAmount  decimal.Decimal
	SellPerPerson decimal.Decimal
	SellPerGroup  decimal.Decimal
	Days          []model.DayTotal
	Increment     int
	Converted     bool
}

// Round returns amount rounded to the nearest multiple of increment.
// Halves round away from zero.
func Round(amount decimal.Decimal, increment int) decimal.Decimal {
	if increment < 1 {
		return amount
	}
	inc := decimal.NewFromInt(int64(increment))
	return amount.Div(inc).Round(0).Mul(inc)
}

// Present rounds every monetary figure in totals for display. When the config
// carries an exchange rate other than 1 and a different currency, figures are
// converted into cfg.Currency first; rounding always happens last.
func Present(totals model.QuotationTotals, cfg model.PricingConfig) Presentation {
	rate := decimal.NewFromInt(1)
	currency := totals.Currency
	converted := false
	if cfg.ExchangeRate > 0 && cfg.ExchangeRate != 1 && cfg.Currency != "" && cfg.Currency != totals.Currency {
		rate = decimal.NewFromFloat(cfg.ExchangeRate)
		currency = cfg.Currency
		converted = true
	}

	show := func(d decimal.Decimal) decimal.Decimal {
		return Round(d.Mul(rate), cfg.RoundingIncrement)
	}

	days := make([]model.DayTotal, 0, len(totals.Days))
	for _, d := range totals.Days {
		days = append(days, model.DayTotal{
			Day:  d.Day,
			Net:  show(d.Net),
			Sell: show(d.Sell),
		})
	}

	return Presentation{
		Currency:      currency,
		NetPerPerson:  show(totals.NetPerPerson),
		TaxAmount:     show(totals.TaxAmount),
		MarkupAmount:  show(totals.MarkupAmount),
		SellPerPerson: show(totals.SellPerPerson),
		SellPerGroup:  show(totals.SellPerGroup),
		Days:          days,
		Increment:     cfg.RoundingIncrement,
		Converted:     converted,
	}
}
