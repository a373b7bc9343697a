// Package quote turns matched services into per-person, per-group and per-day totals.
package quote

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/model"
)

// ErrInvalidPeople is returned when a quotation is requested for fewer than one traveler.
var ErrInvalidPeople = errors.New("number of people must be at least 1")

// rates holds the tax and markup multipliers as decimals.
type rates struct {
	tax    decimal.Decimal
	markup decimal.Decimal
}

func newRates(cfg model.PricingConfig) rates {
	return rates{
		tax:    decimal.NewFromFloat(cfg.TaxRate),
		markup: decimal.NewFromFloat(cfg.MarkupRate),
	}
}

// breakdown splits a net amount into tax, markup and sell price.
// markup is applied on top of the taxed amount.
func (r rates) breakdown(net decimal.Decimal) (tax, markup, sell decimal.Decimal) {
	tax = net.Mul(r.tax)
	markup = net.Add(tax).Mul(r.markup)
	sell = net.Add(tax).Add(markup)
	return tax, markup, sell
}

func (r rates) inflate(net decimal.Decimal) decimal.Decimal {
	_, _, sell := r.breakdown(net)
	return sell
}

// ComputeTotals aggregates matched results into quotation totals for numPeople
// travelers. Unmatched results never contribute. All figures stay unrounded;
// see Present for rounding.
func ComputeTotals(matches []model.MatchResult, numPeople int, cfg model.PricingConfig) (model.QuotationTotals, error) {
	if numPeople < 1 {
		return model.QuotationTotals{}, fmt.Errorf("%w: got %d", ErrInvalidPeople, numPeople)
	}
	if err := cfg.Validate(); err != nil {
		return model.QuotationTotals{}, err
	}

	r := newRates(cfg)
	people := decimal.NewFromInt(int64(numPeople))

	perPersonNet := decimal.Zero
	groupNet := decimal.Zero
	dayNet := make(map[int]decimal.Decimal)
	currency := ""

	for _, m := range matches {
		if !m.Matched || !cfg.Profile.Includes(m.Service.Category) {
			continue
		}
		if currency == "" && m.Currency != "" {
			currency = m.Currency
		}

		qty := decimal.NewFromInt(int64(m.Service.EffectiveQuantity()))
		amount := m.UnitPrice.Mul(qty)
		day := m.Service.Day

		if m.Service.CostBasis == model.CostPerPerson {
			perPersonNet = perPersonNet.Add(amount)
			dayNet[day] = dayNet[day].Add(amount.Mul(people))
			continue
		}

		// per_group, flat_rate, per_night and per_day are all carried by the party;
		// the quantity already encodes nights or days.
		if m.Service.Category == model.CategoryAccommodation && cfg.AccommodationMode == model.AccommodationPerRoom {
			amount = roomAmount(m.UnitPrice, qty, numPeople, cfg)
		}
		groupNet = groupNet.Add(amount)
		dayNet[day] = dayNet[day].Add(amount)
	}

	if currency == "" {
		currency = cfg.Currency
	}

	headline := perPersonNet
	if cfg.GroupCostMode == model.GroupCostsSplit {
		headline = headline.Add(groupNet.Div(people))
	}

	tax, markup, sellPerPerson := r.breakdown(headline)

	totals := model.QuotationTotals{
		Currency:      currency,
		NetPerPerson:  headline,
		TaxAmount:     tax,
		MarkupAmount:  markup,
		SellPerPerson: sellPerPerson,
		GroupNet:      groupNet,
		GroupSell:     r.inflate(groupNet),
		Days:          dayTotals(dayNet, r),
	}

	totals.SellPerGroup = sellPerPerson.Mul(people)
	if cfg.GroupCostMode != model.GroupCostsSplit {
		totals.SellPerGroup = totals.SellPerGroup.Add(totals.GroupSell)
	}

	return totals, nil
}

// roomAmount prices shared accommodation by the number of rooms the party needs.
// A party that does not fill its last room pays the single supplement for it.
func roomAmount(price, qty decimal.Decimal, numPeople int, cfg model.PricingConfig) decimal.Decimal {
	rooms := (numPeople + cfg.Occupancy - 1) / cfg.Occupancy
	amount := price.Mul(qty).Mul(decimal.NewFromInt(int64(rooms)))
	if numPeople%cfg.Occupancy != 0 && cfg.SingleSupplement.Valid {
		amount = amount.Add(cfg.SingleSupplement.Decimal.Mul(qty))
	}
	return amount
}

func dayTotals(dayNet map[int]decimal.Decimal, r rates) []model.DayTotal {
	days := make([]int, 0, len(dayNet))
	for d := range dayNet {
		days = append(days, d)
	}
	sort.Ints(days)

	totals := make([]model.DayTotal, 0, len(days))
	for _, d := range days {
		totals = append(totals, model.DayTotal{
			Day:  d,
			Net:  dayNet[d],
			Sell: r.inflate(dayNet[d]),
		})
	}
	return totals
}
