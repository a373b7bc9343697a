package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/model"
)

// Entry builds an active EUR catalog entry.
func Entry(id, name, category, location string, basis model.CostBasis, price string) model.CatalogEntry {
	return model.CatalogEntry{
		ID:          id,
		ServiceName: name,
		Category:    category,
		Location:    location,
		CostBasis:   basis,
		UnitPrice:   decimal.RequireFromString(price),
		Currency:    "EUR",
		Active:      true,
	}
}

// SampleQuotation returns a two-day, two-traveler quotation: a matched
// private car on day 1 and an unpriced felucca ride on day 2. Totals use
// the default pricing config, so the group sells for 134.4 (150 rounded).
func SampleQuotation() *model.Quotation {
	entry := Entry("car", "Private car", "transportation", "Cairo", model.CostPerGroup, "100")
	car := model.DetectedService{Day: 1, Description: "Airport transfer", Category: model.CategoryTransportation, CostBasis: model.CostPerGroup, Location: "Cairo", Quantity: 1}
	felucca := model.DetectedService{Day: 2, Description: "Felucca ride", Category: model.CategoryOptional, CostBasis: model.CostPerPerson, Location: "Aswan", Quantity: 1}

	return &model.Quotation{
		ID:        "q1",
		Title:     "Egypt classic",
		CreatedAt: time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		NumPeople: 2,
		Services:  []model.DetectedService{car, felucca},
		Matches: []model.MatchResult{
			{Service: car, Entry: &entry, UnitPrice: entry.UnitPrice, Currency: "EUR", Confidence: 100, Matched: true},
			{Service: felucca, Confidence: 30, Hint: "Add a price for: 'Felucca ride' in Aswan."},
		},
		Config: model.DefaultPricingConfig(),
		Totals: model.QuotationTotals{
			Currency:     "EUR",
			GroupNet:     decimal.NewFromInt(100),
			GroupSell:    decimal.RequireFromString("134.4"),
			SellPerGroup: decimal.RequireFromString("134.4"),
			Days:         []model.DayTotal{{Day: 1, Net: decimal.NewFromInt(100), Sell: decimal.RequireFromString("134.4")}},
		},
	}
}
