package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tourquote/internal/catalog"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/service"
	"github.com/Veraticus/tourquote/internal/testutil"
)

func TestRenderQuotation(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderQuotation(&out, testutil.SampleQuotation()))

	s := out.String()
	assert.Contains(t, s, "Egypt classic (2 travelers)")
	assert.Contains(t, s, "Airport transfer")
	assert.Contains(t, s, "Private car")
	assert.Contains(t, s, "100 EUR")
	assert.Contains(t, s, "1 services have no catalog price")
	assert.Contains(t, s, "Day 2: Add a price for: 'Felucca ride' in Aswan.")
	assert.Contains(t, s, "Sell per group")
	assert.Contains(t, s, "150 EUR")
	assert.Contains(t, s, "tax 12%, markup 20%")
	assert.NotContains(t, s, "Converted from")
}

func TestRenderQuotationConverted(t *testing.T) {
	q := testutil.SampleQuotation()
	q.Config.Currency = "USD"
	q.Config.ExchangeRate = 1.1

	var out bytes.Buffer
	require.NoError(t, RenderQuotation(&out, q))
	assert.Contains(t, out.String(), "Converted from EUR at 1.1")
	assert.Contains(t, out.String(), "USD")
}

func TestRenderCatalog(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderCatalog(&out, nil))
	assert.Contains(t, out.String(), "Catalog is empty")

	out.Reset()
	entries := []model.CatalogEntry{
		{ID: "0123456789abcdef", ServiceName: "Private car", Category: "transportation", RouteName: "Cairo airport", CostBasis: model.CostPerGroup, UnitPrice: decimal.RequireFromString("80.5"), Currency: "EUR", Active: true},
	}
	require.NoError(t, RenderCatalog(&out, entries))
	s := out.String()
	assert.Contains(t, s, "1 catalog entries")
	assert.Contains(t, s, "01234567")
	assert.NotContains(t, s, "0123456789abcdef")
	assert.Contains(t, s, "Cairo airport")
	assert.Contains(t, s, "80.50 EUR")
}

func TestRenderQuotationList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderQuotationList(&out, nil))
	assert.Contains(t, out.String(), "No saved quotations")

	out.Reset()
	summaries := []service.QuotationSummary{{
		ID: "q1", Title: "Egypt classic", Currency: "EUR", SellPerGroup: "134.4",
		NumPeople: 2, ServiceCount: 2, MissingPrices: 1,
		CreatedAt: time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
	}}
	require.NoError(t, RenderQuotationList(&out, summaries))
	assert.Contains(t, out.String(), "2025-04-02 09:30")
	assert.Contains(t, out.String(), "134.40 EUR")
}

func TestRenderImportResult(t *testing.T) {
	var out bytes.Buffer
	result := &catalog.Result{
		Entries: make([]model.CatalogEntry, 3),
		Errors:  []catalog.RowError{{Line: 4, Err: errors.New("bad price")}},
	}
	require.NoError(t, RenderImportResult(&out, "prices.csv", result))
	assert.Contains(t, out.String(), "Imported 3 entries from prices.csv")
	assert.Contains(t, out.String(), "Skipped 1 rows")
	assert.Contains(t, out.String(), "line 4: bad price")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "150 EUR", formatMoney(decimal.NewFromInt(150), "EUR"))
	assert.Equal(t, "12.50 USD", formatMoney(decimal.RequireFromString("12.5"), "USD"))
	assert.Equal(t, "7", formatMoney(decimal.NewFromInt(7), ""))
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, 2, "Importing")
	p.Add(1)
	p.Add(1)
	p.Finish()
	assert.Contains(t, out.String(), "Importing")
}
