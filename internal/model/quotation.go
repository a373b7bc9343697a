package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPricingConfig is returned when a pricing configuration is out of range.
var ErrInvalidPricingConfig = errors.New("invalid pricing config")

// MatchResult is the matcher's verdict for one detected service.
type MatchResult struct {
	Entry      *CatalogEntry   `json:"entry,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency,omitempty"`
	Hint       string          `json:"hint,omitempty"`
	Service    DetectedService `json:"service"`
	Confidence int             `json:"confidence"`
	Matched    bool            `json:"matched"`
}

// AccommodationMode controls how accommodation prices relate to travelers.
type AccommodationMode string

const (
	// AccommodationPerPerson uses accommodation prices as quoted.
	AccommodationPerPerson AccommodationMode = "per_person"
	// AccommodationPerRoom multiplies shared accommodation prices by the rooms needed.
	AccommodationPerRoom AccommodationMode = "per_room"
)

// Profile selects which optional categories a quotation includes.
type Profile string

const (
	// ProfileAll includes every matched service.
	ProfileAll Profile = ""
	// ProfileBase excludes entrance fees and meals.
	ProfileBase Profile = "Base"
	// ProfileTickets adds entrance fees to the base profile.
	ProfileTickets Profile = "+Tickets"
	// ProfileTicketsLunch adds entrance fees and meals to the base profile.
	ProfileTicketsLunch Profile = "+Tickets+Lunch"
)

// Includes reports whether services of category c count toward totals under p.
func (p Profile) Includes(c ServiceCategory) bool {
	switch p {
	case ProfileBase:
		return c != CategoryEntranceFee && c != CategoryMeal
	case ProfileTickets:
		return c != CategoryMeal
	}
	return true
}

// GroupCostMode controls whether shared costs appear in the per-person headline.
type GroupCostMode string

const (
	// GroupCostsAtGroupLevel keeps shared costs out of the per-person figure and
	// adds them back, inflated, to the group total.
	GroupCostsAtGroupLevel GroupCostMode = "group_level"
	// GroupCostsSplit divides shared costs across travelers before tax and markup.
	GroupCostsSplit GroupCostMode = "split"
)

// PricingConfig is the per-request tax, markup and presentation policy.
type PricingConfig struct {
	SingleSupplement  decimal.NullDecimal `json:"single_supplement"`
	Currency          string              `json:"currency"`
	AccommodationMode AccommodationMode   `json:"accommodation_mode"`
	Profile           Profile             `json:"profile,omitempty"`
	GroupCostMode     GroupCostMode       `json:"group_cost_mode"`
	ExchangeRate      float64             `json:"exchange_rate"`
	TaxRate           float64             `json:"tax_rate"`
	MarkupRate        float64             `json:"markup_rate"`
	RoundingIncrement int                 `json:"rounding_increment"`
	Occupancy         int                 `json:"occupancy"`
}

// DefaultPricingConfig returns the documented defaults.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Currency:          "EUR",
		ExchangeRate:      1.0,
		TaxRate:           0.12,
		MarkupRate:        0.20,
		RoundingIncrement: 50,
		AccommodationMode: AccommodationPerPerson,
		Occupancy:         2,
		GroupCostMode:     GroupCostsAtGroupLevel,
	}
}

// Validate enforces strict bounds on every option.
func (c *PricingConfig) Validate() error {
	if err := ValidateCurrency(c.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPricingConfig, err)
	}
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("%w: exchange rate must be positive", ErrInvalidPricingConfig)
	}
	if c.TaxRate < 0 || c.TaxRate > 1 {
		return fmt.Errorf("%w: tax rate %v outside [0, 1]", ErrInvalidPricingConfig, c.TaxRate)
	}
	if c.MarkupRate < 0 || c.MarkupRate > 1 {
		return fmt.Errorf("%w: markup rate %v outside [0, 1]", ErrInvalidPricingConfig, c.MarkupRate)
	}
	if c.RoundingIncrement < 1 {
		return fmt.Errorf("%w: rounding increment must be a positive integer", ErrInvalidPricingConfig)
	}
	if c.Occupancy < 1 {
		return fmt.Errorf("%w: occupancy must be at least 1", ErrInvalidPricingConfig)
	}
	switch c.AccommodationMode {
	case AccommodationPerPerson, AccommodationPerRoom:
	default:
		return fmt.Errorf("%w: unknown accommodation mode %q", ErrInvalidPricingConfig, c.AccommodationMode)
	}
	switch c.Profile {
	case ProfileAll, ProfileBase, ProfileTickets, ProfileTicketsLunch:
	default:
		return fmt.Errorf("%w: unknown profile %q", ErrInvalidPricingConfig, c.Profile)
	}
	switch c.GroupCostMode {
	case GroupCostsAtGroupLevel, GroupCostsSplit:
	default:
		return fmt.Errorf("%w: unknown group cost mode %q", ErrInvalidPricingConfig, c.GroupCostMode)
	}
	if c.SingleSupplement.Valid && c.SingleSupplement.Decimal.IsNegative() {
		return fmt.Errorf("%w: single supplement is negative", ErrInvalidPricingConfig)
	}
	return nil
}

// DayTotal is the subtotal for one itinerary day.
type DayTotal struct {
	Net  decimal.Decimal `json:"net"`
	Sell decimal.Decimal `json:"sell"`
	Day  int             `json:"day"`
}

// QuotationTotals holds unrounded totals derived from match results.
type QuotationTotals struct {
	Currency      string          `json:"currency"`
	NetPerPerson  decimal.Decimal `json:"net_per_person"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	MarkupAmount  decimal.Decimal `json:"markup_amount"`
	SellPerPerson decimal.Decimal `json:"sell_per_person"`
	SellPerGroup  decimal.Decimal `json:"sell_per_group"`
	GroupNet      decimal.Decimal `json:"group_net"`
	GroupSell     decimal.Decimal `json:"group_sell"`
	Days          []DayTotal      `json:"days"`
}

// Quotation is the bundle handed to persistence after an analysis.
type Quotation struct {
	CreatedAt time.Time         `json:"created_at"`
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Services  []DetectedService `json:"detected_services"`
	Matches   []MatchResult     `json:"match_results"`
	Config    PricingConfig     `json:"pricing_config"`
	Totals    QuotationTotals   `json:"totals"`
	NumPeople int               `json:"num_people"`
}

// MissingPrices returns the results that could not be bound to a catalog entry.
func (q *Quotation) MissingPrices() []MatchResult {
	var missing []MatchResult
	for _, m := range q.Matches {
		if !m.Matched {
			missing = append(missing, m)
		}
	}
	return missing
}
