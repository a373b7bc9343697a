package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrInvalidCatalogEntry is returned when a catalog entry fails validation.
var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

// CostBasis describes how a price is applied to a group of travelers.
type CostBasis string

const (
	// CostPerPerson is charged once for every traveler.
	CostPerPerson CostBasis = "per_person"
	// CostPerGroup is charged once for the whole party.
	CostPerGroup CostBasis = "per_group"
	// CostPerNight is charged per night; the quantity carries the night count.
	CostPerNight CostBasis = "per_night"
	// CostPerDay is charged per day; the quantity carries the day count.
	CostPerDay CostBasis = "per_day"
	// CostFlatRate is a single fixed charge.
	CostFlatRate CostBasis = "flat_rate"
)

// CostBases lists every recognized cost basis in display order.
var CostBases = []CostBasis{CostPerPerson, CostPerGroup, CostPerNight, CostPerDay, CostFlatRate}

// IsValid reports whether c is one of the recognized cost bases.
func (c CostBasis) IsValid() bool {
	switch c {
	case CostPerPerson, CostPerGroup, CostPerNight, CostPerDay, CostFlatRate:
		return true
	}
	return false
}

// IsShared reports whether the cost is carried by the party rather than each traveler.
func (c CostBasis) IsShared() bool {
	return c.IsValid() && c != CostPerPerson
}

// ParseCostBasis converts loosely formatted input ("Per Person", "per-group", "flat")
// into a CostBasis.
func ParseCostBasis(s string) (CostBasis, error) {
	key := normalizeKey(s)
	switch key {
	case "per_person", "person", "pp", "per_pax", "pax":
		return CostPerPerson, nil
	case "per_group", "group", "per_vehicle", "vehicle":
		return CostPerGroup, nil
	case "per_night", "night", "nightly":
		return CostPerNight, nil
	case "per_day", "day", "daily":
		return CostPerDay, nil
	case "flat_rate", "flat", "fixed", "flatrate":
		return CostFlatRate, nil
	}
	return "", fmt.Errorf("unrecognized cost basis %q", s)
}

// CatalogEntry is a priced, reusable line item.
type CatalogEntry struct {
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ID          string          `json:"id"`
	ServiceName string          `json:"service_name"`
	Category    string          `json:"category,omitempty"`
	RouteName   string          `json:"route_name,omitempty"`
	Location    string          `json:"location,omitempty"`
	CostBasis   CostBasis       `json:"cost_basis"`
	Currency    string          `json:"currency"`
	VehicleType string          `json:"vehicle_type,omitempty"`
	Capacity    string          `json:"capacity,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Active      bool            `json:"active"`
}

// Validate checks the invariants every stored entry must hold.
func (e *CatalogEntry) Validate() error {
	if strings.TrimSpace(e.ServiceName) == "" {
		return fmt.Errorf("%w: missing service name", ErrInvalidCatalogEntry)
	}
	if !e.CostBasis.IsValid() {
		return fmt.Errorf("%w: unrecognized cost basis %q", ErrInvalidCatalogEntry, e.CostBasis)
	}
	if e.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price %s is negative", ErrInvalidCatalogEntry, e.UnitPrice)
	}
	if err := ValidateCurrency(e.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalogEntry, err)
	}
	return nil
}

// LocationText returns the entry's location, falling back to the route name.
func (e *CatalogEntry) LocationText() string {
	if strings.TrimSpace(e.Location) != "" {
		return e.Location
	}
	return e.RouteName
}

// ValidateCurrency ensures code is a recognized ISO 4217 three-letter code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("currency %q is not a 3-letter code", code)
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("currency %q is not recognized", code)
	}
	return nil
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
