package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidService is returned when a detected service fails validation.
var ErrInvalidService = errors.New("invalid detected service")

// ServiceCategory classifies the kind of work a detected service represents.
type ServiceCategory string

const (
	CategoryTransportation ServiceCategory = "transportation"
	CategoryGuide          ServiceCategory = "guide"
	CategoryEntranceFee    ServiceCategory = "entrance_fee"
	CategoryAccommodation  ServiceCategory = "accommodation"
	CategoryMeal           ServiceCategory = "meal"
	CategoryOptional       ServiceCategory = "optional"
	CategoryOther          ServiceCategory = "other"
)

// ServiceCategories lists every category in display order.
var ServiceCategories = []ServiceCategory{
	CategoryTransportation,
	CategoryGuide,
	CategoryEntranceFee,
	CategoryAccommodation,
	CategoryMeal,
	CategoryOptional,
	CategoryOther,
}

// IsValid reports whether c is part of the fixed enumeration.
func (c ServiceCategory) IsValid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a human readable name for the category.
func (c ServiceCategory) Label() string {
	switch c {
	case CategoryGuide:
		return "Guide/Personnel"
	case CategoryEntranceFee:
		return "Entrance Fee"
	case CategoryOptional:
		return "Optional/Extra"
	case "":
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseServiceCategory maps the names used by extractors and spreadsheets onto the enumeration.
func ParseServiceCategory(s string) (ServiceCategory, error) {
	switch normalizeKey(s) {
	case "transportation", "transport", "transfer", "transfers":
		return CategoryTransportation, nil
	case "guide", "guide_personnel", "personnel", "guides", "staff":
		return CategoryGuide, nil
	case "entrance_fee", "entrance_fees", "entrance", "ticket", "tickets", "fees":
		return CategoryEntranceFee, nil
	case "accommodation", "hotel", "lodging":
		return CategoryAccommodation, nil
	case "meal", "meals", "food":
		return CategoryMeal, nil
	case "optional", "optional_extra", "extra", "extras":
		return CategoryOptional, nil
	case "other", "misc":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unrecognized service category %q", s)
}

// DetectedService is one line of work implied by an itinerary for a specific day.
type DetectedService struct {
	Description string          `json:"description"`
	Category    ServiceCategory `json:"category"`
	CostBasis   CostBasis       `json:"cost_basis"`
	Location    string          `json:"location,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Day         int             `json:"day"`
	Quantity    int             `json:"quantity"`
}

// Normalize applies defaults: a zero quantity means one unit.
func (s *DetectedService) Normalize() {
	if s.Quantity == 0 {
		s.Quantity = 1
	}
	s.Description = strings.TrimSpace(s.Description)
	s.Location = strings.TrimSpace(s.Location)
}

// Validate rejects services the matcher cannot price.
func (s *DetectedService) Validate() error {
	if s.Day < 1 {
		return fmt.Errorf("%w: day %d must be at least 1", ErrInvalidService, s.Day)
	}
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: day %d: missing description", ErrInvalidService, s.Day)
	}
	if s.Quantity < 0 {
		return fmt.Errorf("%w: %q: quantity %d is negative", ErrInvalidService, s.Description, s.Quantity)
	}
	if !s.Category.IsValid() {
		return fmt.Errorf("%w: %q: unrecognized category %q", ErrInvalidService, s.Description, s.Category)
	}
	if !s.CostBasis.IsValid() {
		return fmt.Errorf("%w: %q: unrecognized cost basis %q", ErrInvalidService, s.Description, s.CostBasis)
	}
	return nil
}

// EffectiveQuantity returns the quantity with the default applied.
func (s *DetectedService) EffectiveQuantity() int {
	if s.Quantity == 0 {
		return 1
	}
	return s.Quantity
}
