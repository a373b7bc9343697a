package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/tourquote/internal/model"
)

// LoadPricingConfig overlays the pricing.* settings onto the default policy
// and validates the result.
func LoadPricingConfig() (model.PricingConfig, error) {
	cfg := model.DefaultPricingConfig()

	if v := viper.GetString("pricing.currency"); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	if viper.IsSet("pricing.exchange_rate") {
		cfg.ExchangeRate = viper.GetFloat64("pricing.exchange_rate")
	}
	if viper.IsSet("pricing.tax_rate") {
		cfg.TaxRate = viper.GetFloat64("pricing.tax_rate")
	}
	if viper.IsSet("pricing.markup_rate") {
		cfg.MarkupRate = viper.GetFloat64("pricing.markup_rate")
	}
	if viper.IsSet("pricing.rounding_increment") {
		cfg.RoundingIncrement = viper.GetInt("pricing.rounding_increment")
	}
	if v := viper.GetString("pricing.accommodation_mode"); v != "" {
		cfg.AccommodationMode = model.AccommodationMode(v)
	}
	if viper.IsSet("pricing.occupancy") {
		cfg.Occupancy = viper.GetInt("pricing.occupancy")
	}
	if v := viper.GetString("pricing.profile"); v != "" {
		cfg.Profile = model.Profile(v)
	}
	if v := viper.GetString("pricing.group_cost_mode"); v != "" {
		cfg.GroupCostMode = model.GroupCostMode(v)
	}
	if v := viper.GetString("pricing.single_supplement"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: single supplement %q is not a number", model.ErrInvalidPricingConfig, v)
		}
		cfg.SingleSupplement = decimal.NewNullDecimal(amount)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
