package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/Veraticus/tourquote/internal/config"
	"github.com/Veraticus/tourquote/internal/model"
)

// addPricingFlags registers the per-request pricing overrides.
func addPricingFlags(flags *pflag.FlagSet) {
	flags.String("currency", "", "quotation currency (ISO 4217)")
	flags.Float64("exchange-rate", 1, "rate from catalog currency to quotation currency")
	flags.Float64("tax-rate", 0, "tax rate in [0, 1]")
	flags.Float64("markup-rate", 0, "markup rate in [0, 1]")
	flags.Int("rounding", 0, "round displayed figures to this increment")
	flags.String("accommodation-mode", "", "accommodation pricing (per_person, per_room)")
	flags.Int("occupancy", 0, "travelers per room in per_room mode")
	flags.String("single-supplement", "", "supplement per night for an odd traveler in per_room mode")
	flags.String("group-costs", "", "shared cost handling (group_level, split)")
	flags.String("profile", "", "services to include (all, base, tickets, tickets-lunch)")
}

// pricingConfig overlays explicitly set flags onto the configured pricing policy.
func pricingConfig(flags *pflag.FlagSet) (model.PricingConfig, error) {
	cfg, err := config.LoadPricingConfig()
	if err != nil {
		return cfg, err
	}

	if flags.Changed("currency") {
		v, _ := flags.GetString("currency")
		cfg.Currency = strings.ToUpper(v)
	}
	if flags.Changed("exchange-rate") {
		cfg.ExchangeRate, _ = flags.GetFloat64("exchange-rate")
	}
	if flags.Changed("tax-rate") {
		cfg.TaxRate, _ = flags.GetFloat64("tax-rate")
	}
	if flags.Changed("markup-rate") {
		cfg.MarkupRate, _ = flags.GetFloat64("markup-rate")
	}
	if flags.Changed("rounding") {
		cfg.RoundingIncrement, _ = flags.GetInt("rounding")
	}
	if flags.Changed("accommodation-mode") {
		v, _ := flags.GetString("accommodation-mode")
		cfg.AccommodationMode = model.AccommodationMode(strings.ToLower(v))
	}
	if flags.Changed("occupancy") {
		cfg.Occupancy, _ = flags.GetInt("occupancy")
	}
	if flags.Changed("single-supplement") {
		v, _ := flags.GetString("single-supplement")
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: single supplement %q is not a number", model.ErrInvalidPricingConfig, v)
		}
		cfg.SingleSupplement = decimal.NewNullDecimal(amount)
	}
	if flags.Changed("group-costs") {
		v, _ := flags.GetString("group-costs")
		cfg.GroupCostMode = model.GroupCostMode(strings.ToLower(v))
	}
	if flags.Changed("profile") {
		v, _ := flags.GetString("profile")
		profile, err := parseProfile(v)
		if err != nil {
			return cfg, err
		}
		cfg.Profile = profile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseProfile(s string) (model.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return model.ProfileAll, nil
	case "base":
		return model.ProfileBase, nil
	case "tickets", "+tickets":
		return model.ProfileTickets, nil
	case "tickets-lunch", "tickets+lunch", "+tickets+lunch":
		return model.ProfileTicketsLunch, nil
	}
	return "", fmt.Errorf("%w: unknown profile %q (valid options: all, base, tickets, tickets-lunch)", model.ErrInvalidPricingConfig, s)
}
