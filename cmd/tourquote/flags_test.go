package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tourquote/internal/model"
)

func parsePricingFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addPricingFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestPricingConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := pricingConfig(parsePricingFlags(t))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricingConfig(), cfg)
}

func TestPricingConfigFlagsOverrideConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("pricing.tax_rate", 0.14)
	viper.Set("pricing.markup_rate", 0.25)

	cfg, err := pricingConfig(parsePricingFlags(t,
		"--tax-rate", "0",
		"--rounding", "5",
		"--accommodation-mode", "PER_ROOM",
		"--occupancy", "2",
		"--single-supplement", "35",
		"--group-costs", "split",
		"--profile", "tickets",
		"--currency", "usd",
		"--exchange-rate", "1.08",
	))
	require.NoError(t, err)
	assert.Zero(t, cfg.TaxRate)
	assert.InDelta(t, 0.25, cfg.MarkupRate, 1e-9)
	assert.Equal(t, 5, cfg.RoundingIncrement)
	assert.Equal(t, model.AccommodationPerRoom, cfg.AccommodationMode)
	assert.Equal(t, "35", cfg.SingleSupplement.Decimal.String())
	assert.Equal(t, model.GroupCostsSplit, cfg.GroupCostMode)
	assert.Equal(t, model.ProfileTickets, cfg.Profile)
	assert.Equal(t, "USD", cfg.Currency)
	assert.InDelta(t, 1.08, cfg.ExchangeRate, 1e-9)
}

func TestPricingConfigRejectsInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "tax above one", args: []string{"--tax-rate", "1.2"}},
		{name: "zero rounding", args: []string{"--rounding", "0"}},
		{name: "bad supplement", args: []string{"--single-supplement", "forty"}},
		{name: "bad profile", args: []string{"--profile", "luxury"}},
		{name: "bad mode", args: []string{"--accommodation-mode", "per_tent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			_, err := pricingConfig(parsePricingFlags(t, tt.args...))
			assert.ErrorIs(t, err, model.ErrInvalidPricingConfig)
		})
	}
}

func TestParseProfile(t *testing.T) {
	tests := map[string]model.Profile{
		"":               model.ProfileAll,
		"all":            model.ProfileAll,
		"Base":           model.ProfileBase,
		"+Tickets":       model.ProfileTickets,
		"tickets-lunch":  model.ProfileTicketsLunch,
		"+Tickets+Lunch": model.ProfileTicketsLunch,
	}
	for in, want := range tests {
		got, err := parseProfile(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
