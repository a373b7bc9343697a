package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TOURQUOTE_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/quotes/db.sqlite", want: filepath.Join(home, "quotes/db.sqlite")},
		{name: "env var", in: "$TOURQUOTE_TEST_DIR/db.sqlite", want: "/srv/data/db.sqlite"},
		{name: "plain", in: "/tmp/db.sqlite", want: "/tmp/db.sqlite"},
		{name: "tilde mid path", in: "/tmp/~user", want: "/tmp/~user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadPricingConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadPricingConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricingConfig(), cfg)
}

func TestLoadPricingConfigOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("pricing.currency", "usd")
	viper.Set("pricing.tax_rate", 0.0)
	viper.Set("pricing.markup_rate", 0.3)
	viper.Set("pricing.rounding_increment", 10)
	viper.Set("pricing.accommodation_mode", "per_room")
	viper.Set("pricing.occupancy", 3)
	viper.Set("pricing.single_supplement", "45.50")
	viper.Set("pricing.group_cost_mode", "split")

	cfg, err := LoadPricingConfig()
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Zero(t, cfg.TaxRate)
	assert.InDelta(t, 0.3, cfg.MarkupRate, 1e-9)
	assert.Equal(t, 10, cfg.RoundingIncrement)
	assert.Equal(t, model.AccommodationPerRoom, cfg.AccommodationMode)
	assert.Equal(t, 3, cfg.Occupancy)
	assert.True(t, cfg.SingleSupplement.Valid)
	assert.Equal(t, "45.5", cfg.SingleSupplement.Decimal.String())
	assert.Equal(t, model.GroupCostsSplit, cfg.GroupCostMode)
}

func TestLoadPricingConfigInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: "pricing.tax_rate", value: 1.5},
		{key: "pricing.rounding_increment", value: 0},
		{key: "pricing.currency", value: "XYZ1"},
		{key: "pricing.single_supplement", value: "lots"},
		{key: "pricing.profile", value: "deluxe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)

			_, err := LoadPricingConfig()
			assert.ErrorIs(t, err, model.ErrInvalidPricingConfig)
		})
	}
}

func TestLoadExtractorConfig(t *testing.T) {
	t.Run("defaults to anthropic with env key", func(t *testing.T) {
		resetViper(t)
		t.Setenv("ANTHROPIC_API_KEY", "env-key")

		cfg, err := LoadExtractorConfig()
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryDelay)
		assert.Equal(t, time.Hour, cfg.CacheTTL)
		assert.Equal(t, 60, cfg.RateLimit)
	})

	t.Run("config key wins over env", func(t *testing.T) {
		resetViper(t)
		t.Setenv("OPENAI_API_KEY", "env-key")
		viper.Set("llm.provider", "OpenAI")
		viper.Set("llm.openai_api_key", "config-key")
		viper.Set("llm.model", "gpt-4o-mini")
		viper.Set("llm.max_retries", 5)

		cfg, err := LoadExtractorConfig()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "config-key", cfg.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 5, cfg.MaxRetries)
	})

	t.Run("missing key", func(t *testing.T) {
		resetViper(t)
		t.Setenv("OPENAI_API_KEY", "")
		viper.Set("llm.provider", "openai")

		_, err := LoadExtractorConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		resetViper(t)
		viper.Set("llm.provider", "ollama")

		_, err := LoadExtractorConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(key, "")
	}

	t.Run("no auth", func(t *testing.T) {
		resetViper(t)
		_, err := LoadSheetsConfig()
		assert.ErrorContains(t, err, "no authentication method")
	})

	t.Run("oauth from viper with token file", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.client_id", "id")
		viper.Set("sheets.client_secret", "secret")
		viper.Set("sheets.token_file", "/tmp/token.json")
		viper.Set("sheets.spreadsheet_name", "Quotes")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "id", cfg.ClientID)
		assert.Equal(t, "/tmp/token.json", cfg.TokenFile)
		assert.Equal(t, "Quotes", cfg.SpreadsheetName)
	})

	t.Run("service account from env", func(t *testing.T) {
		resetViper(t)
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/etc/sa.json")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-1")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/etc/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "sheet-1", cfg.SpreadsheetID)
		assert.Empty(t, cfg.TokenFile)
	})
}

func TestDatabasePath(t *testing.T) {
	resetViper(t)
	viper.Set("database.path", "/var/lib/tourquote.db")
	assert.Equal(t, "/var/lib/tourquote.db", DatabasePath())
}
