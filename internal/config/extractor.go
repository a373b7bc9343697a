package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/extract"
)

// DefaultProvider is used when llm.provider is unset.
const DefaultProvider = "anthropic"

// LoadExtractorConfig reads the llm.* settings. API keys fall back to the
// provider's conventional environment variable.
func LoadExtractorConfig() (extract.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		provider = DefaultProvider
	}

	config := extract.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		Timeout:     viper.GetDuration("llm.timeout"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = time.Hour
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60
	}

	switch provider {
	case "openai":
		config.APIKey = firstNonEmpty(viper.GetString("llm.openai_api_key"), os.Getenv("OPENAI_API_KEY"))
		if config.APIKey == "" {
			return config, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable: %w", common.ErrMissingConfig)
		}
	case "anthropic":
		config.APIKey = firstNonEmpty(viper.GetString("llm.anthropic_api_key"), os.Getenv("ANTHROPIC_API_KEY"))
		if config.APIKey == "" {
			return config, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable: %w", common.ErrMissingConfig)
		}
	default:
		return config, fmt.Errorf("unsupported LLM provider %q: %w", provider, common.ErrInvalidConfig)
	}

	return config, nil
}

// DatabasePath returns the expanded database.path setting.
func DatabasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tourquote/tourquote.db"
	}
	return ExpandPath(dbPath)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
