package extract

import (
	"context"
	"fmt"
	"strings"
)

// Client sends a single prompt to an LLM provider and returns its text reply.
type Client interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// NewClient creates a provider client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
