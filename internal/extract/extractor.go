// Package extract turns free-form itinerary text into detected services.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/tourquote/internal/model"
)

// Request is a single itinerary to analyze.
type Request struct {
	Itinerary string
	Days      int
	Travelers int
}

// Validate checks the request before any provider is called.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Itinerary) == "" {
		return fmt.Errorf("itinerary text is empty")
	}
	if r.Days < 0 {
		return fmt.Errorf("days must not be negative")
	}
	if r.Travelers < 0 {
		return fmt.Errorf("travelers must not be negative")
	}
	return nil
}

// Extractor detects the services an itinerary implies.
type Extractor interface {
	Extract(ctx context.Context, req Request) ([]model.DetectedService, error)
}

// Config holds provider settings for the LLM extractor.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// inRange drops services whose day falls outside the itinerary.
func inRange(services []model.DetectedService, days int) []model.DetectedService {
	if days <= 0 {
		return services
	}
	kept := services[:0]
	for _, s := range services {
		if s.Day <= days {
			kept = append(kept, s)
		}
	}
	return kept
}
