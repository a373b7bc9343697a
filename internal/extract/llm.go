package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/service"
)

// LLMExtractor detects services by asking a language model.
type LLMExtractor struct {
	client    Client
	cache     *responseCache
	limiter   *rate.Limiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewLLMExtractor creates an extractor backed by the configured provider.
func NewLLMExtractor(cfg Config, logger *slog.Logger) (*LLMExtractor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewLLMExtractorWithClient(client, cfg, logger), nil
}

// NewLLMExtractorWithClient wires an extractor around an existing client.
func NewLLMExtractorWithClient(client Client, cfg Config, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 60
	}

	return &LLMExtractor{
		client:    client,
		cache:     newResponseCache(cfg.CacheTTL),
		limiter:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Extract returns the services implied by the itinerary. A reply with no
// usable services yields common.ErrNoServicesDetected; provider failures are
// wrapped in common.ErrExtractorUnavailable.
func (e *LLMExtractor) Extract(ctx context.Context, req Request) ([]model.DetectedService, error) {
	if err := req.Validate(); err != nil {
		return nil, common.NewUserError("invalid extraction request", err)
	}

	key := cacheKey(req)
	if services, ok := e.cache.get(key); ok {
		e.logger.Debug("extraction cache hit", "key", key[:12])
		return services, nil
	}

	prompt := buildPrompt(req)

	var services []model.DetectedService
	err := common.WithRetry(ctx, func() error {
		if err := e.limiter.Wait(ctx); err != nil {
			return &common.RetryableError{Err: fmt.Errorf("rate limiter canceled: %w", err), Retryable: false}
		}

		content, err := e.client.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			return err
		}

		parsed, err := parseServices(content)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		services = inRange(parsed, req.Days)
		if len(services) == 0 {
			return &common.RetryableError{Err: common.ErrNoServicesDetected, Retryable: false}
		}
		return nil
	}, e.retryOpts)
	if err != nil {
		if errors.Is(err, common.ErrNoServicesDetected) {
			return nil, common.ErrNoServicesDetected
		}
		return nil, fmt.Errorf("%w: %w", common.ErrExtractorUnavailable, err)
	}

	e.cache.set(key, services)
	e.logger.Info("extracted services", "count", len(services), "days", req.Days)

	return services, nil
}

// Close releases background resources.
func (e *LLMExtractor) Close() {
	e.cache.Close()
}
