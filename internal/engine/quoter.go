// Package engine orchestrates extraction, matching and aggregation into quotations.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/tourquote/internal/extract"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/pricing"
	"github.com/Veraticus/tourquote/internal/quote"
	"github.com/Veraticus/tourquote/internal/service"
)

// DefaultBatchConcurrency bounds the number of itineraries analyzed at once.
const DefaultBatchConcurrency = 5

// AnalyzeRequest describes one itinerary to quote.
type AnalyzeRequest struct {
	Filter    service.CatalogFilter
	Title     string
	Itinerary string
	Config    model.PricingConfig
	Days      int
	NumPeople int
	Save      bool
}

// BatchResult pairs a batch request with its outcome.
type BatchResult struct {
	Quotation *model.Quotation
	Err       error
	Index     int
}

// Quoter runs the extract, match and aggregate pipeline.
type Quoter struct {
	extractor   extract.Extractor
	catalog     service.CatalogProvider
	store       service.QuotationStore
	now         func() time.Time
	newID       func() string
	concurrency int
}

// Option customizes a Quoter.
type Option func(*Quoter)

// WithStore persists quotations for requests that ask to be saved.
func WithStore(store service.QuotationStore) Option {
	return func(q *Quoter) { q.store = store }
}

// WithConcurrency sets how many batch requests run in parallel.
func WithConcurrency(n int) Option {
	return func(q *Quoter) {
		if n > 0 {
			q.concurrency = n
		}
	}
}

// NewQuoter creates a Quoter.
func NewQuoter(extractor extract.Extractor, catalog service.CatalogProvider, opts ...Option) *Quoter {
	q := &Quoter{
		extractor:   extractor,
		catalog:     catalog,
		now:         time.Now,
		newID:       uuid.NewString,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Analyze quotes a single itinerary. The extractor is called once and the
// catalog is read once; the matcher and aggregator see the same snapshot.
func (q *Quoter) Analyze(ctx context.Context, req AnalyzeRequest) (*model.Quotation, error) {
	if req.NumPeople < 1 {
		return nil, fmt.Errorf("%w: got %d", quote.ErrInvalidPeople, req.NumPeople)
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	start := q.now()

	services, err := q.extractor.Extract(ctx, extract.Request{
		Itinerary: req.Itinerary,
		Days:      req.Days,
		Travelers: req.NumPeople,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract services: %w", err)
	}

	catalog, err := q.catalog.GetCatalog(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	matches, err := pricing.MatchServices(services, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to match services: %w", err)
	}

	totals, err := quote.ComputeTotals(matches, req.NumPeople, req.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	result := &model.Quotation{
		ID:        q.newID(),
		Title:     titleFor(req),
		CreatedAt: q.now().UTC(),
		NumPeople: req.NumPeople,
		Services:  services,
		Matches:   matches,
		Config:    req.Config,
		Totals:    totals,
	}

	summary := pricing.Summarize(matches)
	slog.Info("quotation analyzed",
		"id", result.ID,
		"services", summary.Total,
		"matched", summary.Matched,
		"missing", summary.Unmatched,
		"catalog_size", len(catalog),
		"duration", q.now().Sub(start))

	if req.Save && q.store != nil {
		if err := q.store.SaveQuotation(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to save quotation: %w", err)
		}
	}

	return result, nil
}

// AnalyzeBatch quotes independent itineraries in parallel. Results are
// returned in request order; one request failing leaves the others intact.
func (q *Quoter) AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.concurrency)

	for i := range reqs {
		i := i
		g.Go(func() error {
			quotation, err := q.Analyze(gctx, reqs[i])
			results[i] = BatchResult{Index: i, Quotation: quotation, Err: err}
			if err != nil {
				slog.Warn("batch item failed", "index", i, "title", reqs[i].Title, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func titleFor(req AnalyzeRequest) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	first := strings.TrimSpace(req.Itinerary)
	if nl := strings.IndexByte(first, '\n'); nl >= 0 {
		first = strings.TrimSpace(first[:nl])
	}
	if r := []rune(first); len(r) > 60 {
		first = string(r[:60])
	}
	return first
}
