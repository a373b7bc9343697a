package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/extract"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/quote"
	"github.com/Veraticus/tourquote/internal/service"
)

type stubExtractor struct {
	err      error
	services []model.DetectedService
	calls    atomic.Int32
}

func (s *stubExtractor) Extract(_ context.Context, req extract.Request) ([]model.DetectedService, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if strings.Contains(req.Itinerary, "fail") {
		return nil, common.ErrNoServicesDetected
	}
	return append([]model.DetectedService(nil), s.services...), nil
}

type stubCatalog struct {
	err     error
	filter  service.CatalogFilter
	entries []model.CatalogEntry
	calls   atomic.Int32
	mu      sync.Mutex
}

func (s *stubCatalog) GetCatalog(_ context.Context, filter service.CatalogFilter) ([]model.CatalogEntry, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return s.entries, s.err
}

type memoryStore struct {
	err   error
	saved []*model.Quotation
	mu    sync.Mutex
}

func (m *memoryStore) SaveQuotation(_ context.Context, q *model.Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, q)
	return nil
}

func cairoCatalog() []model.CatalogEntry {
	return []model.CatalogEntry{
		{
			ID: "car", ServiceName: "Private car transfer", Category: "transportation", Location: "Cairo",
			CostBasis: model.CostPerGroup, UnitPrice: decimal.NewFromInt(100), Currency: "EUR", Active: true,
		},
	}
}

func cairoServices() []model.DetectedService {
	return []model.DetectedService{
		{Day: 1, Description: "Private car transfer", Category: model.CategoryTransportation, CostBasis: model.CostPerGroup, Location: "Cairo"},
		{Day: 2, Description: "Felucca ride", Category: model.CategoryOptional, CostBasis: model.CostPerPerson, Location: "Aswan"},
	}
}

func newTestQuoter(ex extract.Extractor, cat service.CatalogProvider, opts ...Option) *Quoter {
	q := NewQuoter(ex, cat, opts...)
	q.newID = func() string { return "quote-1" }
	q.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return q
}

func TestQuoter_Analyze(t *testing.T) {
	ex := &stubExtractor{services: cairoServices()}
	cat := &stubCatalog{entries: cairoCatalog()}
	store := &memoryStore{}
	q := newTestQuoter(ex, cat, WithStore(store))

	cfg := model.DefaultPricingConfig()
	result, err := q.Analyze(context.Background(), AnalyzeRequest{
		Itinerary: "Day 1: Cairo arrival\nDay 2: Aswan",
		Days:      2,
		NumPeople: 2,
		Config:    cfg,
		Filter:    service.CatalogFilter{Location: "Cairo"},
		Save:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "quote-1", result.ID)
	assert.Equal(t, "Day 1: Cairo arrival", result.Title)
	assert.Equal(t, 2, result.NumPeople)
	require.Len(t, result.Matches, 2)
	assert.True(t, result.Matches[0].Matched)
	assert.False(t, result.Matches[1].Matched)
	assert.NotEmpty(t, result.Matches[1].Hint)
	assert.True(t, decimal.RequireFromString("134.4").Equal(result.Totals.SellPerGroup), result.Totals.SellPerGroup.String())

	assert.Equal(t, int32(1), ex.calls.Load())
	assert.Equal(t, int32(1), cat.calls.Load())
	assert.Equal(t, "Cairo", cat.filter.Location)

	require.Len(t, store.saved, 1)
	assert.Same(t, result, store.saved[0])
}

func TestQuoter_AnalyzeWithoutSave(t *testing.T) {
	store := &memoryStore{}
	q := newTestQuoter(&stubExtractor{services: cairoServices()}, &stubCatalog{entries: cairoCatalog()}, WithStore(store))

	_, err := q.Analyze(context.Background(), AnalyzeRequest{
		Title: "Cairo", Itinerary: "x", NumPeople: 1, Config: model.DefaultPricingConfig(),
	})
	require.NoError(t, err)
	assert.Empty(t, store.saved)
}

func TestQuoter_AnalyzeErrors(t *testing.T) {
	badConfig := model.DefaultPricingConfig()
	badConfig.TaxRate = 2

	tests := []struct {
		extractor     *stubExtractor
		catalog       *stubCatalog
		store         *memoryStore
		wantErr       error
		name          string
		config        model.PricingConfig
		people        int
		wantExtractor int32
	}{
		{
			name:      "no people",
			extractor: &stubExtractor{}, catalog: &stubCatalog{},
			config: model.DefaultPricingConfig(), people: 0,
			wantErr: quote.ErrInvalidPeople,
		},
		{
			name:      "invalid config fails before extraction",
			extractor: &stubExtractor{}, catalog: &stubCatalog{},
			config: badConfig, people: 2,
			wantErr: model.ErrInvalidPricingConfig,
		},
		{
			name:      "extractor unavailable",
			extractor: &stubExtractor{err: common.ErrExtractorUnavailable}, catalog: &stubCatalog{},
			config: model.DefaultPricingConfig(), people: 2,
			wantErr: common.ErrExtractorUnavailable, wantExtractor: 1,
		},
		{
			name:      "catalog failure",
			extractor: &stubExtractor{services: cairoServices()}, catalog: &stubCatalog{err: errors.New("disk gone")},
			config: model.DefaultPricingConfig(), people: 2,
			wantExtractor: 1,
		},
		{
			name:      "invalid extracted service",
			extractor: &stubExtractor{services: []model.DetectedService{{Day: 0, Description: "x", Category: model.CategoryMeal, CostBasis: model.CostPerPerson}}},
			catalog:   &stubCatalog{},
			config:    model.DefaultPricingConfig(), people: 2,
			wantErr: model.ErrInvalidService, wantExtractor: 1,
		},
		{
			name:      "store failure",
			extractor: &stubExtractor{services: cairoServices()}, catalog: &stubCatalog{entries: cairoCatalog()},
			store:  &memoryStore{err: errors.New("readonly")},
			config: model.DefaultPricingConfig(), people: 2,
			wantExtractor: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.store != nil {
				opts = append(opts, WithStore(tt.store))
			}
			q := newTestQuoter(tt.extractor, tt.catalog, opts...)

			result, err := q.Analyze(context.Background(), AnalyzeRequest{
				Itinerary: "Day 1", NumPeople: tt.people, Config: tt.config, Save: true,
			})
			require.Error(t, err)
			assert.Nil(t, result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantExtractor, tt.extractor.calls.Load())
		})
	}
}

func TestQuoter_AnalyzeBatch(t *testing.T) {
	ex := &stubExtractor{services: cairoServices()}
	q := newTestQuoter(ex, &stubCatalog{entries: cairoCatalog()}, WithConcurrency(2))

	reqs := make([]AnalyzeRequest, 6)
	for i := range reqs {
		reqs[i] = AnalyzeRequest{
			Title:     fmt.Sprintf("trip %d", i),
			Itinerary: "Day 1: Cairo",
			NumPeople: i + 1,
			Config:    model.DefaultPricingConfig(),
		}
	}
	reqs[3].Itinerary = "this one should fail"

	results := q.AnalyzeBatch(context.Background(), reqs)
	require.Len(t, results, len(reqs))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if i == 3 {
			assert.ErrorIs(t, r.Err, common.ErrNoServicesDetected)
			assert.Nil(t, r.Quotation)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("trip %d", i), r.Quotation.Title)
		assert.Equal(t, i+1, r.Quotation.NumPeople)
	}
	assert.Equal(t, int32(len(reqs)), ex.calls.Load())
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Given", titleFor(AnalyzeRequest{Title: " Given ", Itinerary: "x"}))
	assert.Equal(t, "Day 1: Cairo", titleFor(AnalyzeRequest{Itinerary: "\n Day 1: Cairo \nDay 2"}))
	assert.Len(t, []rune(titleFor(AnalyzeRequest{Itinerary: strings.Repeat("é", 80)})), 60)
}
