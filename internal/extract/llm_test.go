package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tourquote/internal/common"
)

type fakeClient struct {
	err     error
	replies []string
	prompts []string
	calls   int
	mu      sync.Mutex
}

func (f *fakeClient) Complete(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func newTestExtractor(client Client) *LLMExtractor {
	return NewLLMExtractorWithClient(client, Config{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		RateLimit:  6000,
	}, nil)
}

const twoServices = `{"services": [
	{"day": 1, "description": "Airport transfer", "category": "transportation", "cost_basis": "per_group", "location": "Cairo"},
	{"day": 2, "description": "Egyptian Museum ticket", "category": "entrance_fee", "cost_basis": "per_person", "location": "Cairo"},
	{"day": 5, "description": "Beyond the trip", "category": "meal", "cost_basis": "per_person"}
]}`

func TestLLMExtractor_Extract(t *testing.T) {
	client := &fakeClient{replies: []string{twoServices}}
	extractor := newTestExtractor(client)
	defer extractor.Close()

	req := Request{Itinerary: "Day 1: Cairo\nDay 2: Museum", Days: 2, Travelers: 2}
	services, err := extractor.Extract(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Airport transfer", services[0].Description)
	assert.Equal(t, 2, services[1].Day)
	assert.Contains(t, client.prompts[0], "Day 2: Museum")

	t.Run("second call is served from cache", func(t *testing.T) {
		again, err := extractor.Extract(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, services, again)
		assert.Equal(t, 1, client.calls)
		assert.Equal(t, 1, extractor.cache.size())
	})

	t.Run("cached slice is not shared", func(t *testing.T) {
		first, err := extractor.Extract(context.Background(), req)
		require.NoError(t, err)
		first[0].Description = "mutated"

		second, err := extractor.Extract(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Airport transfer", second[0].Description)
	})
}

func TestLLMExtractor_RetriesTransientFailures(t *testing.T) {
	flaky := &flakyClient{failures: 2, reply: twoServices}
	extractor := newTestExtractor(flaky)
	defer extractor.Close()

	services, err := extractor.Extract(context.Background(), Request{Itinerary: "Cairo trip"})
	require.NoError(t, err)
	assert.Len(t, services, 3)
	assert.Equal(t, 3, flaky.calls)
}

type flakyClient struct {
	reply    string
	failures int
	calls    int
}

func (f *flakyClient) Complete(context.Context, string, string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", &common.RetryableError{Err: fmt.Errorf("status 503"), Retryable: true}
	}
	return f.reply, nil
}

func TestLLMExtractor_Errors(t *testing.T) {
	tests := []struct {
		client    *fakeClient
		wantErr   error
		name      string
		wantCalls int
	}{
		{
			name:      "no services",
			client:    &fakeClient{replies: []string{`{"services": []}`}},
			wantErr:   common.ErrNoServicesDetected,
			wantCalls: 1,
		},
		{
			name:      "malformed reply is not retried",
			client:    &fakeClient{replies: []string{"sorry"}},
			wantErr:   common.ErrExtractorUnavailable,
			wantCalls: 1,
		},
		{
			name:      "provider rejects request",
			client:    &fakeClient{err: &common.RetryableError{Err: errors.New("status 401"), Retryable: false}},
			wantErr:   common.ErrExtractorUnavailable,
			wantCalls: 1,
		},
		{
			name:      "provider keeps failing",
			client:    &fakeClient{err: errors.New("connection refused")},
			wantErr:   common.ErrExtractorUnavailable,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := newTestExtractor(tt.client)
			defer extractor.Close()

			_, err := extractor.Extract(context.Background(), Request{Itinerary: "Day 1: Cairo"})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, tt.client.calls)
			assert.Zero(t, extractor.cache.size())
		})
	}
}

func TestLLMExtractor_InvalidRequest(t *testing.T) {
	client := &fakeClient{replies: []string{twoServices}}
	extractor := newTestExtractor(client)
	defer extractor.Close()

	_, err := extractor.Extract(context.Background(), Request{Itinerary: "   "})
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Zero(t, client.calls)
}

func TestCacheKey(t *testing.T) {
	base := Request{Itinerary: "Day 1: Cairo", Days: 1, Travelers: 2}
	assert.Equal(t, cacheKey(base), cacheKey(base))
	assert.NotEqual(t, cacheKey(base), cacheKey(Request{Itinerary: "Day 1: Cairo", Days: 1, Travelers: 3}))
	assert.NotEqual(t, cacheKey(base), cacheKey(Request{Itinerary: "Day 1: Cairo", Days: 12}))
	assert.Len(t, cacheKey(base), 64)
}
