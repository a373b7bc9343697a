// Package pricing binds detected itinerary services to priced catalog entries.
package pricing

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tourquote/internal/model"
)

// MatchThreshold is the minimum score for a service to be considered priced.
const MatchThreshold = 60

// Score weights. The components are independent and sum to at most MaxScore.
const (
	termPoints     = 10
	maxTextPoints  = 30
	categoryPoints = 40
	locationPoints = 20
	basisPoints    = 10
	MaxScore       = 100
)

// Matcher scores detected services against a fixed catalog snapshot.
type Matcher struct {
	catalog []model.CatalogEntry
	texts   []string
}

// NewMatcher creates a matcher over catalog. The catalog is expected to be
// pre-filtered to active entries; the matcher does not look at the flag.
func NewMatcher(catalog []model.CatalogEntry) *Matcher {
	m := &Matcher{
		catalog: catalog,
		texts:   make([]string, len(catalog)),
	}

	// Pre-build comparison texts
	for i := range catalog {
		m.texts[i] = comparisonText(&catalog[i])
	}

	return m
}

// MatchServices matches services against catalog in one call.
func MatchServices(services []model.DetectedService, catalog []model.CatalogEntry) ([]model.MatchResult, error) {
	return NewMatcher(catalog).Match(services)
}

// Match returns exactly one result per service, in input order. Every service
// is validated before any matching happens.
func (m *Matcher) Match(services []model.DetectedService) ([]model.MatchResult, error) {
	normalized := make([]model.DetectedService, len(services))
	for i, svc := range services {
		if err := svc.Validate(); err != nil {
			return nil, fmt.Errorf("service %d: %w", i+1, err)
		}
		svc.Normalize()
		normalized[i] = svc
	}

	results := make([]model.MatchResult, 0, len(normalized))
	for _, svc := range normalized {
		results = append(results, m.matchOne(svc))
	}

	return results, nil
}

// matchOne picks the highest scoring entry. Ties go to the entry that appears
// first in the catalog, which depends on import order and is not stable
// across re-imports.
func (m *Matcher) matchOne(svc model.DetectedService) model.MatchResult {
	terms := searchTerms(svc)
	bestIdx, bestScore := -1, -1

	for i := range m.catalog {
		score := m.score(svc, terms, i)
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 || bestScore < MatchThreshold {
		result := model.MatchResult{
			Service: svc,
			Hint:    generateHint(svc),
		}
		if bestScore > 0 {
			result.Confidence = bestScore
		}
		return result
	}

	entry := m.catalog[bestIdx]
	return model.MatchResult{
		Service:    svc,
		Matched:    true,
		Entry:      &entry,
		UnitPrice:  entry.UnitPrice,
		Currency:   entry.Currency,
		Confidence: bestScore,
	}
}

func (m *Matcher) score(svc model.DetectedService, terms []string, idx int) int {
	entry := &m.catalog[idx]
	text := m.texts[idx]

	score := textScore(terms, text)

	if categoryMatches(svc.Category, entry.Category) {
		score += categoryPoints
	}

	if locationMatches(svc.Location, entry.LocationText()) {
		score += locationPoints
	}

	if svc.CostBasis == entry.CostBasis {
		score += basisPoints
	}

	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// Score computes the 0-100 similarity between a single service and entry.
func Score(svc model.DetectedService, entry model.CatalogEntry) int {
	m := NewMatcher([]model.CatalogEntry{entry})
	return m.score(svc, searchTerms(svc), 0)
}

func textScore(terms []string, text string) int {
	points := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			points += termPoints
			if points >= maxTextPoints {
				return maxTextPoints
			}
		}
	}
	return points
}

func locationMatches(serviceLocation, entryLocation string) bool {
	serviceLocation = strings.ToLower(strings.TrimSpace(serviceLocation))
	entryLocation = strings.ToLower(strings.TrimSpace(entryLocation))
	if serviceLocation == "" || entryLocation == "" {
		return false
	}
	return strings.Contains(entryLocation, serviceLocation)
}

// Unmatched returns the results that need a catalog price.
func Unmatched(results []model.MatchResult) []model.MatchResult {
	var missing []model.MatchResult
	for _, r := range results {
		if !r.Matched {
			missing = append(missing, r)
		}
	}
	return missing
}

// Summary counts matched and unmatched results.
type Summary struct {
	Total     int
	Matched   int
	Unmatched int
}

// Summarize builds a Summary for results.
func Summarize(results []model.MatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Matched {
			s.Matched++
		}
	}
	s.Unmatched = s.Total - s.Matched
	return s
}
