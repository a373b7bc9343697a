// Package storage provides the data persistence layer for catalogs and quotations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tourquote/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidQuotation = errors.New("invalid quotation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCatalogEntries validates a slice of catalog entries.
func validateCatalogEntries(entries []model.CatalogEntry) error {
	if entries == nil {
		return fmt.Errorf("%w: entries", ErrNilParameter)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: entries", ErrEmptySlice)
	}

	for i := range entries {
		if strings.TrimSpace(entries[i].ID) == "" {
			return fmt.Errorf("entry at index %d: %w: missing ID", i, model.ErrInvalidCatalogEntry)
		}
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("entry at index %d: %w", i, err)
		}
	}
	return nil
}

// validateQuotation validates a quotation bundle before it is stored.
func validateQuotation(q *model.Quotation) error {
	if q == nil {
		return fmt.Errorf("%w: quotation", ErrNilParameter)
	}
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidQuotation)
	}
	if q.NumPeople < 1 {
		return fmt.Errorf("%w: number of people must be at least 1", ErrInvalidQuotation)
	}
	if len(q.Matches) != len(q.Services) {
		return fmt.Errorf("%w: %d match results for %d services", ErrInvalidQuotation, len(q.Matches), len(q.Services))
	}
	return nil
}
