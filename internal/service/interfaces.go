// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/tourquote/internal/model"
)

// CatalogFilter narrows catalog queries. Empty fields do not filter.
type CatalogFilter struct {
	Category        string
	Location        string
	Currency        string
	IncludeInactive bool
}

// CatalogProvider supplies the catalog snapshot used for one quotation.
type CatalogProvider interface {
	GetCatalog(ctx context.Context, filter CatalogFilter) ([]model.CatalogEntry, error)
}

// QuotationStore accepts analyzed quotation bundles.
type QuotationStore interface {
	SaveQuotation(ctx context.Context, q *model.Quotation) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CatalogProvider
	QuotationStore

	// Catalog operations
	SaveCatalogEntries(ctx context.Context, entries []model.CatalogEntry) error
	GetCatalogEntry(ctx context.Context, id string) (*model.CatalogEntry, error)
	DeactivateCatalogEntry(ctx context.Context, id string) error
	CountCatalogEntries(ctx context.Context) (int, error)

	// Quotation operations
	GetQuotation(ctx context.Context, id string) (*model.Quotation, error)
	ListQuotations(ctx context.Context, limit int) ([]QuotationSummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// QuotationSummary is a lightweight listing row for a stored quotation.
type QuotationSummary struct {
	CreatedAt     time.Time
	ID            string
	Title         string
	Currency      string
	SellPerGroup  string
	NumPeople     int
	ServiceCount  int
	MissingPrices int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
