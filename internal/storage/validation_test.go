package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/tourquote/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "test"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "   ", wantErr: true},
		{name: "string with spaces", str: "  test  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.Contains(t, err.Error(), "param")
			}
		})
	}
}

func TestValidateCatalogEntries(t *testing.T) {
	valid := testEntry("e1", "Private car", "Cairo", "100")

	missingID := valid
	missingID.ID = ""

	badBasis := valid
	badBasis.CostBasis = "per_fortnight"

	tests := []struct {
		wantErr error
		name    string
		entries []model.CatalogEntry
	}{
		{name: "nil slice", entries: nil, wantErr: ErrNilParameter},
		{name: "empty slice", entries: []model.CatalogEntry{}, wantErr: ErrEmptySlice},
		{name: "missing id", entries: []model.CatalogEntry{missingID}, wantErr: model.ErrInvalidCatalogEntry},
		{name: "invalid cost basis", entries: []model.CatalogEntry{valid, badBasis}, wantErr: model.ErrInvalidCatalogEntry},
		{name: "valid", entries: []model.CatalogEntry{valid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCatalogEntries(tt.entries)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateQuotation(t *testing.T) {
	svc := model.DetectedService{Day: 1, Description: "Transfer", Category: model.CategoryTransportation, Quantity: 1}

	tests := []struct {
		q       *model.Quotation
		wantErr error
		name    string
	}{
		{name: "nil", q: nil, wantErr: ErrNilParameter},
		{name: "missing id", q: &model.Quotation{NumPeople: 2}, wantErr: ErrInvalidQuotation},
		{name: "no people", q: &model.Quotation{ID: "q1"}, wantErr: ErrInvalidQuotation},
		{
			name: "mismatched results",
			q: &model.Quotation{
				ID: "q1", NumPeople: 2,
				Services: []model.DetectedService{svc},
			},
			wantErr: ErrInvalidQuotation,
		},
		{
			name: "valid",
			q: &model.Quotation{
				ID: "q1", NumPeople: 2,
				Services: []model.DetectedService{svc},
				Matches:  []model.MatchResult{{Service: svc, UnitPrice: decimal.Zero}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuotation(tt.q)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
