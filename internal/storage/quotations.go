package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/service"
)

// SaveQuotation persists an analyzed quotation. The full bundle is kept as a
// JSON payload; summary columns back the listing query.
func (s *SQLiteStorage) SaveQuotation(ctx context.Context, q *model.Quotation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateQuotation(q); err != nil {
		return err
	}

	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode quotation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotations (id, title, num_people, currency, sell_per_group,
			service_count, missing_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			num_people = excluded.num_people,
			currency = excluded.currency,
			sell_per_group = excluded.sell_per_group,
			service_count = excluded.service_count,
			missing_count = excluded.missing_count,
			payload = excluded.payload`,
		q.ID, q.Title, q.NumPeople, q.Totals.Currency, q.Totals.SellPerGroup.String(),
		len(q.Services), len(q.MissingPrices()), string(payload), q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quotation: %w", err)
	}

	slog.Debug("saved quotation", "id", q.ID, "services", len(q.Services))
	return nil
}

// GetQuotation loads a stored quotation by ID.
func (s *SQLiteStorage) GetQuotation(ctx context.Context, id string) (*model.Quotation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM quotations WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quotation %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	var q model.Quotation
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, fmt.Errorf("failed to decode quotation %s: %w", id, err)
	}
	return &q, nil
}

// ListQuotations returns the most recent quotations first. A non-positive
// limit returns every row.
func (s *SQLiteStorage) ListQuotations(ctx context.Context, limit int) ([]service.QuotationSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, num_people, currency, sell_per_group, service_count, missing_count, created_at
		FROM quotations
		ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []service.QuotationSummary
	for rows.Next() {
		var qs service.QuotationSummary
		if err := rows.Scan(&qs.ID, &qs.Title, &qs.NumPeople, &qs.Currency, &qs.SellPerGroup,
			&qs.ServiceCount, &qs.MissingPrices, &qs.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		summaries = append(summaries, qs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotations: %w", err)
	}

	return summaries, nil
}
