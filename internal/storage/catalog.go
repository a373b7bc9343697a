package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/service"
)

const catalogColumns = `id, service_name, category, route_name, location, cost_basis,
	unit_price, currency, vehicle_type, capacity, notes, is_active, created_at, updated_at`

// SaveCatalogEntries inserts or updates entries in a single transaction.
// Existing rows keep their creation time.
func (s *SQLiteStorage) SaveCatalogEntries(ctx context.Context, entries []model.CatalogEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCatalogEntries(entries); err != nil {
		return err
	}

	query := `
		INSERT INTO catalog_entries (` + catalogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			service_name = excluded.service_name,
			category = excluded.category,
			route_name = excluded.route_name,
			location = excluded.location,
			cost_basis = excluded.cost_basis,
			unit_price = excluded.unit_price,
			currency = excluded.currency,
			vehicle_type = excluded.vehicle_type,
			capacity = excluded.capacity,
			notes = excluded.notes,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		now := time.Now().UTC()
		for i := range entries {
			e := &entries[i]
			created := e.CreatedAt
			if created.IsZero() {
				created = now
			}
			_, err := stmt.ExecContext(ctx,
				e.ID, e.ServiceName, e.Category, e.RouteName, e.Location, string(e.CostBasis),
				e.UnitPrice.String(), strings.ToUpper(e.Currency), e.VehicleType, e.Capacity, e.Notes,
				e.Active, created, now,
			)
			if err != nil {
				return fmt.Errorf("failed to save catalog entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("saved catalog entries", "count", len(entries))
	return nil
}

// GetCatalog returns catalog entries matching filter, ordered by service name.
func (s *SQLiteStorage) GetCatalog(ctx context.Context, filter service.CatalogFilter) ([]model.CatalogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = 1")
	}
	if filter.Category != "" {
		conditions = append(conditions, "category LIKE ?")
		args = append(args, "%"+filter.Category+"%")
	}
	if filter.Location != "" {
		conditions = append(conditions, "(location LIKE ? OR route_name LIKE ?)")
		args = append(args, "%"+filter.Location+"%", "%"+filter.Location+"%")
	}
	if filter.Currency != "" {
		conditions = append(conditions, "currency = ?")
		args = append(args, strings.ToUpper(filter.Currency))
	}

	query := `SELECT ` + catalogColumns + ` FROM catalog_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY service_name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CatalogEntry
	for rows.Next() {
		entry, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}

	slog.Debug("retrieved catalog", "count", len(entries))
	return entries, nil
}

// GetCatalogEntry returns a single entry regardless of its active flag.
func (s *SQLiteStorage) GetCatalogEntry(ctx context.Context, id string) (*model.CatalogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM catalog_entries WHERE id = ?`, id)
	entry, err := scanCatalogEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeactivateCatalogEntry soft-deletes an entry by clearing its active flag.
func (s *SQLiteStorage) DeactivateCatalogEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE catalog_entries SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate catalog entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("catalog entry %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deactivated catalog entry", "id", id)
	return nil
}

// CountCatalogEntries returns the number of active entries.
func (s *SQLiteStorage) CountCatalogEntries(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_entries WHERE is_active = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogEntry(row rowScanner) (model.CatalogEntry, error) {
	var (
		entry     model.CatalogEntry
		costBasis string
		price     string
	)

	err := row.Scan(
		&entry.ID, &entry.ServiceName, &entry.Category, &entry.RouteName, &entry.Location, &costBasis,
		&price, &entry.Currency, &entry.VehicleType, &entry.Capacity, &entry.Notes,
		&entry.Active, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, err
	}
	if err != nil {
		return entry, fmt.Errorf("failed to scan catalog entry: %w", err)
	}

	entry.CostBasis = model.CostBasis(costBasis)
	entry.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return entry, fmt.Errorf("catalog entry %s has malformed price %q: %w", entry.ID, price, err)
	}

	return entry, nil
}
