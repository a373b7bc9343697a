// Package catalog parses supplier price lists into catalog entries.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/tourquote/internal/model"
)

// Import errors.
var (
	ErrEmptyFile         = errors.New("price list is empty")
	ErrMissingColumn     = errors.New("required column missing")
	ErrUnsupportedFormat = errors.New("unsupported price list format")
)

// entryNamespace seeds deterministic entry IDs so re-importing a price list
// updates rows instead of duplicating them.
var entryNamespace = uuid.MustParse("7d0c8f2e-5b1a-4e36-9a57-3c2f1e0b9d44")

// Canonical column names.
const (
	colID          = "id"
	colServiceName = "service_name"
	colCategory    = "category"
	colRouteName   = "route_name"
	colLocation    = "location"
	colCostBasis   = "cost_basis"
	colUnitPrice   = "unit_price"
	colCurrency    = "currency"
	colVehicleType = "vehicle_type"
	colCapacity    = "capacity"
	colNotes       = "notes"
	colActive      = "active"
)

var requiredColumns = []string{colServiceName, colCostBasis, colUnitPrice}

var columnAliases = map[string]string{
	"id":           colID,
	"service_name": colServiceName,
	"name":         colServiceName,
	"service":      colServiceName,
	"category":     colCategory,
	"type":         colCategory,
	"route_name":   colRouteName,
	"route":        colRouteName,
	"location":     colLocation,
	"city":         colLocation,
	"cost_basis":   colCostBasis,
	"basis":        colCostBasis,
	"unit_price":   colUnitPrice,
	"price":        colUnitPrice,
	"cost":         colUnitPrice,
	"currency":     colCurrency,
	"vehicle_type": colVehicleType,
	"vehicle":      colVehicleType,
	"capacity":     colCapacity,
	"pax":          colCapacity,
	"notes":        colNotes,
	"active":       colActive,
	"is_active":    colActive,
}

// Options controls how rows are interpreted.
type Options struct {
	// DefaultCurrency applies to rows with an empty currency cell.
	DefaultCurrency string
	// Sheet names the XLSX sheet to read. Empty selects the first sheet.
	Sheet string
}

// RowError records a row that was skipped.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result holds the entries parsed from a price list and the rows rejected on the way.
type Result struct {
	Entries []model.CatalogEntry
	Errors  []RowError
}

// ParseFile reads a CSV or XLSX price list, chosen by file extension.
func ParseFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open price list: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ParseCSV(f, opts)
	case ".xlsx", ".xlsm":
		return ParseXLSX(f, opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// ParseCSV reads a header-mapped CSV price list.
func ParseCSV(r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return parseRows(records, lines, opts)
}

// parseRows maps a header row and data rows into entries. lines holds the
// source line of each row; when nil, rows are numbered from 1.
func parseRows(rows [][]string, lines []int, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		line := i + 1
		if lines != nil {
			line = lines[i]
		}
		entry, err := parseRow(columns, row, opts)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Err: err})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, raw := range header {
		key := normalizeHeader(raw)
		canonical, ok := columnAliases[key]
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return columns, nil
}

func parseRow(columns map[string]int, row []string, opts Options) (model.CatalogEntry, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entry := model.CatalogEntry{
		ServiceName: cell(colServiceName),
		RouteName:   cell(colRouteName),
		Location:    cell(colLocation),
		VehicleType: cell(colVehicleType),
		Capacity:    cell(colCapacity),
		Notes:       cell(colNotes),
		Currency:    strings.ToUpper(cell(colCurrency)),
		Active:      true,
	}

	if raw := cell(colCategory); raw != "" {
		if category, err := model.ParseServiceCategory(raw); err == nil {
			entry.Category = string(category)
		} else {
			entry.Category = strings.ToLower(raw)
		}
	}

	basis, err := model.ParseCostBasis(cell(colCostBasis))
	if err != nil {
		return entry, err
	}
	entry.CostBasis = basis

	entry.UnitPrice, err = parsePrice(cell(colUnitPrice))
	if err != nil {
		return entry, err
	}

	if entry.Currency == "" {
		entry.Currency = strings.ToUpper(opts.DefaultCurrency)
	}

	if raw := cell(colActive); raw != "" {
		active, err := parseBool(raw)
		if err != nil {
			return entry, err
		}
		entry.Active = active
	}

	if err := entry.Validate(); err != nil {
		return entry, err
	}

	entry.ID = cell(colID)
	if entry.ID == "" {
		entry.ID = entryID(&entry)
	}
	return entry, nil
}

// entryID derives a stable identifier from the fields that distinguish one
// priced service from another.
func entryID(e *model.CatalogEntry) string {
	key := strings.ToLower(strings.Join([]string{
		e.ServiceName, e.RouteName, e.Location, string(e.CostBasis), e.VehicleType, e.Capacity, e.Currency,
	}, "|"))
	return uuid.NewSHA1(entryNamespace, []byte(key)).String()
}

func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", " ", "", "€", "", "$", "", "£", "").Replace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: missing unit price", model.ErrInvalidCatalogEntry)
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unit price %q is not a number", model.ErrInvalidCatalogEntry, raw)
	}
	return price, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1", "active":
		return true, nil
	case "false", "no", "n", "0", "inactive":
		return false, nil
	}
	return false, fmt.Errorf("%w: active flag %q not recognized", model.ErrInvalidCatalogEntry, raw)
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
