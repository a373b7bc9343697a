package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/tourquote/internal/model"
)

const sampleCSV = `Service Name,Category,Route,Location,Cost Basis,Unit Price,Currency,Vehicle,Pax,Notes,Active
Private car transfer,transport,Airport - Hotel,Cairo,per group,"1,200.00",egp,Sedan,1-3,,yes
Egyptian Museum ticket,entrance fee,,Cairo,per person,15.50,,,,,
Felucca ride,optional,,Aswan,per fortnight,20,EUR,,,,
,guide,,Luxor,per day,80,EUR,,,,
Old boat,boat,,Aswan,flat,100,EUR,,,,no

English guide,guide,,Luxor,daily,abc,EUR,,,,
`

func TestParseCSV(t *testing.T) {
	result, err := ParseCSV(strings.NewReader(sampleCSV), Options{DefaultCurrency: "usd"})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	require.Len(t, result.Errors, 3)

	car := result.Entries[0]
	assert.Equal(t, "Private car transfer", car.ServiceName)
	assert.Equal(t, string(model.CategoryTransportation), car.Category)
	assert.Equal(t, "Airport - Hotel", car.RouteName)
	assert.Equal(t, model.CostPerGroup, car.CostBasis)
	assert.True(t, decimal.NewFromInt(1200).Equal(car.UnitPrice))
	assert.Equal(t, "EGP", car.Currency)
	assert.Equal(t, "Sedan", car.VehicleType)
	assert.Equal(t, "1-3", car.Capacity)
	assert.True(t, car.Active)
	assert.NotEmpty(t, car.ID)

	museum := result.Entries[1]
	assert.Equal(t, string(model.CategoryEntranceFee), museum.Category)
	assert.Equal(t, model.CostPerPerson, museum.CostBasis)
	assert.Equal(t, "USD", museum.Currency)

	boat := result.Entries[2]
	assert.Equal(t, "boat", boat.Category)
	assert.Equal(t, model.CostFlatRate, boat.CostBasis)
	assert.False(t, boat.Active)

	lines := make([]int, 0, len(result.Errors))
	for _, rowErr := range result.Errors {
		lines = append(lines, rowErr.Line)
	}
	assert.Equal(t, []int{4, 5, 8}, lines)
	assert.ErrorContains(t, result.Errors[0], "per fortnight")
	assert.ErrorIs(t, result.Errors[1], model.ErrInvalidCatalogEntry)
	assert.ErrorIs(t, result.Errors[2], model.ErrInvalidCatalogEntry)
}

func TestParseCSV_StableIDs(t *testing.T) {
	first, err := ParseCSV(strings.NewReader(sampleCSV), Options{DefaultCurrency: "USD"})
	require.NoError(t, err)
	second, err := ParseCSV(strings.NewReader(sampleCSV), Options{DefaultCurrency: "USD"})
	require.NoError(t, err)

	for i := range first.Entries {
		assert.Equal(t, first.Entries[i].ID, second.Entries[i].ID)
	}
	assert.NotEqual(t, first.Entries[0].ID, first.Entries[1].ID)
}

func TestParseCSV_ExplicitID(t *testing.T) {
	input := "id,name,basis,price,currency\ncar-1,Private car,per group,100,EUR\n"
	result, err := ParseCSV(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "car-1", result.Entries[0].ID)
}

func TestParseCSV_HeaderErrors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   string
	}{
		{name: "empty", input: "", wantErr: ErrEmptyFile},
		{name: "missing price", input: "name,basis\nCar,per group\n", wantErr: ErrMissingColumn},
		{name: "missing basis", input: "name,price\nCar,100\n", wantErr: ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input), Options{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseCSV_MissingCurrencyWithoutDefault(t *testing.T) {
	input := "name,basis,price\nCar,per group,100\n"
	result, err := ParseCSV(strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	rows := [][]any{
		{"Service", "Category", "Location", "Basis", "Price", "Currency"},
		{"Private car", "transportation", "Cairo", "per group", "100", "EUR"},
		{"Nile cruise", "accommodation", "Aswan", "per night", "250.75", "EUR"},
	}

	t.Run("first sheet", func(t *testing.T) {
		buf := writeWorkbook(t, "Sheet1", rows)
		result, err := ParseXLSX(buf, Options{})
		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "Nile cruise", result.Entries[1].ServiceName)
		assert.True(t, decimal.RequireFromString("250.75").Equal(result.Entries[1].UnitPrice))
		assert.Equal(t, model.CostPerNight, result.Entries[1].CostBasis)
	})

	t.Run("named sheet", func(t *testing.T) {
		buf := writeWorkbook(t, "Prices", rows)
		result, err := ParseXLSX(buf, Options{Sheet: "Prices"})
		require.NoError(t, err)
		assert.Len(t, result.Entries, 2)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		buf := writeWorkbook(t, "Sheet1", rows)
		_, err := ParseXLSX(buf, Options{Sheet: "Nope"})
		assert.Error(t, err)
	})
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))
	result, err := ParseFile(csvPath, Options{DefaultCurrency: "USD"})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 3)

	jsonPath := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o600))
	_, err = ParseFile(jsonPath, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFile(filepath.Join(dir, "missing.csv"), Options{})
	assert.Error(t, err)
}
