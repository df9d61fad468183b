package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func testRow(symbol string, date time.Time, close float64) model.PriceRow {
	open := close - 1.5
	return model.PriceRow{
		Date:               date,
		Symbol:             symbol,
		Name:               symbol + " Inc.",
		Sector:             "Technology",
		Open:               open,
		High:               close + 0.25,
		Low:                open - 0.75,
		Close:              close,
		Volume:             1234567,
		AdjustedClose:      close,
		PriceChange:        close - open,
		PriceChangePercent: model.ChangePercent(open, close),
	}
}

func TestEnsureInitializedIdempotent(t *testing.T) {
	s := NewCSVStore(t.TempDir())

	require.NoError(t, s.EnsureInitialized())
	first, err := os.ReadFile(s.dataPath())
	require.NoError(t, err)

	require.NoError(t, s.EnsureInitialized())
	second, err := os.ReadFile(s.dataPath())
	require.NoError(t, err)

	assert.Equal(t, first, second, "second init must not change the table")
	assert.Equal(t, "Date,Symbol,Name,Sector,Open,High,Low,Close,Volume,AdjustedClose,PriceChange,PriceChangePercent\n", string(first))
}

func TestEnsureInitializedKeepsExistingRows(t *testing.T) {
	s := NewCSVStore(t.TempDir())
	require.NoError(t, s.EnsureInitialized())

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append([]model.PriceRow{testRow("AAPL", day, 230.5)}))

	require.NoError(t, s.EnsureInitialized())
	rows, err := s.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAppendReadAllRoundTrip(t *testing.T) {
	s := NewCSVStore(t.TempDir())
	require.NoError(t, s.EnsureInitialized())

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	want := []model.PriceRow{
		testRow("AAPL", day, 229.875),
		testRow("RELIANCE.NS", day.AddDate(0, 0, 1), 2987.3),
	}
	require.NoError(t, s.Append(want))

	got, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want, got)
}

func TestAppendNoDeduplication(t *testing.T) {
	// Blind append is the documented contract: the same (symbol, date) row
	// appended twice is stored twice.
	s := NewCSVStore(t.TempDir())
	require.NoError(t, s.EnsureInitialized())

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	row := testRow("MSFT", day, 512.0)
	require.NoError(t, s.Append([]model.PriceRow{row}))
	require.NoError(t, s.Append([]model.PriceRow{row}))

	rows, err := s.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadAllMissingFile(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "nope"))

	_, err := s.ReadAll()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestReadAllHeaderOnly(t *testing.T) {
	s := NewCSVStore(t.TempDir())
	require.NoError(t, s.EnsureInitialized())

	_, err := s.ReadAll()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRowCount(t *testing.T) {
	s := NewCSVStore(t.TempDir())

	n, err := s.RowCount()
	require.NoError(t, err)
	assert.Zero(t, n, "missing table counts as zero")

	require.NoError(t, s.EnsureInitialized())
	n, err = s.RowCount()
	require.NoError(t, err)
	assert.Zero(t, n, "header-only table counts as zero")

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append([]model.PriceRow{
		testRow("AAPL", day, 230),
		testRow("AAPL", day.AddDate(0, 0, 1), 231),
	}))
	n, err = s.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetadataRoundTrip(t *testing.T) {
	s := NewCSVStore(t.TempDir())

	meta, err := s.ReadMetadata()
	require.NoError(t, err)
	assert.Nil(t, meta, "absent sidecar is not an error")

	want := &model.IngestMetadata{
		LastUpdate:     time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC),
		TotalCompanies: 15,
		DataPoints:     450,
	}
	require.NoError(t, s.WriteMetadata(want))

	got, err := s.ReadMetadata()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.LastUpdate.Equal(want.LastUpdate))
	assert.Equal(t, want.TotalCompanies, got.TotalCompanies)
	assert.Equal(t, want.DataPoints, got.DataPoints)
}
