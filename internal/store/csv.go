// Package store persists price rows to an append-only CSV table with a JSON
// sidecar describing the last bulk ingest. Appends and metadata writes are
// serialized through one mutex; at most one ingest run is expected at a time
// and the mutex makes that assumption safe rather than implicit.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"StockPulse/internal/model"
)

var (
	// ErrUnavailable means the table file does not exist yet.
	ErrUnavailable = errors.New("store: data file not found")

	// ErrEmpty means the table exists but holds no data rows.
	ErrEmpty = errors.New("store: no data rows")
)

// header is the fixed column order of the flat table.
var header = []string{
	"Date", "Symbol", "Name", "Sector",
	"Open", "High", "Low", "Close", "Volume",
	"AdjustedClose", "PriceChange", "PriceChangePercent",
}

const (
	dataFileName = "stock_data.csv"
	metaFileName = "ingest_metadata.json"
	dateLayout   = "2006-01-02"
)

// CSVStore is the flat-file store. BulkIngestor is the sole writer; queries
// only read.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVStore creates a store rooted at dir. Call EnsureInitialized before
// the first append.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

func (s *CSVStore) dataPath() string { return filepath.Join(s.dir, dataFileName) }
func (s *CSVStore) metaPath() string { return filepath.Join(s.dir, metaFileName) }

// EnsureInitialized creates the storage directory and a header-only table if
// absent. Idempotent: an existing table is left untouched.
func (s *CSVStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if _, err := os.Stat(s.dataPath()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat data file: %w", err)
	}

	f, err := os.Create(s.dataPath())
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append writes rows to the end of the table. No uniqueness check is made on
// (symbol, date); re-ingesting an already-covered day duplicates its rows.
func (s *CSVStore) Append(rows []model.PriceRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.dataPath(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrUnavailable
		}
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, r := range rows {
		if err := w.Write(encodeRow(r)); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadAll parses the entire table. Returns ErrUnavailable when the file is
// missing and ErrEmpty when only the header is present.
func (s *CSVStore) ReadAll() ([]model.PriceRow, error) {
	f, err := os.Open(s.dataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if len(records) <= 1 {
		return nil, ErrEmpty
	}

	rows := make([]model.PriceRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowCount reports the number of data rows currently on disk. A missing or
// header-only table counts as zero.
func (s *CSVStore) RowCount() (int, error) {
	rows, err := s.ReadAll()
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrEmpty) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ReadMetadata loads the sidecar record. A missing sidecar yields (nil, nil),
// which callers treat as "never ingested".
func (s *CSVStore) ReadMetadata() (*model.IngestMetadata, error) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta model.IngestMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

// WriteMetadata replaces the sidecar record wholesale.
func (s *CSVStore) WriteMetadata(meta *model.IngestMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(), data, 0644)
}

func encodeRow(r model.PriceRow) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.Symbol,
		r.Name,
		r.Sector,
		formatFloat(r.Open),
		formatFloat(r.High),
		formatFloat(r.Low),
		formatFloat(r.Close),
		strconv.FormatInt(r.Volume, 10),
		formatFloat(r.AdjustedClose),
		formatFloat(r.PriceChange),
		formatFloat(r.PriceChangePercent),
	}
}

func decodeRow(rec []string) (model.PriceRow, error) {
	if len(rec) != len(header) {
		return model.PriceRow{}, fmt.Errorf("expected %d fields, got %d", len(header), len(rec))
	}

	date, err := time.Parse(dateLayout, rec[0])
	if err != nil {
		return model.PriceRow{}, fmt.Errorf("parse date %q: %w", rec[0], err)
	}

	floats := make([]float64, 0, 7)
	for _, idx := range []int{4, 5, 6, 7, 9, 10, 11} {
		v, err := strconv.ParseFloat(rec[idx], 64)
		if err != nil {
			return model.PriceRow{}, fmt.Errorf("parse %s %q: %w", header[idx], rec[idx], err)
		}
		floats = append(floats, v)
	}
	volume, err := strconv.ParseInt(rec[8], 10, 64)
	if err != nil {
		return model.PriceRow{}, fmt.Errorf("parse Volume %q: %w", rec[8], err)
	}

	return model.PriceRow{
		Date:               date,
		Symbol:             rec[1],
		Name:               rec[2],
		Sector:             rec[3],
		Open:               floats[0],
		High:               floats[1],
		Low:                floats[2],
		Close:              floats[3],
		Volume:             volume,
		AdjustedClose:      floats[4],
		PriceChange:        floats[5],
		PriceChangePercent: floats[6],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
