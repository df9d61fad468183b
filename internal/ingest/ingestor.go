// Package ingest drives the bulk fetch-and-persist cycle across the
// configured symbol universe and decides when a cycle is due.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"StockPulse/internal/model"
	"StockPulse/internal/provider"
)

// ErrRunInProgress means another bulk run holds the run token. Only one run
// may be active at a time; concurrent appends to the flat store would
// interleave.
var ErrRunInProgress = errors.New("ingest: bulk run already in progress")

// Store is the slice of the persistent store the ingestor writes to.
type Store interface {
	EnsureInitialized() error
	Append(rows []model.PriceRow) error
	RowCount() (int, error)
	WriteMetadata(meta *model.IngestMetadata) error
}

// SymbolFailure records one symbol that produced no rows this run.
type SymbolFailure struct {
	Symbol string
	Reason string
}

// Result summarizes one bulk run.
type Result struct {
	SuccessCount int
	ErrorCount   int
	RowsAppended int
	TotalRows    int // store row count after the run, re-read from disk
	Duration     time.Duration
	Failures     []SymbolFailure
}

// Ingestor walks the symbol list sequentially, fetching through the provider
// chain and appending per symbol. Symbols are never fetched concurrently;
// the inter-symbol throttle is what keeps the external provider happy.
type Ingestor struct {
	providers   provider.Provider
	store       Store
	symbols     []model.SymbolSpec
	historyDays int
	throttle    time.Duration

	runMu sync.Mutex
	now   func() time.Time
}

// New creates an Ingestor. providers is normally a *provider.Chain.
func New(providers provider.Provider, store Store, symbols []model.SymbolSpec, historyDays int, throttle time.Duration) *Ingestor {
	return &Ingestor{
		providers:   providers,
		store:       store,
		symbols:     symbols,
		historyDays: historyDays,
		throttle:    throttle,
		now:         time.Now,
	}
}

// Run executes one bulk ingest. A symbol that fails on every provider is
// tallied and skipped; the run itself only errors for configuration problems,
// storage failures, or cancellation. The sidecar metadata is rewritten after
// the loop regardless of how many symbols succeeded.
func (ing *Ingestor) Run(ctx context.Context) (*Result, error) {
	if !ing.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer ing.runMu.Unlock()

	if err := ing.providers.CheckConfig(); err != nil {
		return nil, fmt.Errorf("ingest configuration: %w", err)
	}
	if err := ing.store.EnsureInitialized(); err != nil {
		return nil, err
	}

	start := ing.now()
	res := &Result{}

	for i, spec := range ing.symbols {
		rows, err := ing.providers.FetchDaily(ctx, spec, ing.historyDays)
		if err != nil {
			res.ErrorCount++
			res.Failures = append(res.Failures, SymbolFailure{Symbol: spec.Symbol, Reason: err.Error()})
			log.Printf("[ERROR] ingest %s: %v", spec.Symbol, err)
		} else {
			if err := ing.store.Append(rows); err != nil {
				return nil, fmt.Errorf("append %s: %w", spec.Symbol, err)
			}
			res.SuccessCount++
			res.RowsAppended += len(rows)
			log.Printf("[INFO] ingest %s: %d rows", spec.Symbol, len(rows))
		}

		if i < len(ing.symbols)-1 {
			if err := sleepCtx(ctx, ing.throttle); err != nil {
				return nil, err
			}
		}
	}

	total, err := ing.store.RowCount()
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}
	res.TotalRows = total
	res.Duration = ing.now().Sub(start)

	meta := &model.IngestMetadata{
		LastUpdate:     ing.now(),
		TotalCompanies: len(ing.symbols),
		DataPoints:     total,
	}
	if err := ing.store.WriteMetadata(meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	log.Printf("[INFO] ingest run done: %d ok, %d failed, %d rows appended (%d total)",
		res.SuccessCount, res.ErrorCount, res.RowsAppended, res.TotalRows)
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
