// Package query answers period-filtered history lookups against the flat
// store. Every call re-reads the store; nothing is cached between calls.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"StockPulse/internal/model"
)

// ErrSymbolNotFound means the store holds no rows for the requested symbol.
var ErrSymbolNotFound = errors.New("query: symbol not found")

// Store is the read side of the persistent store.
type Store interface {
	ReadAll() ([]model.PriceRow, error)
}

// periodDays maps a period label to the trailing row count it selects.
// Unknown labels select the whole history.
var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
}

// Engine serves per-symbol summaries. Read-only; safe to share.
type Engine struct {
	store Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// GetSymbolHistory builds the summary for one symbol. The period selects the
// N most-recent rows after sorting by date descending; it is a row count, not
// a calendar window, so sparse data covers fewer days than the label implies.
// Store errors (missing or empty table) pass through for the caller to map.
func (e *Engine) GetSymbolHistory(symbol, period string) (*model.StockSummary, error) {
	rows, err := e.store.ReadAll()
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var matched []model.PriceRow
	for _, r := range rows {
		if strings.ToUpper(r.Symbol) == symbol {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	if n, ok := periodDays[period]; ok && len(matched) > n {
		matched = matched[:n]
	}

	previousClose := matched[0].Close
	if len(matched) > 1 {
		previousClose = matched[1].Close
	}

	return &model.StockSummary{
		Symbol:        matched[0].Symbol,
		Name:          matched[0].Name,
		Sector:        matched[0].Sector,
		CurrentPrice:  matched[0].Close,
		PreviousClose: previousClose,
		PriceHistory:  matched, // most recent first
	}, nil
}
