package model

import "time"

// SymbolSpec describes one instrument in the configured universe.
// Loaded once at startup and immutable for the process lifetime.
type SymbolSpec struct {
	Symbol      string
	DisplayName string
	Sector      string
}

// PriceRow is one trading day for one symbol, in the canonical shape
// shared by all providers and the flat store.
type PriceRow struct {
	Date               time.Time `json:"date"`   // calendar date, midnight UTC
	Symbol             string    `json:"symbol"` // always uppercase
	Name               string    `json:"name"`
	Sector             string    `json:"sector"`
	Open               float64   `json:"open"`
	High               float64   `json:"high"`
	Low                float64   `json:"low"`
	Close              float64   `json:"close"`
	Volume             int64     `json:"volume"`
	AdjustedClose      float64   `json:"adjustedClose"`
	PriceChange        float64   `json:"priceChange"` // close - open
	PriceChangePercent float64   `json:"priceChangePercent"`
}

// ChangePercent computes the intraday change percentage for an open/close
// pair. A zero open yields zero rather than a division error.
func ChangePercent(open, close float64) float64 {
	if open == 0 {
		return 0
	}
	return (close - open) / open * 100
}

// IngestMetadata is the sidecar record describing the last bulk ingest.
// Overwritten wholesale after every run.
type IngestMetadata struct {
	LastUpdate     time.Time `json:"lastUpdate"`
	TotalCompanies int       `json:"totalCompanies"`
	DataPoints     int       `json:"dataPoints"`
}

// StockSummary is the query-time view of one symbol: latest price, the
// previous session's close, and the trailing history, most recent first.
// Computed fresh on every query, never persisted.
type StockSummary struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Sector        string     `json:"sector"`
	CurrentPrice  float64    `json:"currentPrice"`
	PreviousClose float64    `json:"previousClose"`
	PriceHistory  []PriceRow `json:"priceHistory"`
}
