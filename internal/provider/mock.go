package provider

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	Rows      []model.PriceRow
	BasePrice float64
	Err       error
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) CheckConfig() error { return nil }

func (m *Mock) FetchDaily(_ context.Context, spec model.SymbolSpec, days int) ([]model.PriceRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Rows != nil {
		return m.Rows, nil
	}
	return generateMockRows(spec, m.BasePrice, days), nil
}

func generateMockRows(spec model.SymbolSpec, basePrice float64, count int) []model.PriceRow {
	rows := make([]model.PriceRow, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		open := p * 0.999
		day := time.Now().UTC().AddDate(0, 0, -(count - i))
		rows[i] = model.PriceRow{
			Date:               time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Symbol:             spec.Symbol,
			Name:               spec.DisplayName,
			Sector:             spec.Sector,
			Open:               open,
			High:               p * 1.005,
			Low:                p * 0.995,
			Close:              p,
			Volume:             1000000,
			AdjustedClose:      p,
			PriceChange:        p - open,
			PriceChangePercent: model.ChangePercent(open, p),
		}
	}
	return rows
}
