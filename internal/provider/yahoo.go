package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockPulse/internal/model"
)

// Yahoo implements Provider using the Yahoo Finance chart API. No credential
// is required, so it serves as the fallback when the primary provider fails.
type Yahoo struct {
	BaseURL string
	Client  *http.Client
}

// NewYahoo creates the fallback provider with optional proxy support.
func NewYahoo(proxyURL string) *Yahoo {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Yahoo{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

func (y *Yahoo) CheckConfig() error { return nil }

// yahooChart is the response structure from the chart API. Quote arrays run
// parallel to the timestamp array and carry nulls on non-trading days.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// rangeForDays maps the requested trailing window to a chart range bucket.
func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	default:
		return "3mo"
	}
}

// FetchDaily requests a daily chart over the bucket covering days and clamps
// the reconstructed rows to the trailing days entries, ascending by date.
func (y *Yahoo) FetchDaily(ctx context.Context, spec model.SymbolSpec, days int) ([]model.PriceRow, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.BaseURL, url.PathEscape(spec.Symbol), rangeForDays(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var chart yahooChart
	if err := json.Unmarshal(raw, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, spec.Symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, spec.Symbol)
	}
	quote := result.Indicators.Quote[0]

	var adjclose []*float64
	if len(result.Indicators.Adjclose) > 0 {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	rows := make([]model.PriceRow, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.Close) {
			break
		}
		// Skip half-filled bars (holidays, in-progress sessions).
		if quote.Open[i] == nil || quote.Close[i] == nil {
			continue
		}
		open := *quote.Open[i]
		close := *quote.Close[i]

		adjusted := close
		if i < len(adjclose) && adjclose[i] != nil {
			adjusted = *adjclose[i]
		}

		day := time.Unix(ts, 0).UTC()
		rows = append(rows, model.PriceRow{
			Date:               time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Symbol:             spec.Symbol,
			Name:               spec.DisplayName,
			Sector:             spec.Sector,
			Open:               open,
			High:               deref(quote.High, i),
			Low:                deref(quote.Low, i),
			Close:              close,
			Volume:             derefInt(quote.Volume, i),
			AdjustedClose:      adjusted,
			PriceChange:        close - open,
			PriceChangePercent: model.ChangePercent(open, close),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	if len(rows) > days {
		rows = rows[len(rows)-days:]
	}
	return rows, nil
}

func deref(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

func derefInt(vals []*int64, i int) int64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}
