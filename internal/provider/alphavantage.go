package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/model"
)

// AlphaVantage implements Provider using the Alpha Vantage adjusted-daily
// endpoint. The free tier rate-limits aggressively; a limited response is a
// normal JSON body with a marker field instead of a series, so each request
// retries with a linearly growing, capped wait before giving up.
type AlphaVantage struct {
	BaseURL     string
	APIKey      string
	MaxAttempts int
	Client      *http.Client

	// sleep is swappable so tests can observe the backoff schedule.
	sleep func(time.Duration)
}

// NewAlphaVantage creates the primary provider with optional proxy support.
func NewAlphaVantage(baseURL, apiKey string, maxAttempts int, proxyURL string) *AlphaVantage {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantage{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		MaxAttempts: maxAttempts,
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
		sleep: time.Sleep,
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// CheckConfig fails when the API key is absent.
func (a *AlphaVantage) CheckConfig() error {
	if a.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// avDailyResponse is the adjusted-daily response shape. A rate-limited or
// rejected request still returns 200 with one of the marker fields set.
type avDailyResponse struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// FetchDaily requests the compact adjusted-daily series (~100 points) and
// keeps the trailing days most-recent rows, ascending by date.
func (a *AlphaVantage) FetchDaily(ctx context.Context, spec model.SymbolSpec, days int) ([]model.PriceRow, error) {
	if err := a.CheckConfig(); err != nil {
		return nil, err
	}

	body, err := a.fetchWithRetry(ctx, spec.Symbol, 1)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(body.TimeSeries))
	for d := range body.TimeSeries {
		dates = append(dates, d)
	}
	// Most recent first, then trim to the requested window.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > days {
		dates = dates[:days]
	}

	rows := make([]model.PriceRow, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		row, err := parseAVRow(spec, dates[i], body.TimeSeries[dates[i]])
		if err != nil {
			return nil, fmt.Errorf("alphavantage: %s %s: %w", spec.Symbol, dates[i], err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (a *AlphaVantage) fetchWithRetry(ctx context.Context, symbol string, attempt int) (*avDailyResponse, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", symbol)
	q.Set("outputsize", "compact")
	q.Set("apikey", a.APIKey)
	endpoint := fmt.Sprintf("%s/query?%s", a.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var body avDailyResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	if marker := body.marker(); marker != "" {
		if attempt >= a.MaxAttempts {
			return nil, fmt.Errorf("%w: %s after %d attempts: %s", ErrExhausted, symbol, attempt, marker)
		}
		wait := backoffWait(attempt)
		log.Printf("[WARN] alphavantage: %s rate limited (attempt %d/%d), waiting %s", symbol, attempt, a.MaxAttempts, wait)
		a.sleep(wait)
		return a.fetchWithRetry(ctx, symbol, attempt+1)
	}

	if len(body.TimeSeries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return &body, nil
}

func (r *avDailyResponse) marker() string {
	switch {
	case r.Note != "":
		return r.Note
	case r.Information != "":
		return r.Information
	case r.ErrorMessage != "":
		return r.ErrorMessage
	}
	return ""
}

// backoffWait grows linearly with the attempt number and caps at three
// minutes: 60s, 120s, 180s, 180s, ...
func backoffWait(attempt int) time.Duration {
	secs := 60 * attempt
	if secs > 180 {
		secs = 180
	}
	return time.Duration(secs) * time.Second
}

func parseAVRow(spec model.SymbolSpec, date string, fields map[string]string) (model.PriceRow, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.PriceRow{}, fmt.Errorf("parse date: %w", err)
	}

	open, err := avFloat(fields, "1. open")
	if err != nil {
		return model.PriceRow{}, err
	}
	high, err := avFloat(fields, "2. high")
	if err != nil {
		return model.PriceRow{}, err
	}
	low, err := avFloat(fields, "3. low")
	if err != nil {
		return model.PriceRow{}, err
	}
	close, err := avFloat(fields, "4. close")
	if err != nil {
		return model.PriceRow{}, err
	}

	// Adjusted close falls back to the raw close when absent.
	adjClose := close
	if _, ok := fields["5. adjusted close"]; ok {
		if v, err := avFloat(fields, "5. adjusted close"); err == nil {
			adjClose = v
		}
	}

	var volume int64
	if v, ok := fields["6. volume"]; ok {
		volume, _ = strconv.ParseInt(v, 10, 64)
	} else if v, ok := fields["5. volume"]; ok {
		volume, _ = strconv.ParseInt(v, 10, 64)
	}

	return model.PriceRow{
		Date:               day,
		Symbol:             spec.Symbol,
		Name:               spec.DisplayName,
		Sector:             spec.Sector,
		Open:               open,
		High:               high,
		Low:                low,
		Close:              close,
		Volume:             volume,
		AdjustedClose:      adjClose,
		PriceChange:        close - open,
		PriceChangePercent: model.ChangePercent(open, close),
	}, nil
}

func avFloat(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", key, err)
	}
	return v, nil
}
