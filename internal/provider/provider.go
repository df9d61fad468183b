package provider

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StockPulse/internal/model"
)

// Errors returned by providers and the chain. Callers classify with errors.Is.
var (
	// ErrMissingAPIKey means a required provider credential is absent.
	// This is a configuration failure, not a retryable one.
	ErrMissingAPIKey = errors.New("provider: api key not configured")

	// ErrExhausted means the provider kept signalling rate limiting past
	// the retry budget for a single request.
	ErrExhausted = errors.New("provider: retry budget exhausted")

	// ErrNoData means the provider answered but carried no usable series.
	ErrNoData = errors.New("provider: no time series in response")

	// ErrUnavailable means every provider in the chain failed for a symbol.
	ErrUnavailable = errors.New("provider: all providers failed")
)

// Provider fetches the trailing daily history for one symbol.
type Provider interface {
	// FetchDaily returns up to days most-recent daily rows for the symbol,
	// in ascending date order.
	FetchDaily(ctx context.Context, spec model.SymbolSpec, days int) ([]model.PriceRow, error)
	// CheckConfig reports whether the provider can be used at all.
	CheckConfig() error
	Name() string
}

// Chain tries providers in order until one returns rows. Keeping the set of
// providers an ordered list keeps it open for extension without touching
// ingestion logic.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain from the given providers, tried first to last.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string { return "chain" }

// CheckConfig fails if any member provider is unusable. The primary
// provider's API key being absent short-circuits ingestion entirely.
func (c *Chain) CheckConfig() error {
	for _, p := range c.providers {
		if err := p.CheckConfig(); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// FetchDaily runs down the provider list. A provider that errors, including
// one that exhausted its retry budget, hands the symbol to the next provider.
func (c *Chain) FetchDaily(ctx context.Context, spec model.SymbolSpec, days int) ([]model.PriceRow, error) {
	lastErr := errors.New("no providers configured")
	for _, p := range c.providers {
		rows, err := p.FetchDaily(ctx, spec, days)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		log.Printf("[WARN] %s: fetch %s failed: %v", p.Name(), spec.Symbol, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, spec.Symbol, lastErr)
}
