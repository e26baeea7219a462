package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Ordering maps a capability to the ordered list of provider names to try.
// It is supplied by configuration and never mutated by the dispatcher.
type Ordering map[Capability][]string

// Dispatcher tries an ordered list of providers for a given capability and
// returns the first success. It is pure with respect to the ordering table:
// no caching, no retries, no rate limiting, no circuit breaking, and no
// timeout of its own. Calls for different symbols are independent and safe
// to run concurrently.
type Dispatcher struct {
	providers map[string]Provider
	ordering  Ordering
}

// NewDispatcher builds a dispatcher over the given providers, keyed by
// Provider.Name(), using the supplied per-capability ordering.
func NewDispatcher(ordering Ordering, providers ...Provider) *Dispatcher {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Dispatcher{providers: byName, ordering: ordering}
}

// dispatch walks the ordered provider list for a capability and returns the
// first success. Individual failures (including ErrNotSupported) cause the
// next provider to be tried; only exhaustion of the whole list is surfaced,
// as ErrAllProvidersFailed. Callers never see provider-specific errors.
func dispatch[T any](d *Dispatcher, capability Capability, call func(Provider) (T, error)) (T, error) {
	var zero T
	for _, name := range d.ordering[capability] {
		p, ok := d.providers[name]
		if !ok {
			log.Printf("DEBUG marketdata: %s ordering references unknown provider %q", capability, name)
			continue
		}
		v, err := call(p)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNotSupported) {
			// Recovered locally: the next provider is tried.
			log.Printf("DEBUG marketdata: provider %s failed %s: %v", name, capability, err)
		}
	}
	return zero, fmt.Errorf("%s: %w", capability, ErrAllProvidersFailed)
}

// Quote returns the first successful quote for symbol.
func (d *Dispatcher) Quote(ctx context.Context, symbol string) (Quote, error) {
	return dispatch(d, CapabilityQuote, func(p Provider) (Quote, error) {
		return p.GetQuote(ctx, symbol)
	})
}

// Candles returns the first successful candle series for symbol.
func (d *Dispatcher) Candles(ctx context.Context, symbol string, from, to time.Time, opts CandleOptions) ([]Candle, error) {
	return dispatch(d, CapabilityCandles, func(p Provider) ([]Candle, error) {
		return p.GetCandles(ctx, symbol, from, to, opts)
	})
}

// ForexCandles returns the first successful FX candle series for a currency
// pair such as "EURUSD".
func (d *Dispatcher) ForexCandles(ctx context.Context, pair string, from, to time.Time) ([]Candle, error) {
	return dispatch(d, CapabilityForex, func(p Provider) ([]Candle, error) {
		return p.GetForexCandles(ctx, pair, from, to)
	})
}

// CompanyProfile returns the first successful company profile for symbol.
func (d *Dispatcher) CompanyProfile(ctx context.Context, symbol string) (CompanyProfile, error) {
	return dispatch(d, CapabilityProfile, func(p Provider) (CompanyProfile, error) {
		return p.GetCompanyProfile(ctx, symbol)
	})
}

// FinancialMetrics returns the first successful metrics for symbol.
func (d *Dispatcher) FinancialMetrics(ctx context.Context, symbol string) (FinancialMetrics, error) {
	return dispatch(d, CapabilityMetrics, func(p Provider) (FinancialMetrics, error) {
		return p.GetFinancialMetrics(ctx, symbol)
	})
}

// LookupISIN returns the first successful symbol lookup for an ISIN.
func (d *Dispatcher) LookupISIN(ctx context.Context, isin string) ([]SymbolMatch, error) {
	return dispatch(d, CapabilityISINLookup, func(p Provider) ([]SymbolMatch, error) {
		return p.LookupISIN(ctx, isin)
	})
}
