package testutil

import (
	"context"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/marketdata"
)

// FakeProvider is a configurable marketdata.Provider for tests. Each
// capability is driven by an optional func field; a nil field declines with
// ErrNotSupported, matching how a real provider omits a capability. Call
// counts are recorded per capability for short-circuit assertions.
//
// Example usage:
//
//	provider := &testutil.FakeProvider{
//	    ProviderName: "fake",
//	    QuoteFunc: func(symbol string) (marketdata.Quote, error) {
//	        return marketdata.Quote{Symbol: symbol, Price: decimal.NewFromInt(42)}, nil
//	    },
//	}
type FakeProvider struct {
	ProviderName string
	Calls        map[marketdata.Capability]int

	QuoteFunc      func(symbol string) (marketdata.Quote, error)
	CandlesFunc    func(symbol string, from, to time.Time) ([]marketdata.Candle, error)
	ForexFunc      func(pair string, from, to time.Time) ([]marketdata.Candle, error)
	ProfileFunc    func(symbol string) (marketdata.CompanyProfile, error)
	MetricsFunc    func(symbol string) (marketdata.FinancialMetrics, error)
	ISINLookupFunc func(isin string) ([]marketdata.SymbolMatch, error)
}

func (f *FakeProvider) record(c marketdata.Capability) {
	if f.Calls == nil {
		f.Calls = make(map[marketdata.Capability]int)
	}
	f.Calls[c]++
}

// Name returns the configured provider name, defaulting to "fake".
func (f *FakeProvider) Name() string {
	if f.ProviderName == "" {
		return "fake"
	}
	return f.ProviderName
}

// GetQuote dispatches to QuoteFunc or declines.
func (f *FakeProvider) GetQuote(_ context.Context, symbol string) (marketdata.Quote, error) {
	f.record(marketdata.CapabilityQuote)
	if f.QuoteFunc == nil {
		return marketdata.Quote{}, marketdata.ErrNotSupported
	}
	return f.QuoteFunc(symbol)
}

// GetCandles dispatches to CandlesFunc or declines.
func (f *FakeProvider) GetCandles(_ context.Context, symbol string, from, to time.Time, _ marketdata.CandleOptions) ([]marketdata.Candle, error) {
	f.record(marketdata.CapabilityCandles)
	if f.CandlesFunc == nil {
		return nil, marketdata.ErrNotSupported
	}
	return f.CandlesFunc(symbol, from, to)
}

// GetForexCandles dispatches to ForexFunc or declines.
func (f *FakeProvider) GetForexCandles(_ context.Context, pair string, from, to time.Time) ([]marketdata.Candle, error) {
	f.record(marketdata.CapabilityForex)
	if f.ForexFunc == nil {
		return nil, marketdata.ErrNotSupported
	}
	return f.ForexFunc(pair, from, to)
}

// GetCompanyProfile dispatches to ProfileFunc or declines.
func (f *FakeProvider) GetCompanyProfile(_ context.Context, symbol string) (marketdata.CompanyProfile, error) {
	f.record(marketdata.CapabilityProfile)
	if f.ProfileFunc == nil {
		return marketdata.CompanyProfile{}, marketdata.ErrNotSupported
	}
	return f.ProfileFunc(symbol)
}

// GetFinancialMetrics dispatches to MetricsFunc or declines.
func (f *FakeProvider) GetFinancialMetrics(_ context.Context, symbol string) (marketdata.FinancialMetrics, error) {
	f.record(marketdata.CapabilityMetrics)
	if f.MetricsFunc == nil {
		return marketdata.FinancialMetrics{}, marketdata.ErrNotSupported
	}
	return f.MetricsFunc(symbol)
}

// LookupISIN dispatches to ISINLookupFunc or declines.
func (f *FakeProvider) LookupISIN(_ context.Context, isin string) ([]marketdata.SymbolMatch, error) {
	f.record(marketdata.CapabilityISINLookup)
	if f.ISINLookupFunc == nil {
		return nil, marketdata.ErrNotSupported
	}
	return f.ISINLookupFunc(isin)
}

// NewFakeDispatcher builds a dispatcher that routes every capability to the
// given providers in order. Convenient for service tests that do not care
// about per-capability ordering.
func NewFakeDispatcher(providers ...marketdata.Provider) *marketdata.Dispatcher {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	ordering := make(marketdata.Ordering, len(marketdata.Capabilities))
	for _, c := range marketdata.Capabilities {
		ordering[c] = names
	}
	return marketdata.NewDispatcher(ordering, providers...)
}
