// Package marketdata defines the provider capability contract and the
// fallback dispatcher that feeds live prices and FX rates to the rest of
// the application.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Capability identifies one kind of market data a Provider can serve.
// The dispatcher's ordering table is keyed by capability.
type Capability string

const (
	CapabilityQuote      Capability = "quote"
	CapabilityCandles    Capability = "candles"
	CapabilityForex      Capability = "forex"
	CapabilityProfile    Capability = "profile"
	CapabilityMetrics    Capability = "metrics"
	CapabilityISINLookup Capability = "isin_lookup"
)

// Capabilities lists every known capability, in no particular order.
var Capabilities = []Capability{
	CapabilityQuote,
	CapabilityCandles,
	CapabilityForex,
	CapabilityProfile,
	CapabilityMetrics,
	CapabilityISINLookup,
}

// Provider failure taxonomy. Providers must return one of these (wrapped is
// fine) so the dispatcher can treat every implementation uniformly.
var (
	// ErrNotSupported means the provider does not implement the capability.
	// This is an expected outcome, not an error condition worth logging.
	ErrNotSupported = errors.New("capability not supported by provider")

	// ErrRateLimited means the upstream rejected the call due to rate limits.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrNoData means the provider answered but had no data for the request.
	ErrNoData = errors.New("no data returned by provider")

	// ErrInvalidResponse means the provider response could not be parsed.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrAccessDenied means the provider rejected the configured credentials.
	ErrAccessDenied = errors.New("provider access denied")

	// ErrAllProvidersFailed is the single terminal failure surfaced to
	// callers when every provider in the ordered list failed or declined.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// Quote is a current price observation for a symbol.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	AsOf     time.Time       `json:"asOf"`
	Provider string          `json:"provider"`
}

// Candle is one period of OHLCV data.
type Candle struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// CandleOptions carries optional parameters for candle requests.
type CandleOptions struct {
	Interval string // "1d" when empty
}

// CompanyProfile is basic descriptive data for a listed company.
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Country  string `json:"country,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// FinancialMetrics holds the subset of fundamentals the dividend engine
// consumes. AnnualDividendRate is the feed's declared forward annual
// per-share rate, used as the lowest-precedence rate source.
type FinancialMetrics struct {
	Symbol             string          `json:"symbol"`
	AnnualDividendRate decimal.Decimal `json:"annualDividendRate"`
	DividendYield      decimal.Decimal `json:"dividendYield"`
	PayoutRatio        decimal.Decimal `json:"payoutRatio"`
	Currency           string          `json:"currency"`
}

// SymbolMatch is a single result of an ISIN lookup.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	ISIN     string `json:"isin"`
}

// Provider is the capability contract implemented by each external data
// source. Implementations must expose every method; a capability they do not
// serve returns ErrNotSupported rather than being omitted, so the dispatcher
// can detect declines uniformly without per-provider type inspection.
//
// Providers own their timeout policy: a call either returns within the
// provider's own limits or surfaces a failure. The dispatcher adds none.
type Provider interface {
	Name() string
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetCandles(ctx context.Context, symbol string, from, to time.Time, opts CandleOptions) ([]Candle, error)
	GetForexCandles(ctx context.Context, pair string, from, to time.Time) ([]Candle, error)
	GetCompanyProfile(ctx context.Context, symbol string) (CompanyProfile, error)
	GetFinancialMetrics(ctx context.Context, symbol string) (FinancialMetrics, error)
	LookupISIN(ctx context.Context, isin string) ([]SymbolMatch, error)
}
