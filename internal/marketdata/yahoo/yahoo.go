// Package yahoo implements the marketdata.Provider contract on top of the
// Yahoo Finance chart API. Yahoo serves quotes, candles, forex candles and
// company profiles; financial metrics and ISIN lookup are declined.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/marketdata"
)

const baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Provider is a Yahoo Finance backed market data provider.
// It wraps an HTTP client and normalizes Yahoo chart responses into the
// shapes the dispatcher hands to callers.
type Provider struct {
	httpClient *http.Client
}

// New creates a Yahoo provider with a default HTTP client.
func New() *Provider {
	return &Provider{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name implements marketdata.Provider.
func (p *Provider) Name() string { return "yahoo" }

// GetQuote fetches the most recent closing price for a symbol.
// It queries the last 5 trading days and returns the latest close, which
// also covers symbols that did not trade today.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (marketdata.Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=5d", baseURL, symbol)
	chart, err := p.queryChart(ctx, url)
	if err != nil {
		return marketdata.Quote{}, err
	}
	if len(chart.Indicators) == 0 {
		return marketdata.Quote{}, fmt.Errorf("quote %s: %w", symbol, marketdata.ErrNoData)
	}

	last := chart.Indicators[len(chart.Indicators)-1]
	return marketdata.Quote{
		Symbol:   chart.Symbol,
		Price:    decimal.NewFromFloat(last.PriceClose),
		Currency: chart.Currency,
		AsOf:     last.Date,
		Provider: p.Name(),
	}, nil
}

// GetCandles fetches daily price data for a symbol within a date range.
func (p *Provider) GetCandles(ctx context.Context, symbol string, from, to time.Time, opts marketdata.CandleOptions) ([]marketdata.Candle, error) {
	interval := opts.Interval
	if interval == "" {
		interval = "1d"
	}
	url := fmt.Sprintf(
		"%s/%s?interval=%s&period1=%d&period2=%d",
		baseURL, symbol, interval, from.Unix(), to.Unix(),
	)
	chart, err := p.queryChart(ctx, url)
	if err != nil {
		return nil, err
	}
	return toCandles(chart), nil
}

// GetForexCandles fetches daily FX rates for a currency pair such as
// "EURUSD". Yahoo serves FX through the same chart API using "=X" symbols.
func (p *Provider) GetForexCandles(ctx context.Context, pair string, from, to time.Time) ([]marketdata.Candle, error) {
	return p.GetCandles(ctx, pair+"=X", from, to, marketdata.CandleOptions{})
}

// GetCompanyProfile fetches descriptive metadata for a symbol from the
// chart response meta block.
func (p *Provider) GetCompanyProfile(ctx context.Context, symbol string) (marketdata.CompanyProfile, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=5d", baseURL, symbol)
	chart, err := p.queryChart(ctx, url)
	if err != nil {
		return marketdata.CompanyProfile{}, err
	}

	name := chart.LongName
	if name == "" {
		name = chart.Shortname
	}
	return marketdata.CompanyProfile{
		Symbol:   chart.Symbol,
		Name:     name,
		Exchange: chart.FullExchangeName,
		Currency: chart.Currency,
	}, nil
}

// GetFinancialMetrics is not served by the chart API.
func (p *Provider) GetFinancialMetrics(_ context.Context, symbol string) (marketdata.FinancialMetrics, error) {
	return marketdata.FinancialMetrics{}, fmt.Errorf("metrics %s: %w", symbol, marketdata.ErrNotSupported)
}

// LookupISIN is not served by the chart API.
func (p *Provider) LookupISIN(_ context.Context, isin string) ([]marketdata.SymbolMatch, error) {
	return nil, fmt.Errorf("isin %s: %w", isin, marketdata.ErrNotSupported)
}

// ParseChart converts a raw Yahoo response into a structured price chart.
// It validates that timestamps and close prices are present and that the
// data arrays have matching lengths.
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results: %w", marketdata.ErrNoData)
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data: %w", marketdata.ErrNoData)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices: %w", marketdata.ErrNoData)
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths: %w", marketdata.ErrInvalidResponse)
	}

	indicators := make([]Indicators, len(result.Timestamp))
	for i, v := range result.Timestamp {
		indicators[i].Date = time.Unix(v, 0).UTC()
		indicators[i].PriceOpen = result.Indicators.Quote[0].Open[i]
		indicators[i].PriceClose = result.Indicators.Quote[0].Close[i]
		indicators[i].Volume = result.Indicators.Quote[0].Volume[i]
		indicators[i].PriceHigh = result.Indicators.Quote[0].High[i]
		indicators[i].PriceLow = result.Indicators.Quote[0].Low[i]
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

// queryChart executes a chart request and parses the result.
// Required headers: a browser-like User-Agent (Yahoo blocks the default Go
// agent) and an explicit JSON Accept header.
func (p *Provider) queryChart(ctx context.Context, url string) (PriceChart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PriceChart{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return PriceChart{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return PriceChart{}, marketdata.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return PriceChart{}, marketdata.ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return PriceChart{}, marketdata.ErrNoData
	case resp.StatusCode != http.StatusOK:
		return PriceChart{}, fmt.Errorf("status %d: %w", resp.StatusCode, marketdata.ErrInvalidResponse)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PriceChart{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return PriceChart{}, fmt.Errorf("%w: %v", marketdata.ErrInvalidResponse, err)
	}

	if response.Chart.Error != nil {
		return PriceChart{}, fmt.Errorf("yahoo error %s: %w", *response.Chart.Error, marketdata.ErrInvalidResponse)
	}

	return ParseChart(response)
}

// toCandles converts parsed chart indicators into the normalized candle shape.
func toCandles(chart PriceChart) []marketdata.Candle {
	candles := make([]marketdata.Candle, len(chart.Indicators))
	for i, ind := range chart.Indicators {
		candles[i] = marketdata.Candle{
			Date:   ind.Date,
			Open:   decimal.NewFromFloat(ind.PriceOpen),
			High:   decimal.NewFromFloat(ind.PriceHigh),
			Low:    decimal.NewFromFloat(ind.PriceLow),
			Close:  decimal.NewFromFloat(ind.PriceClose),
			Volume: ind.Volume,
		}
	}
	return candles
}
