// Package eodhd implements the marketdata.Provider contract on top of the
// EODHD (eodhd.com) REST API. EODHD serves every capability, including the
// declared annual dividend rate used as the lowest-precedence rate source,
// but requires an API key.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/marketdata"
)

const baseURL = "https://eodhd.com/api"

// Provider is an EODHD backed market data provider.
type Provider struct {
	apiKey     string
	httpClient *http.Client
}

// New creates an EODHD provider with the given API key.
func New(apiKey string) *Provider {
	return &Provider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name implements marketdata.Provider.
func (p *Provider) Name() string { return "eodhd" }

type realTimeResponse struct {
	Code      string  `json:"code"`
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

// GetQuote fetches the real-time (delayed) price for a symbol.
// EODHD does not return a currency on this endpoint, so Currency is left
// empty and callers fall back to the position's own currency.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (marketdata.Quote, error) {
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", baseURL, url.PathEscape(symbol), p.apiKey)

	var payload realTimeResponse
	if err := p.getJSON(ctx, addr, &payload); err != nil {
		return marketdata.Quote{}, err
	}
	if payload.Close == 0 {
		return marketdata.Quote{}, fmt.Errorf("quote %s: %w", symbol, marketdata.ErrNoData)
	}

	return marketdata.Quote{
		Symbol:   symbol,
		Price:    decimal.NewFromFloat(payload.Close),
		AsOf:     time.Unix(payload.Timestamp, 0).UTC(),
		Provider: p.Name(),
	}, nil
}

type eodBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// GetCandles fetches daily end-of-day bars for a symbol within a date range.
func (p *Provider) GetCandles(ctx context.Context, symbol string, from, to time.Time, _ marketdata.CandleOptions) ([]marketdata.Candle, error) {
	addr := fmt.Sprintf(
		"%s/eod/%s?fmt=json&from=%s&to=%s&api_token=%s",
		baseURL, url.PathEscape(symbol),
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		p.apiKey,
	)

	bars := make([]eodBar, 0)
	if err := p.getJSON(ctx, addr, &bars); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("candles %s: %w", symbol, marketdata.ErrNoData)
	}

	candles := make([]marketdata.Candle, 0, len(bars))
	for _, bar := range bars {
		day, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			return nil, fmt.Errorf("candles %s: bad date %q: %w", symbol, bar.Date, marketdata.ErrInvalidResponse)
		}
		candles = append(candles, marketdata.Candle{
			Date:   day,
			Open:   decimal.NewFromFloat(bar.Open),
			High:   decimal.NewFromFloat(bar.High),
			Low:    decimal.NewFromFloat(bar.Low),
			Close:  decimal.NewFromFloat(bar.Close),
			Volume: bar.Volume,
		})
	}
	return candles, nil
}

// GetForexCandles fetches daily FX rates for a pair such as "EURUSD".
// EODHD serves forex through the EOD endpoint under the FOREX virtual
// exchange ("EURUSD.FOREX").
func (p *Provider) GetForexCandles(ctx context.Context, pair string, from, to time.Time) ([]marketdata.Candle, error) {
	return p.GetCandles(ctx, pair+".FOREX", from, to, marketdata.CandleOptions{})
}

type fundamentalsResponse struct {
	General struct {
		Code         string `json:"Code"`
		Name         string `json:"Name"`
		Exchange     string `json:"Exchange"`
		CurrencyCode string `json:"CurrencyCode"`
		CountryName  string `json:"CountryName"`
		Industry     string `json:"Industry"`
	} `json:"General"`
	Highlights struct {
		DividendShare float64 `json:"DividendShare"`
		DividendYield float64 `json:"DividendYield"`
	} `json:"Highlights"`
	SplitsDividends struct {
		ForwardAnnualDividendRate float64 `json:"ForwardAnnualDividendRate"`
		PayoutRatio               float64 `json:"PayoutRatio"`
	} `json:"SplitsDividends"`
}

// GetCompanyProfile fetches descriptive company data from the fundamentals
// endpoint.
func (p *Provider) GetCompanyProfile(ctx context.Context, symbol string) (marketdata.CompanyProfile, error) {
	payload, err := p.fundamentals(ctx, symbol)
	if err != nil {
		return marketdata.CompanyProfile{}, err
	}
	if payload.General.Code == "" {
		return marketdata.CompanyProfile{}, fmt.Errorf("profile %s: %w", symbol, marketdata.ErrNoData)
	}

	return marketdata.CompanyProfile{
		Symbol:   symbol,
		Name:     payload.General.Name,
		Exchange: payload.General.Exchange,
		Currency: payload.General.CurrencyCode,
		Country:  payload.General.CountryName,
		Industry: payload.General.Industry,
	}, nil
}

// GetFinancialMetrics fetches dividend fundamentals for a symbol. The
// declared forward annual rate is preferred; the trailing DividendShare
// highlight is the fallback when the feed omits it.
func (p *Provider) GetFinancialMetrics(ctx context.Context, symbol string) (marketdata.FinancialMetrics, error) {
	payload, err := p.fundamentals(ctx, symbol)
	if err != nil {
		return marketdata.FinancialMetrics{}, err
	}

	rate := payload.SplitsDividends.ForwardAnnualDividendRate
	if rate == 0 {
		rate = payload.Highlights.DividendShare
	}
	if rate == 0 {
		return marketdata.FinancialMetrics{}, fmt.Errorf("metrics %s: %w", symbol, marketdata.ErrNoData)
	}

	return marketdata.FinancialMetrics{
		Symbol:             symbol,
		AnnualDividendRate: decimal.NewFromFloat(rate),
		DividendYield:      decimal.NewFromFloat(payload.Highlights.DividendYield),
		PayoutRatio:        decimal.NewFromFloat(payload.SplitsDividends.PayoutRatio),
		Currency:           payload.General.CurrencyCode,
	}, nil
}

type searchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// LookupISIN resolves an ISIN to the tickers EODHD knows for it.
func (p *Provider) LookupISIN(ctx context.Context, isin string) ([]marketdata.SymbolMatch, error) {
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s", baseURL, url.PathEscape(isin), p.apiKey)

	results := make([]searchResult, 0)
	if err := p.getJSON(ctx, addr, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("isin %s: %w", isin, marketdata.ErrNoData)
	}

	matches := make([]marketdata.SymbolMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, marketdata.SymbolMatch{
			Symbol:   r.Code + "." + r.Exchange,
			Name:     r.Name,
			Exchange: r.Exchange,
			Currency: r.Currency,
			ISIN:     r.ISIN,
		})
	}
	return matches, nil
}

func (p *Provider) fundamentals(ctx context.Context, symbol string) (fundamentalsResponse, error) {
	addr := fmt.Sprintf("%s/fundamentals/%s?fmt=json&api_token=%s", baseURL, url.PathEscape(symbol), p.apiKey)

	var payload fundamentalsResponse
	if err := p.getJSON(ctx, addr, &payload); err != nil {
		return fundamentalsResponse{}, err
	}
	return payload, nil
}

// getJSON performs an HTTP GET and unmarshals the JSON response into data,
// mapping HTTP status codes onto the provider failure taxonomy.
func (p *Provider) getJSON(ctx context.Context, addr string, data any) error {
	if p.apiKey == "" {
		return fmt.Errorf("no API key configured: %w", marketdata.ErrAccessDenied)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return marketdata.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return marketdata.ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return marketdata.ErrNoData
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("status %d: %w", resp.StatusCode, marketdata.ErrInvalidResponse)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("%w: %v", marketdata.ErrInvalidResponse, err)
	}
	return nil
}
