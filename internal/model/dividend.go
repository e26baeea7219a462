package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSource identifies where a dividend payment record came from.
type PaymentSource string

const (
	PaymentSourceBroker   PaymentSource = "broker"
	PaymentSourceManual   PaymentSource = "manual"
	PaymentSourceProvider PaymentSource = "provider"
)

// DividendPayment represents a single per-event dividend payment record.
// Payments are append-only: once recorded they are never mutated. Brokers
// emit a payment-in-lieu record and a withholding-adjustment record for one
// underlying event, both sharing ex-date and per-share amount, so two payments
// with the same (symbol, ex-date, per-share) are the same economic event.
type DividendPayment struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	ExDate    time.Time       `json:"exDate"`
	PerShare  decimal.Decimal `json:"perShare"` // amount per share, payment currency
	Currency  string          `json:"currency"` // ISO code
	Source    PaymentSource   `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Frequency is the inferred payment cadence of a dividend-paying symbol.
// It is a display label only and never feeds rate arithmetic.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi_annual"
	FrequencyAnnual     Frequency = "annual"
	FrequencyIrregular  Frequency = "irregular"
	FrequencyUnknown    Frequency = "unknown"
)

// RateSource identifies which source produced an annual dividend rate.
type RateSource string

const (
	// RateSourceManual is a pinned operator override. It outranks every
	// computed or third-party rate and is only changed by another manual edit.
	RateSourceManual RateSource = "manual"

	// RateSourceTTM is a rate computed from trailing-twelve-month payments.
	RateSourceTTM RateSource = "ttm"

	// RateSourceProvider is an annual rate declared by a market-data feed.
	RateSourceProvider RateSource = "provider"
)

// AnnualDividendRate is the annualized per-share dividend rate for a symbol.
type AnnualDividendRate struct {
	Symbol      string          `json:"symbol"`
	PerShare    decimal.Decimal `json:"perShare"` // annualized, dividend currency
	Frequency   Frequency       `json:"frequency"`
	Source      RateSource      `json:"source"`
	EffectiveAt time.Time       `json:"effectiveAt"`
}
