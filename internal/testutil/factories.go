package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

// PaymentBuilder provides a fluent interface for creating test dividend
// payments.
//
// Example usage:
//
//	// Simple creation with defaults
//	payment := testutil.NewPayment("AAPL").Build(t, db)
//
//	// Customized payment
//	payment := testutil.NewPayment("AAPL").
//	    WithExDate("2025-05-09").
//	    WithPerShare("0.26").
//	    FromBroker().
//	    Build(t, db)
type PaymentBuilder struct {
	ID       string
	Symbol   string
	ExDate   time.Time
	PerShare decimal.Decimal
	Currency string
	Source   model.PaymentSource
}

// NewPayment creates a PaymentBuilder with sensible defaults.
func NewPayment(symbol string) *PaymentBuilder {
	return &PaymentBuilder{
		ID:       MakeID(),
		Symbol:   symbol,
		ExDate:   time.Now().UTC().AddDate(0, -1, 0),
		PerShare: decimal.RequireFromString("0.25"),
		Currency: "USD",
		Source:   model.PaymentSourceBroker,
	}
}

// WithExDate sets the ex-date from a "2006-01-02" string.
func (b *PaymentBuilder) WithExDate(date string) *PaymentBuilder {
	b.ExDate = MustDate(date)
	return b
}

// WithPerShare sets the per-share amount from a decimal string.
func (b *PaymentBuilder) WithPerShare(amount string) *PaymentBuilder {
	b.PerShare = decimal.RequireFromString(amount)
	return b
}

// WithCurrency sets the payment currency.
func (b *PaymentBuilder) WithCurrency(currency string) *PaymentBuilder {
	b.Currency = currency
	return b
}

// FromBroker marks the payment as broker-imported.
func (b *PaymentBuilder) FromBroker() *PaymentBuilder {
	b.Source = model.PaymentSourceBroker
	return b
}

// FromManual marks the payment as manually entered.
func (b *PaymentBuilder) FromManual() *PaymentBuilder {
	b.Source = model.PaymentSourceManual
	return b
}

// Build creates the payment in the database and returns it.
func (b *PaymentBuilder) Build(t *testing.T, db *sql.DB) model.DividendPayment {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO dividend_payment (id, symbol, ex_date, per_share, currency, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Symbol, b.ExDate.Format("2006-01-02"), b.PerShare.String(),
		b.Currency, string(b.Source), createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return model.DividendPayment{
		ID:        b.ID,
		Symbol:    b.Symbol,
		ExDate:    b.ExDate,
		PerShare:  b.PerShare,
		Currency:  b.Currency,
		Source:    b.Source,
		CreatedAt: createdAt,
	}
}

// RateBuilder provides a fluent interface for creating stored annual rates.
type RateBuilder struct {
	Symbol      string
	PerShare    decimal.Decimal
	Frequency   model.Frequency
	Source      model.RateSource
	EffectiveAt time.Time
}

// NewRate creates a RateBuilder with sensible defaults (a computed rate).
func NewRate(symbol string) *RateBuilder {
	return &RateBuilder{
		Symbol:      symbol,
		PerShare:    decimal.RequireFromString("1.00"),
		Frequency:   model.FrequencyQuarterly,
		Source:      model.RateSourceTTM,
		EffectiveAt: time.Now().UTC(),
	}
}

// WithPerShare sets the annualized per-share rate from a decimal string.
func (b *RateBuilder) WithPerShare(amount string) *RateBuilder {
	b.PerShare = decimal.RequireFromString(amount)
	return b
}

// WithFrequency sets the inferred payment frequency.
func (b *RateBuilder) WithFrequency(f model.Frequency) *RateBuilder {
	b.Frequency = f
	return b
}

// Manual marks the rate as a pinned operator override.
func (b *RateBuilder) Manual() *RateBuilder {
	b.Source = model.RateSourceManual
	return b
}

// FromProvider marks the rate as a feed-declared rate.
func (b *RateBuilder) FromProvider() *RateBuilder {
	b.Source = model.RateSourceProvider
	return b
}

// Build creates the rate in the database and returns it.
func (b *RateBuilder) Build(t *testing.T, db *sql.DB) model.AnnualDividendRate {
	t.Helper()

	query := `
		INSERT INTO annual_dividend_rate (symbol, per_share, frequency, source, effective_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.Symbol, b.PerShare.String(), string(b.Frequency), string(b.Source),
		b.EffectiveAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test rate: %v", err)
	}

	return model.AnnualDividendRate{
		Symbol:      b.Symbol,
		PerShare:    b.PerShare,
		Frequency:   b.Frequency,
		Source:      b.Source,
		EffectiveAt: b.EffectiveAt,
	}
}

// PositionBuilder provides a fluent interface for creating position
// snapshots.
type PositionBuilder struct {
	ID             string
	Symbol         string
	Date           time.Time
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	CostPrice      decimal.Decimal
	Currency       string
	FXRate         *decimal.Decimal
	DividendFXRate *decimal.Decimal
}

// NewPosition creates a PositionBuilder with sensible defaults: 100 shares
// of a USD symbol priced at 50, no FX conversion.
func NewPosition(symbol string) *PositionBuilder {
	return &PositionBuilder{
		ID:        MakeID(),
		Symbol:    symbol,
		Date:      time.Now().UTC().Truncate(24 * time.Hour),
		Quantity:  decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(50),
		CostPrice: decimal.NewFromInt(40),
		Currency:  "USD",
	}
}

// WithDate sets the reporting date from a "2006-01-02" string.
func (b *PositionBuilder) WithDate(date string) *PositionBuilder {
	b.Date = MustDate(date)
	return b
}

// WithQuantity sets the share quantity from a decimal string.
func (b *PositionBuilder) WithQuantity(quantity string) *PositionBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithPrice sets the price from a decimal string, in the position currency.
func (b *PositionBuilder) WithPrice(price string) *PositionBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// WithCostPrice sets the cost basis per share from a decimal string.
func (b *PositionBuilder) WithCostPrice(price string) *PositionBuilder {
	b.CostPrice = decimal.RequireFromString(price)
	return b
}

// WithCurrency sets the position currency.
func (b *PositionBuilder) WithCurrency(currency string) *PositionBuilder {
	b.Currency = currency
	return b
}

// WithFXRate sets the position-currency-to-base FX rate.
func (b *PositionBuilder) WithFXRate(rate string) *PositionBuilder {
	d := decimal.RequireFromString(rate)
	b.FXRate = &d
	return b
}

// WithDividendFXRate sets the explicit dividend-currency FX rate.
func (b *PositionBuilder) WithDividendFXRate(rate string) *PositionBuilder {
	d := decimal.RequireFromString(rate)
	b.DividendFXRate = &d
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO position (id, symbol, date, quantity, price, cost_price, currency, fx_rate, dividend_fx_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var fxRate, divFXRate any
	if b.FXRate != nil {
		fxRate = b.FXRate.String()
	}
	if b.DividendFXRate != nil {
		divFXRate = b.DividendFXRate.String()
	}

	_, err := db.Exec(query,
		b.ID, b.Symbol, b.Date.Format("2006-01-02"), b.Quantity.String(),
		b.Price.String(), b.CostPrice.String(), b.Currency,
		fxRate, divFXRate, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return model.Position{
		ID:             b.ID,
		Symbol:         b.Symbol,
		Date:           b.Date,
		Quantity:       b.Quantity,
		Price:          b.Price,
		CostPrice:      b.CostPrice,
		Currency:       b.Currency,
		FXRate:         b.FXRate,
		DividendFXRate: b.DividendFXRate,
		CreatedAt:      createdAt,
	}
}

// RecentExDates returns n quarterly ex-date strings counting back from two
// months ago. All dates land inside the trailing twelve-month window of a
// recompute that runs "now", for tests that cannot pin an as-of date.
func RecentExDates(n int) []string {
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, time.Now().UTC().AddDate(0, -2-3*i, 0).Format("2006-01-02"))
	}
	return dates
}

// MustDate parses a "2006-01-02" date string, failing loudly on bad input.
func MustDate(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("testutil: bad date literal " + date)
	}
	return d
}
