package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents a holding snapshot for a symbol on a reporting date.
// Snapshots are immutable per reporting date.
//
// Two independent FX rates hang off a position and must never be conflated:
// FXRate converts the price currency to the base/reporting currency, and
// DividendFXRate converts the dividend's native currency to the price
// currency. A nil FXRate means the price currency is the base currency. A nil
// DividendFXRate means the dividend is paid in the price currency (or that
// the position's own FXRate applies); the yield calculator owns that fallback.
type Position struct {
	ID             string           `json:"id"`
	Symbol         string           `json:"symbol"`
	Date           time.Time        `json:"date"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Price          decimal.Decimal  `json:"price"`     // price currency
	CostPrice      decimal.Decimal  `json:"costPrice"` // average cost per share, price currency
	Currency       string           `json:"currency"`  // price currency ISO code
	FXRate         *decimal.Decimal `json:"fxRate,omitempty"`
	DividendFXRate *decimal.Decimal `json:"dividendFxRate,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}
