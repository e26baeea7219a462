package request

import "github.com/shopspring/decimal"

// UpsertPositionRequest is the body for storing a position snapshot.
// FXRate converts the price currency to base; DividendFXRate converts the
// dividend currency to the price currency. Both are optional and independent.
type UpsertPositionRequest struct {
	Symbol         string           `json:"symbol"`
	Date           string           `json:"date"` // YYYY-MM-DD
	Quantity       decimal.Decimal  `json:"quantity"`
	Price          decimal.Decimal  `json:"price"`
	CostPrice      decimal.Decimal  `json:"costPrice"`
	Currency       string           `json:"currency"`
	FXRate         *decimal.Decimal `json:"fxRate,omitempty"`
	DividendFXRate *decimal.Decimal `json:"dividendFxRate,omitempty"`
}
