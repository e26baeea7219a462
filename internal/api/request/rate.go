package request

import "github.com/shopspring/decimal"

// SetOverrideRequest is the body for pinning a manual annual rate on a
// symbol. Frequency is optional and defaults to "unknown".
type SetOverrideRequest struct {
	PerShare  decimal.Decimal `json:"perShare"`
	Frequency string          `json:"frequency,omitempty"`
}
