// Package request defines the JSON request bodies accepted by the API.
// Monetary fields are decimal-typed so amounts survive the wire exactly.
package request

import "github.com/shopspring/decimal"

// CreatePaymentRequest is the body for recording a dividend payment.
// Source defaults to "manual" when omitted; import collaborators tag their
// records "broker" or "provider".
type CreatePaymentRequest struct {
	Symbol   string          `json:"symbol"`
	ExDate   string          `json:"exDate"` // YYYY-MM-DD
	PerShare decimal.Decimal `json:"perShare"`
	Currency string          `json:"currency"`
	Source   string          `json:"source,omitempty"`
}
