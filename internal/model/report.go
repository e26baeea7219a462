package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// YieldReport is the per-symbol reporting output consumed by presentation
// and export layers.
type YieldReport struct {
	Symbol          string          `json:"symbol"`
	AsOf            time.Time       `json:"asOf"`
	CurrentYield    decimal.Decimal `json:"currentYield"`    // percent
	YieldOnCost     decimal.Decimal `json:"yieldOnCost"`     // percent
	ProjectedAnnual decimal.Decimal `json:"projectedAnnual"` // base currency
	RateSource      RateSource      `json:"rateSource"`
	Frequency       Frequency       `json:"frequency"`
}

// ReconciliationIssue describes a position whose computed value does not
// reconcile to the portfolio aggregate within tolerance.
type ReconciliationIssue struct {
	Symbol   string          `json:"symbol"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Delta    decimal.Decimal `json:"delta"`
}

// ReconciliationResult is the outcome of a portfolio reconciliation pass.
type ReconciliationResult struct {
	AsOf       time.Time             `json:"asOf"`
	TotalValue decimal.Decimal       `json:"totalValue"`
	Positions  int                   `json:"positions"`
	Issues     []ReconciliationIssue `json:"issues"`
	Consistent bool                  `json:"consistent"`
}
