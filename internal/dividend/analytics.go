// Package dividend contains the dividend analytics core: trailing-twelve-month
// rate computation, authoritative rate resolution, and FX-consistent yield
// calculation. Everything here is a pure function over immutable inputs and
// safe to call concurrently for different symbols.
package dividend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

// TTMResult is the outcome of a trailing-twelve-month rate computation.
type TTMResult struct {
	PerShare    decimal.Decimal `json:"perShare"`    // annualized per-share rate, dividend currency
	Frequency   model.Frequency `json:"frequency"`   // display label only, never fed back into arithmetic
	SampleCount int             `json:"sampleCount"` // distinct ex-dates in the window
}

// Ratio bands for cadence classification. Quarterly is the default because
// it is by far the most common cadence in the data.
var (
	bandMonthly   = decimal.NewFromFloat(1.8)
	bandQuarterly = decimal.NewFromFloat(1.3)
	bandAnnual    = decimal.NewFromFloat(0.7)
)

// ComputeAnnualRate computes the trailing-twelve-month per-share dividend
// rate from raw payment records, ending at asOf.
//
// Payments are deduplicated on (ex-date, per-share): brokers emit a
// payment-in-lieu record and a withholding-adjustment record for one
// underlying event, both carrying the same date and amount, and only one of
// them may be summed. Payments sharing a date but differing in amount (a
// regular plus a special dividend) are genuinely distinct and both kept.
//
// The deduplicated within-window total is used as-is; observing fewer
// payment dates than the nominal cadence implies does not scale the total
// up. Extrapolating on top of a duplicate-count bug is exactly how rates
// ended up roughly doubled before.
//
// Every code path that recomputes rates from historical payments, live or
// backfill, must go through this function.
func ComputeAnnualRate(payments []model.DividendPayment, asOf time.Time) TTMResult {
	windowStart := asOf.AddDate(-1, 0, 0)

	total, dates := dedupAndSum(payments, windowStart, asOf)

	// Trailing annual reference: the deduplicated total of the 12 months
	// preceding the current window.
	reference, _ := dedupAndSum(payments, windowStart.AddDate(-1, 0, 0), windowStart)

	return TTMResult{
		PerShare:    total,
		Frequency:   InferFrequency(total, reference),
		SampleCount: dates,
	}
}

// dedupAndSum sums deduplicated per-share amounts for payments with
// windowStart < exDate <= windowEnd and counts distinct ex-dates.
func dedupAndSum(payments []model.DividendPayment, windowStart, windowEnd time.Time) (decimal.Decimal, int) {
	type dayAmounts struct {
		amounts []decimal.Decimal
	}
	byDate := make(map[string]*dayAmounts)

	total := decimal.Zero
	for _, p := range payments {
		if !p.ExDate.After(windowStart) || p.ExDate.After(windowEnd) {
			continue
		}

		day := p.ExDate.Format("2006-01-02")
		entry := byDate[day]
		if entry == nil {
			entry = &dayAmounts{}
			byDate[day] = entry
		}

		// Amount equality is checked with decimal comparison, not string
		// keys, so "0.25" and "0.250" collapse to one event.
		duplicate := false
		for _, seen := range entry.amounts {
			if seen.Equal(p.PerShare) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		entry.amounts = append(entry.amounts, p.PerShare)
		total = total.Add(p.PerShare)
	}

	return total, len(byDate)
}

// InferFrequency classifies the payment cadence by comparing a nominal
// annual rate against a trailing annual reference. The ratio bands are a
// best-effort heuristic feeding a display label; callers must never let the
// result feed back into dedup or extrapolation arithmetic.
func InferFrequency(nominalAnnual, trailingAnnual decimal.Decimal) model.Frequency {
	if nominalAnnual.Sign() <= 0 {
		return model.FrequencyUnknown
	}
	if trailingAnnual.Sign() <= 0 {
		// No trailing reference to compare against.
		return model.FrequencyQuarterly
	}

	ratio := nominalAnnual.Div(trailingAnnual)
	switch {
	case ratio.GreaterThan(bandMonthly):
		return model.FrequencyMonthly
	case ratio.GreaterThan(bandQuarterly):
		return model.FrequencyQuarterly
	case ratio.GreaterThan(bandAnnual):
		return model.FrequencyAnnual
	default:
		return model.FrequencyQuarterly
	}
}
