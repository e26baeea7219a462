package dividend

import (
	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// YieldInput carries everything the yield formulas consume. The two FX
// rates are independent and must not be conflated: DividendFXRate converts
// the dividend's native currency to the price currency, FXRate converts the
// price currency to the base/reporting currency. Nil means "absent".
type YieldInput struct {
	AnnualPerShare decimal.Decimal // annualized per-share rate, dividend currency
	Quantity       decimal.Decimal
	Price          decimal.Decimal // price currency
	CostPrice      decimal.Decimal // price currency
	FXRate         *decimal.Decimal
	DividendFXRate *decimal.Decimal
}

// YieldResult holds the three yield figures for one position.
type YieldResult struct {
	CurrentYield    decimal.Decimal `json:"currentYield"`    // percent
	YieldOnCost     decimal.Decimal `json:"yieldOnCost"`     // percent
	ProjectedAnnual decimal.Decimal `json:"projectedAnnual"` // price currency × quantity
}

// divFX resolves the dividend FX rate: the explicit dividend rate if
// present, else the position's own FX rate, else 1.
//
// Every figure in ComputeYield must derive its dividend FX from this one
// rule. Using a different fallback per figure (treating an absent dividend
// rate as 1.0 in one place and as the position rate in another) silently
// inflated same-currency yields by the FX ratio and cross-currency yields
// by an order of magnitude.
func (in YieldInput) divFX() decimal.Decimal {
	if in.DividendFXRate != nil {
		return *in.DividendFXRate
	}
	if in.FXRate != nil {
		return *in.FXRate
	}
	return decimal.NewFromInt(1)
}

// PosFX resolves the position FX rate; absent means no conversion needed.
// Exported so reconciliation passes value positions with the identical rule.
func (in YieldInput) PosFX() decimal.Decimal {
	if in.FXRate != nil {
		return *in.FXRate
	}
	return decimal.NewFromInt(1)
}

// ComputeYield combines the resolved annual rate, current price, and FX
// rates into current yield, yield on cost, and projected annual income:
//
//	currentYield    = (annualPerShare × divFX) / (price × posFX) × 100
//	projectedAnnual = annualPerShare × quantity × divFX
//	yieldOnCost     = (annualPerShare × divFX) / (costPrice × posFX) × 100
//
// Zero or absent quantity, price, or rate degrades to a zero figure rather
// than a division error; a dashboard showing 0 beats a crashed render.
// The figures satisfy, within rounding:
//
//	projectedAnnual / (price × quantity × posFX) == currentYield / 100
func ComputeYield(in YieldInput) YieldResult {
	var out YieldResult

	if in.AnnualPerShare.Sign() <= 0 {
		return out
	}

	divFX := in.divFX()
	posFX := in.PosFX()
	annual := in.AnnualPerShare.Mul(divFX)

	if denom := in.Price.Mul(posFX); denom.Sign() > 0 {
		out.CurrentYield = annual.Div(denom).Mul(hundred)
	}
	if denom := in.CostPrice.Mul(posFX); denom.Sign() > 0 {
		out.YieldOnCost = annual.Div(denom).Mul(hundred)
	}
	if in.Quantity.Sign() > 0 {
		out.ProjectedAnnual = in.AnnualPerShare.Mul(in.Quantity).Mul(divFX)
	}

	return out
}

// InputFromPosition builds a YieldInput from a stored rate and a position
// snapshot.
func InputFromPosition(rate model.AnnualDividendRate, pos model.Position) YieldInput {
	return YieldInput{
		AnnualPerShare: rate.PerShare,
		Quantity:       pos.Quantity,
		Price:          pos.Price,
		CostPrice:      pos.CostPrice,
		FXRate:         pos.FXRate,
		DividendFXRate: pos.DividendFXRate,
	}
}
