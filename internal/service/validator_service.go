package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/repository"
)

// reconcileEpsilon is the rounding tolerance for the reconciliation
// identity. A delta beyond it means two computations diverged, which is a
// defect, not a data issue.
var reconcileEpsilon = decimal.New(1, -6)

// ValidatorService cross-checks computed aggregates against the accounting
// identity they must satisfy. For every held position it recomputes the
// yield figures and asserts
//
//	projectedAnnual / (price × quantity × posFX) == currentYield / 100
//
// within tolerance. Mismatches are reported, never fixed: the point is to
// catch divergent FX fallbacks between the two figures before they reach a
// dashboard.
type ValidatorService struct {
	rateRepo     *repository.RateRepository
	positionRepo *repository.PositionRepository
}

// NewValidatorService creates a new ValidatorService with the provided repositories.
func NewValidatorService(
	rateRepo *repository.RateRepository,
	positionRepo *repository.PositionRepository,
) *ValidatorService {
	return &ValidatorService{
		rateRepo:     rateRepo,
		positionRepo: positionRepo,
	}
}

// Reconcile runs the reconciliation pass over the latest snapshot of every
// held symbol on or before asOf. TotalValue sums quantity × price × posFX
// per position, in base currency, for comparison against externally reported
// aggregates.
func (s *ValidatorService) Reconcile(asOf time.Time) (model.ReconciliationResult, error) {
	positions, err := s.positionRepo.ListForDate(asOf)
	if err != nil {
		return model.ReconciliationResult{}, err
	}

	result := model.ReconciliationResult{
		AsOf:   asOf,
		Issues: make([]model.ReconciliationIssue, 0),
	}

	for _, pos := range positions {
		rate, err := s.rateRepo.Get(pos.Symbol)
		if err != nil {
			return model.ReconciliationResult{}, err
		}

		in := dividend.InputFromPosition(deref(rate), pos)
		value := pos.Quantity.Mul(pos.Price).Mul(in.PosFX())
		result.TotalValue = result.TotalValue.Add(value)
		result.Positions++

		if rate == nil || value.Sign() == 0 {
			// Nothing to reconcile: both sides of the identity are zero.
			continue
		}

		yield := dividend.ComputeYield(in)
		expected := yield.CurrentYield.Div(decimal.NewFromInt(100))
		actual := yield.ProjectedAnnual.Div(value)
		if delta := actual.Sub(expected).Abs(); delta.GreaterThan(reconcileEpsilon) {
			result.Issues = append(result.Issues, model.ReconciliationIssue{
				Symbol:   pos.Symbol,
				Expected: expected,
				Actual:   actual,
				Delta:    delta,
			})
		}
	}

	result.Consistent = len(result.Issues) == 0
	return result, nil
}

func deref(rate *model.AnnualDividendRate) model.AnnualDividendRate {
	if rate == nil {
		return model.AnnualDividendRate{}
	}
	return *rate
}
