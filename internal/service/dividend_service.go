package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/repository"
)

// recomputeParallelism bounds the per-symbol fan-out of a batch recompute.
// Provider rate limits are enforced by the providers themselves, not here.
const recomputeParallelism = 4

// DividendService handles dividend payment ingestion and annual rate
// recomputation. The recompute path feeds trailing-twelve-month analytics and
// third-party declared rates through the resolver, which guarantees that a
// stored manual override is never overwritten by automation.
type DividendService struct {
	paymentRepo *repository.PaymentRepository
	rateRepo    *repository.RateRepository
	dispatcher  *marketdata.Dispatcher
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	paymentRepo *repository.PaymentRepository,
	rateRepo *repository.RateRepository,
	dispatcher *marketdata.Dispatcher,
) *DividendService {
	return &DividendService{
		paymentRepo: paymentRepo,
		rateRepo:    rateRepo,
		dispatcher:  dispatcher,
	}
}

// RecomputeResult reports the outcome of one symbol's rate recomputation.
// A protected skip is an expected no-op recorded for audit, not a failure.
type RecomputeResult struct {
	Symbol  string                    `json:"symbol"`
	Outcome dividend.ResolveOutcome   `json:"outcome"`
	Rate    *model.AnnualDividendRate `json:"rate,omitempty"`
}

// AddPayment appends a dividend payment record. Payments are append-only;
// broker-duplicated events are deduplicated logically at computation time,
// never deleted here.
func (s *DividendService) AddPayment(ctx context.Context, p model.DividendPayment) (model.DividendPayment, error) {
	return s.paymentRepo.Create(ctx, p)
}

// GetPayments retrieves all payment records for a symbol.
func (s *DividendService) GetPayments(symbol string) ([]model.DividendPayment, error) {
	return s.paymentRepo.GetBySymbol(symbol)
}

// GetAllPayments retrieves every payment record.
func (s *DividendService) GetAllPayments() ([]model.DividendPayment, error) {
	return s.paymentRepo.GetAll()
}

// GetRate retrieves the authoritative stored rate for a symbol.
func (s *DividendService) GetRate(symbol string) (*model.AnnualDividendRate, error) {
	rate, err := s.rateRepo.Get(symbol)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRateNotFound, symbol)
	}
	return rate, nil
}

// GetAllRates retrieves every stored rate.
func (s *DividendService) GetAllRates() ([]model.AnnualDividendRate, error) {
	return s.rateRepo.GetAll()
}

// RecomputeSymbol recomputes the annual dividend rate for one symbol as of
// the given date and stores the result, unless a manual override protects
// the stored rate.
//
// Candidate rates are gathered from trailing-twelve-month payment analytics
// and from the market-data feed's declared annual rate. A feed failure
// degrades to fewer candidates rather than failing the recompute; only
// storage errors are returned.
func (s *DividendService) RecomputeSymbol(ctx context.Context, symbol string, asOf time.Time) (RecomputeResult, error) {
	payments, err := s.paymentRepo.GetBySymbol(symbol)
	if err != nil {
		return RecomputeResult{}, err
	}

	var candidates []model.AnnualDividendRate

	ttm := dividend.ComputeAnnualRate(payments, asOf)
	if ttm.SampleCount > 0 && ttm.PerShare.Sign() > 0 {
		candidates = append(candidates, model.AnnualDividendRate{
			Symbol:      symbol,
			PerShare:    ttm.PerShare,
			Frequency:   ttm.Frequency,
			Source:      model.RateSourceTTM,
			EffectiveAt: asOf,
		})
	}

	if metrics, err := s.dispatcher.FinancialMetrics(ctx, symbol); err == nil {
		if metrics.AnnualDividendRate.Sign() > 0 {
			candidates = append(candidates, model.AnnualDividendRate{
				Symbol:      symbol,
				PerShare:    metrics.AnnualDividendRate,
				Frequency:   model.FrequencyUnknown,
				Source:      model.RateSourceProvider,
				EffectiveAt: asOf,
			})
		}
	} else {
		log.Printf("DEBUG service: no provider rate for %s: %v", symbol, err)
	}

	stored, err := s.rateRepo.Get(symbol)
	if err != nil {
		return RecomputeResult{}, err
	}

	resolved, outcome := dividend.Resolve(stored, candidates...)
	result := RecomputeResult{Symbol: symbol, Outcome: outcome}

	switch outcome {
	case dividend.OutcomeUpdated:
		if err := s.rateRepo.Upsert(ctx, resolved); err != nil {
			return RecomputeResult{}, err
		}
		result.Rate = &resolved
	case dividend.OutcomeSkippedProtected:
		result.Rate = &resolved
	}

	return result, nil
}

// RecomputeAll recomputes rates for every symbol that has payment records,
// fanning out per symbol. Symbols are independent: no shared state is
// touched during computation and only the per-symbol upsert writes.
func (s *DividendService) RecomputeAll(ctx context.Context) ([]RecomputeResult, error) {
	symbols, err := s.paymentRepo.ListSymbols()
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	results := make([]RecomputeResult, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeParallelism)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			res, err := s.RecomputeSymbol(ctx, symbol, asOf)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", symbol, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRecomputeFailed, err)
	}

	return results, nil
}

// SetManualRate pins an operator-entered rate for a symbol. This is the only
// write path that may replace an existing manual rate.
func (s *DividendService) SetManualRate(ctx context.Context, rate model.AnnualDividendRate) (model.AnnualDividendRate, error) {
	rate.Source = model.RateSourceManual
	rate.EffectiveAt = time.Now().UTC()
	if rate.Frequency == "" {
		rate.Frequency = model.FrequencyUnknown
	}
	if err := s.rateRepo.Upsert(ctx, rate); err != nil {
		return model.AnnualDividendRate{}, err
	}
	return rate, nil
}

// GetManualRate retrieves the manual override for a symbol, if one exists.
func (s *DividendService) GetManualRate(symbol string) (*model.AnnualDividendRate, error) {
	rate, err := s.rateRepo.Get(symbol)
	if err != nil {
		return nil, err
	}
	if rate == nil || rate.Source != model.RateSourceManual {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOverrideNotFound, symbol)
	}
	return rate, nil
}

// ClearManualRate removes the manual override for a symbol and immediately
// recomputes, so the stored rate falls back to the best automated candidate.
func (s *DividendService) ClearManualRate(ctx context.Context, symbol string) (RecomputeResult, error) {
	stored, err := s.rateRepo.Get(symbol)
	if err != nil {
		return RecomputeResult{}, err
	}
	if stored == nil {
		return RecomputeResult{}, fmt.Errorf("%w: %s", apperrors.ErrOverrideNotFound, symbol)
	}
	if stored.Source != model.RateSourceManual {
		return RecomputeResult{}, fmt.Errorf("%w: %s rate has source %s", apperrors.ErrNotManualSource, symbol, stored.Source)
	}

	if _, err := s.rateRepo.Delete(ctx, symbol); err != nil {
		return RecomputeResult{}, err
	}
	return s.RecomputeSymbol(ctx, symbol, time.Now().UTC())
}
