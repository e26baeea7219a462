package service

import (
	"context"
	"log"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/repository"
)

// ReportService produces the yield figures consumed by presentation and
// export layers. Prices come from the dispatcher when a provider answers and
// fall back to the stored position snapshot otherwise; an absent rate
// degrades to zero figures rather than an error, since a dashboard showing 0
// beats a crashed render.
type ReportService struct {
	rateRepo     *repository.RateRepository
	positionRepo *repository.PositionRepository
	dispatcher   *marketdata.Dispatcher
}

// NewReportService creates a new ReportService with the provided dependencies.
func NewReportService(
	rateRepo *repository.RateRepository,
	positionRepo *repository.PositionRepository,
	dispatcher *marketdata.Dispatcher,
) *ReportService {
	return &ReportService{
		rateRepo:     rateRepo,
		positionRepo: positionRepo,
		dispatcher:   dispatcher,
	}
}

// YieldReport builds the yield report for one symbol as of the given date.
// Returns apperrors.ErrPositionNotFound when no snapshot exists for the
// symbol on or before that date.
func (s *ReportService) YieldReport(ctx context.Context, symbol string, asOf time.Time) (model.YieldReport, error) {
	pos, err := s.positionRepo.GetLatest(symbol, asOf)
	if err != nil {
		return model.YieldReport{}, err
	}
	return s.buildReport(ctx, pos, asOf)
}

// PortfolioYield builds yield reports for every held symbol as of the given
// date, using the latest snapshot per symbol.
func (s *ReportService) PortfolioYield(ctx context.Context, asOf time.Time) ([]model.YieldReport, error) {
	positions, err := s.positionRepo.ListForDate(asOf)
	if err != nil {
		return nil, err
	}

	reports := make([]model.YieldReport, 0, len(positions))
	for _, pos := range positions {
		report, err := s.buildReport(ctx, pos, asOf)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *ReportService) buildReport(ctx context.Context, pos model.Position, asOf time.Time) (model.YieldReport, error) {
	report := model.YieldReport{
		Symbol:    pos.Symbol,
		AsOf:      asOf,
		Frequency: model.FrequencyUnknown,
	}

	rate, err := s.rateRepo.Get(pos.Symbol)
	if err != nil {
		return model.YieldReport{}, err
	}
	if rate == nil {
		// No rate for the symbol: every figure degrades to zero.
		return report, nil
	}
	report.RateSource = rate.Source
	report.Frequency = rate.Frequency

	in := dividend.InputFromPosition(*rate, pos)
	if quote, err := s.dispatcher.Quote(ctx, pos.Symbol); err == nil && quote.Price.Sign() > 0 {
		in.Price = quote.Price
	} else if err != nil {
		log.Printf("DEBUG service: no live quote for %s, using snapshot price: %v", pos.Symbol, err)
	}

	result := dividend.ComputeYield(in)
	report.CurrentYield = result.CurrentYield
	report.YieldOnCost = result.YieldOnCost
	report.ProjectedAnnual = result.ProjectedAnnual

	return report, nil
}
