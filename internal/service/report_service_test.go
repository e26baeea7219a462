package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

// TestReportService_YieldReport tests the reporting output for one symbol.
func TestReportService_YieldReport(t *testing.T) {
	ctx := context.Background()
	asOf := testutil.MustDate("2025-06-30")

	t.Run("uses live quote price when a provider answers", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := &testutil.FakeProvider{
			ProviderName: "live",
			QuoteFunc: func(symbol string) (marketdata.Quote, error) {
				return marketdata.Quote{Symbol: symbol, Price: decimal.NewFromInt(100), Currency: "USD"}, nil
			},
		}
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher(provider))
		testutil.NewPosition("AAPL").WithDate("2025-06-01").WithPrice("50").Build(t, db)
		testutil.NewRate("AAPL").WithPerShare("1.00").Build(t, db)

		// Execute
		report, err := svc.YieldReport(ctx, "AAPL", asOf)

		// Assert
		if err != nil {
			t.Fatalf("YieldReport failed: %v", err)
		}
		// 1.00 / 100 × 100 = 1%, not 1.00 / 50 × 100 = 2%.
		if !report.CurrentYield.Equal(decimal.NewFromInt(1)) {
			t.Errorf("Expected current yield 1%% from live quote, got %s", report.CurrentYield)
		}
		if report.RateSource != model.RateSourceTTM {
			t.Errorf("Expected rate source ttm, got %s", report.RateSource)
		}
	})

	t.Run("falls back to snapshot price when all providers fail", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher())
		testutil.NewPosition("AAPL").WithDate("2025-06-01").WithPrice("50").Build(t, db)
		testutil.NewRate("AAPL").WithPerShare("1.00").Build(t, db)

		// Execute
		report, err := svc.YieldReport(ctx, "AAPL", asOf)

		// Assert
		if err != nil {
			t.Fatalf("YieldReport failed: %v", err)
		}
		if !report.CurrentYield.Equal(decimal.NewFromInt(2)) {
			t.Errorf("Expected current yield 2%% from snapshot price, got %s", report.CurrentYield)
		}
	})

	// WHY: an absent rate must degrade to zero figures, not an error. A
	// dashboard figure of 0 is preferable to a crashed render.
	t.Run("degrades to zero figures when no rate is stored", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher())
		testutil.NewPosition("NEW").WithDate("2025-06-01").Build(t, db)

		// Execute
		report, err := svc.YieldReport(ctx, "NEW", asOf)

		// Assert
		if err != nil {
			t.Fatalf("YieldReport failed: %v", err)
		}
		if report.CurrentYield.Sign() != 0 || report.ProjectedAnnual.Sign() != 0 {
			t.Errorf("Expected zero figures, got yield %s projected %s",
				report.CurrentYield, report.ProjectedAnnual)
		}
		if report.Frequency != model.FrequencyUnknown {
			t.Errorf("Expected frequency unknown, got %s", report.Frequency)
		}
	})

	t.Run("returns not found for unknown symbols", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher())

		// Execute + Assert
		if _, err := svc.YieldReport(ctx, "MISSING", asOf); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})

	// WHY: the historical failure mode is a cross-currency position whose
	// dividend FX is silently dropped, inflating the yield by an order of
	// magnitude. SEK dividends on a EUR-priced position with div FX 0.087
	// must report ~2.50%, not ~28%.
	t.Run("cross-currency dividend uses the explicit dividend FX", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher())
		testutil.NewPosition("TELIA").
			WithDate("2025-06-01").
			WithPrice("7.10").
			WithCurrency("EUR").
			WithDividendFXRate("0.087").
			Build(t, db)
		testutil.NewRate("TELIA").Manual().WithPerShare("2.04").Build(t, db)

		// Execute
		report, err := svc.YieldReport(ctx, "TELIA", asOf)

		// Assert
		if err != nil {
			t.Fatalf("YieldReport failed: %v", err)
		}
		low := decimal.RequireFromString("2.49")
		high := decimal.RequireFromString("2.51")
		if report.CurrentYield.LessThan(low) || report.CurrentYield.GreaterThan(high) {
			t.Errorf("Expected current yield ~2.50%%, got %s", report.CurrentYield)
		}
	})
}

// TestReportService_PortfolioYield tests the portfolio-wide report.
func TestReportService_PortfolioYield(t *testing.T) {
	t.Run("reports the latest snapshot per held symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, testutil.NewFakeDispatcher())
		testutil.NewPosition("AAPL").WithDate("2025-05-01").WithPrice("40").Build(t, db)
		testutil.NewPosition("AAPL").WithDate("2025-06-01").WithPrice("50").Build(t, db)
		testutil.NewPosition("MSFT").WithDate("2025-06-01").WithPrice("200").Build(t, db)
		testutil.NewRate("AAPL").WithPerShare("1.00").Build(t, db)

		// Execute
		reports, err := svc.PortfolioYield(context.Background(), testutil.MustDate("2025-06-30"))

		// Assert
		if err != nil {
			t.Fatalf("PortfolioYield failed: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("Expected 2 reports, got %d", len(reports))
		}
		// Sorted by symbol; AAPL must use the June snapshot.
		if !reports[0].CurrentYield.Equal(decimal.NewFromInt(2)) {
			t.Errorf("Expected AAPL yield 2%% from latest snapshot, got %s", reports[0].CurrentYield)
		}
		if reports[1].CurrentYield.Sign() != 0 {
			t.Errorf("Expected MSFT yield 0 (no rate), got %s", reports[1].CurrentYield)
		}
	})
}
