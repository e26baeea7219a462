package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

// TestDividendService_RecomputeSymbol tests the full recompute path: payment
// analytics, provider candidates, resolution, and storage.
func TestDividendService_RecomputeSymbol(t *testing.T) {
	ctx := context.Background()
	asOf := testutil.MustDate("2025-06-30")

	t.Run("computes and stores ttm rate from payments", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		for _, date := range []string{"2024-08-09", "2024-11-08", "2025-02-07", "2025-05-09"} {
			testutil.NewPayment("AAPL").WithExDate(date).WithPerShare("0.25").Build(t, db)
		}

		// Execute
		result, err := svc.RecomputeSymbol(ctx, "AAPL", asOf)

		// Assert
		if err != nil {
			t.Fatalf("RecomputeSymbol failed: %v", err)
		}
		if result.Outcome != dividend.OutcomeUpdated {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeUpdated, result.Outcome)
		}

		stored, err := svc.GetRate("AAPL")
		if err != nil {
			t.Fatalf("GetRate failed: %v", err)
		}
		if !stored.PerShare.Equal(decimal.RequireFromString("1.00")) {
			t.Errorf("Expected stored rate 1.00, got %s", stored.PerShare)
		}
		if stored.Source != model.RateSourceTTM {
			t.Errorf("Expected source ttm, got %s", stored.Source)
		}
	})

	// WHY: a stored manual rate pins a human correction for symbols whose
	// computed or feed rate is structurally wrong. The automated recompute
	// must leave it untouched no matter what the analytics produce, and
	// report the skip for audit rather than erroring.
	t.Run("manual override survives recompute unchanged", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		testutil.NewRate("MAIN").Manual().WithPerShare("2.46").Build(t, db)
		for _, date := range []string{"2024-08-09", "2024-11-08", "2025-02-07", "2025-05-09"} {
			testutil.NewPayment("MAIN").WithExDate(date).WithPerShare("0.25").Build(t, db)
		}

		// Execute
		result, err := svc.RecomputeSymbol(ctx, "MAIN", asOf)

		// Assert
		if err != nil {
			t.Fatalf("RecomputeSymbol failed: %v", err)
		}
		if result.Outcome != dividend.OutcomeSkippedProtected {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeSkippedProtected, result.Outcome)
		}

		stored, err := svc.GetRate("MAIN")
		if err != nil {
			t.Fatalf("GetRate failed: %v", err)
		}
		if !stored.PerShare.Equal(decimal.RequireFromString("2.46")) {
			t.Errorf("Manual rate was clobbered: expected 2.46, got %s", stored.PerShare)
		}
		if stored.Source != model.RateSourceManual {
			t.Errorf("Expected source manual, got %s", stored.Source)
		}
	})

	t.Run("uses provider declared rate when no payments exist", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := &testutil.FakeProvider{
			ProviderName: "feed",
			MetricsFunc: func(symbol string) (marketdata.FinancialMetrics, error) {
				return marketdata.FinancialMetrics{
					Symbol:             symbol,
					AnnualDividendRate: decimal.RequireFromString("3.00"),
				}, nil
			},
		}
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher(provider))

		// Execute
		result, err := svc.RecomputeSymbol(ctx, "NODIV", asOf)

		// Assert
		if err != nil {
			t.Fatalf("RecomputeSymbol failed: %v", err)
		}
		if result.Outcome != dividend.OutcomeUpdated {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeUpdated, result.Outcome)
		}
		if result.Rate == nil || result.Rate.Source != model.RateSourceProvider {
			t.Errorf("Expected provider-sourced rate, got %+v", result.Rate)
		}
	})

	t.Run("ttm rate outranks provider declared rate", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := &testutil.FakeProvider{
			ProviderName: "feed",
			MetricsFunc: func(symbol string) (marketdata.FinancialMetrics, error) {
				return marketdata.FinancialMetrics{
					Symbol:             symbol,
					AnnualDividendRate: decimal.RequireFromString("9.99"),
				}, nil
			},
		}
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher(provider))
		for _, date := range []string{"2024-08-09", "2024-11-08", "2025-02-07", "2025-05-09"} {
			testutil.NewPayment("BOTH").WithExDate(date).WithPerShare("0.25").Build(t, db)
		}

		// Execute
		result, err := svc.RecomputeSymbol(ctx, "BOTH", asOf)

		// Assert
		if err != nil {
			t.Fatalf("RecomputeSymbol failed: %v", err)
		}
		if result.Rate == nil || result.Rate.Source != model.RateSourceTTM {
			t.Fatalf("Expected ttm-sourced rate, got %+v", result.Rate)
		}
		if !result.Rate.PerShare.Equal(decimal.RequireFromString("1.00")) {
			t.Errorf("Expected rate 1.00 from payments, got %s", result.Rate.PerShare)
		}
	})

	t.Run("no payments and no provider leaves nothing stored", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())

		// Execute
		result, err := svc.RecomputeSymbol(ctx, "GHOST", asOf)

		// Assert
		if err != nil {
			t.Fatalf("RecomputeSymbol failed: %v", err)
		}
		if result.Outcome != dividend.OutcomeNoCandidate {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeNoCandidate, result.Outcome)
		}
		if _, err := svc.GetRate("GHOST"); !errors.Is(err, apperrors.ErrRateNotFound) {
			t.Errorf("Expected ErrRateNotFound, got %v", err)
		}
	})
}

// TestDividendService_RecomputeAll tests the batch fan-out over every symbol
// with payment records.
func TestDividendService_RecomputeAll(t *testing.T) {
	t.Run("recomputes every symbol and reports protected skips", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		// The batch recomputes as of the wall clock, so the payments must sit
		// inside the trailing window relative to now.
		for _, date := range testutil.RecentExDates(2) {
			testutil.NewPayment("FREE").WithExDate(date).WithPerShare("0.50").Build(t, db)
			testutil.NewPayment("PIN").WithExDate(date).WithPerShare("0.50").Build(t, db)
		}
		testutil.NewRate("PIN").Manual().WithPerShare("1.23").Build(t, db)

		// Execute
		results, err := svc.RecomputeAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RecomputeAll failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}

		outcomes := make(map[string]dividend.ResolveOutcome)
		for _, r := range results {
			outcomes[r.Symbol] = r.Outcome
		}
		if outcomes["FREE"] != dividend.OutcomeUpdated {
			t.Errorf("Expected FREE updated, got %q", outcomes["FREE"])
		}
		if outcomes["PIN"] != dividend.OutcomeSkippedProtected {
			t.Errorf("Expected PIN skipped, got %q", outcomes["PIN"])
		}

		pinned, err := svc.GetRate("PIN")
		if err != nil {
			t.Fatalf("GetRate failed: %v", err)
		}
		if !pinned.PerShare.Equal(decimal.RequireFromString("1.23")) {
			t.Errorf("Pinned rate was clobbered: expected 1.23, got %s", pinned.PerShare)
		}
	})
}

// TestDividendService_ManualRate tests the override write path, the only
// path that may change a manual rate.
func TestDividendService_ManualRate(t *testing.T) {
	ctx := context.Background()

	t.Run("set pins the rate as manual", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())

		// Execute
		rate, err := svc.SetManualRate(ctx, model.AnnualDividendRate{
			Symbol:   "BDC",
			PerShare: decimal.RequireFromString("1.92"),
			// Source deliberately wrong: the service must force manual.
			Source: model.RateSourceProvider,
		})

		// Assert
		if err != nil {
			t.Fatalf("SetManualRate failed: %v", err)
		}
		if rate.Source != model.RateSourceManual {
			t.Errorf("Expected source manual, got %s", rate.Source)
		}

		stored, err := svc.GetManualRate("BDC")
		if err != nil {
			t.Fatalf("GetManualRate failed: %v", err)
		}
		if !stored.PerShare.Equal(decimal.RequireFromString("1.92")) {
			t.Errorf("Expected stored 1.92, got %s", stored.PerShare)
		}
	})

	t.Run("get returns not found for automated rates", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		testutil.NewRate("AUTO").Build(t, db) // source ttm

		// Execute + Assert
		if _, err := svc.GetManualRate("AUTO"); !errors.Is(err, apperrors.ErrOverrideNotFound) {
			t.Errorf("Expected ErrOverrideNotFound, got %v", err)
		}
	})

	t.Run("clear removes the override and recomputes", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		testutil.NewRate("BDC").Manual().WithPerShare("1.92").Build(t, db)
		// Recent payments so the recompute after clearing finds a TTM rate.
		for _, date := range testutil.RecentExDates(2) {
			testutil.NewPayment("BDC").WithExDate(date).WithPerShare("0.50").Build(t, db)
		}

		// Execute
		result, err := svc.ClearManualRate(ctx, "BDC")

		// Assert
		if err != nil {
			t.Fatalf("ClearManualRate failed: %v", err)
		}
		if result.Outcome != dividend.OutcomeUpdated {
			t.Errorf("Expected outcome %q after clear, got %q", dividend.OutcomeUpdated, result.Outcome)
		}

		stored, err := svc.GetRate("BDC")
		if err != nil {
			t.Fatalf("GetRate failed: %v", err)
		}
		if stored.Source != model.RateSourceTTM {
			t.Errorf("Expected automated rate after clear, got source %s", stored.Source)
		}
	})

	t.Run("clear rejects symbols without a manual rate", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db, testutil.NewFakeDispatcher())
		testutil.NewRate("AUTO").Build(t, db) // source ttm

		// Execute + Assert
		if _, err := svc.ClearManualRate(ctx, "AUTO"); !errors.Is(err, apperrors.ErrNotManualSource) {
			t.Errorf("Expected ErrNotManualSource, got %v", err)
		}
		if _, err := svc.ClearManualRate(ctx, "MISSING"); !errors.Is(err, apperrors.ErrOverrideNotFound) {
			t.Errorf("Expected ErrOverrideNotFound, got %v", err)
		}
	})
}
