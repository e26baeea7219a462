package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/service"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

func newRateHandler(t *testing.T) (*RateHandler, *testDeps) {
	t.Helper()
	deps := setupDeps(t)
	return NewRateHandler(deps.dividendService), deps
}

func TestRateHandler_GetRate(t *testing.T) {
	t.Run("returns the stored rate", func(t *testing.T) {
		handler, deps := newRateHandler(t)
		testutil.NewRate("AAPL").WithPerShare("1.04").Build(t, deps.db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rates/AAPL",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.GetRate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var rate model.AnnualDividendRate
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&rate)

		if !rate.PerShare.Equal(decimal.RequireFromString("1.04")) {
			t.Errorf("Expected per-share 1.04, got %s", rate.PerShare)
		}
	})

	t.Run("returns 404 for symbols without a rate", func(t *testing.T) {
		handler, _ := newRateHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rates/GHOST",
			map[string]string{"symbol": "GHOST"})
		w := httptest.NewRecorder()

		handler.GetRate(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRateHandler_RecomputeSymbol(t *testing.T) {
	t.Run("recomputes from payments as of a given date", func(t *testing.T) {
		handler, deps := newRateHandler(t)
		for _, exDate := range []string{"2024-08-09", "2024-11-08", "2025-02-07", "2025-05-09"} {
			testutil.NewPayment("AAPL").WithExDate(exDate).WithPerShare("0.25").Build(t, deps.db)
		}

		req := testutil.NewRequestWithURLParams(http.MethodPost,
			"/api/rates/AAPL/recompute?as_of=2025-06-30",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.RecomputeSymbol(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result service.RecomputeResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Outcome != dividend.OutcomeUpdated {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeUpdated, result.Outcome)
		}
		if result.Rate == nil || !result.Rate.PerShare.Equal(decimal.RequireFromString("1.00")) {
			t.Errorf("Expected annual rate 1.00, got %+v", result.Rate)
		}
	})

	t.Run("rejects a malformed as_of date", func(t *testing.T) {
		handler, _ := newRateHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodPost,
			"/api/rates/AAPL/recompute?as_of=June-2025",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.RecomputeSymbol(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRateHandler_Override(t *testing.T) {
	t.Run("set then get returns the manual rate", func(t *testing.T) {
		handler, _ := newRateHandler(t)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPut, "/api/rates/TELIA/override",
			`{"perShare":"2.46","frequency":"quarterly"}`,
			map[string]string{"symbol": "TELIA"})
		w := httptest.NewRecorder()

		handler.SetOverride(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		getReq := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rates/TELIA/override",
			map[string]string{"symbol": "TELIA"})
		getW := httptest.NewRecorder()

		handler.GetOverride(getW, getReq)

		if getW.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", getW.Code, getW.Body.String())
		}

		var rate model.AnnualDividendRate
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(getW.Body).Decode(&rate)

		if rate.Source != model.RateSourceManual {
			t.Errorf("Expected source manual, got %s", rate.Source)
		}
		if !rate.PerShare.Equal(decimal.RequireFromString("2.46")) {
			t.Errorf("Expected per-share 2.46, got %s", rate.PerShare)
		}
	})

	t.Run("rejects a non-positive per-share value", func(t *testing.T) {
		handler, _ := newRateHandler(t)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPut, "/api/rates/TELIA/override",
			`{"perShare":"0"}`,
			map[string]string{"symbol": "TELIA"})
		w := httptest.NewRecorder()

		handler.SetOverride(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("get returns 404 when the stored rate is automated", func(t *testing.T) {
		handler, deps := newRateHandler(t)
		testutil.NewRate("AAPL").Build(t, deps.db) // defaults to source ttm

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rates/AAPL/override",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.GetOverride(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("clear falls back to the computed rate", func(t *testing.T) {
		handler, deps := newRateHandler(t)
		// Clearing recomputes as of the wall clock, so the payments must sit
		// inside the trailing window relative to now.
		for _, exDate := range testutil.RecentExDates(4) {
			testutil.NewPayment("AAPL").WithExDate(exDate).WithPerShare("0.25").Build(t, deps.db)
		}
		testutil.NewRate("AAPL").WithPerShare("9.99").Manual().Build(t, deps.db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/rates/AAPL/override",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.ClearOverride(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result service.RecomputeResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Rate == nil || result.Rate.Source != model.RateSourceTTM {
			t.Errorf("Expected fallback to a ttm rate, got %+v", result.Rate)
		}
	})

	t.Run("clear returns 404 without an override", func(t *testing.T) {
		handler, _ := newRateHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/rates/GHOST/override",
			map[string]string{"symbol": "GHOST"})
		w := httptest.NewRecorder()

		handler.ClearOverride(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("clear returns 409 when the stored rate is automated", func(t *testing.T) {
		handler, deps := newRateHandler(t)
		testutil.NewRate("AAPL").Build(t, deps.db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/rates/AAPL/override",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.ClearOverride(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}
