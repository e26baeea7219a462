package dividend_test

import (
	"testing"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/model"
)

func rate(t *testing.T, symbol, perShare string, source model.RateSource) model.AnnualDividendRate {
	t.Helper()
	return model.AnnualDividendRate{
		Symbol:      symbol,
		PerShare:    dec(t, perShare),
		Frequency:   model.FrequencyQuarterly,
		Source:      source,
		EffectiveAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// TestResolve_ManualOverrideImmunity tests override protection.
//
// WHY: a manual rate pins symbols whose computed or feed rate is known to
// be structurally wrong (BDC supplementals, bundled feed numbers). The
// nightly recompute must never silently clobber that human correction,
// whatever the TTM or provider computation would have produced.
func TestResolve_ManualOverrideImmunity(t *testing.T) {
	stored := rate(t, "MAIN", "2.46", model.RateSourceManual)

	tests := []struct {
		name       string
		candidates []model.AnnualDividendRate
	}{
		{
			name:       "ttm candidate",
			candidates: []model.AnnualDividendRate{rate(t, "MAIN", "3.58", model.RateSourceTTM)},
		},
		{
			name:       "provider candidate",
			candidates: []model.AnnualDividendRate{rate(t, "MAIN", "2.94", model.RateSourceProvider)},
		},
		{
			name: "both automated candidates",
			candidates: []model.AnnualDividendRate{
				rate(t, "MAIN", "3.58", model.RateSourceTTM),
				rate(t, "MAIN", "2.94", model.RateSourceProvider),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, outcome := dividend.Resolve(&stored, tt.candidates...)

			if outcome != dividend.OutcomeSkippedProtected {
				t.Errorf("Expected outcome %q, got %q", dividend.OutcomeSkippedProtected, outcome)
			}
			if !resolved.PerShare.Equal(stored.PerShare) {
				t.Errorf("Stored manual rate changed: expected %s, got %s", stored.PerShare, resolved.PerShare)
			}
			if resolved.Source != model.RateSourceManual {
				t.Errorf("Expected source manual, got %s", resolved.Source)
			}
		})
	}
}

// TestResolve_Precedence verifies manual > ttm > provider ranking among
// candidates when no stored override blocks the write.
func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		candidates []model.AnnualDividendRate
		wantSource model.RateSource
		wantRate   string
	}{
		{
			name: "ttm beats provider",
			candidates: []model.AnnualDividendRate{
				rate(t, "T", "1.11", model.RateSourceProvider),
				rate(t, "T", "1.04", model.RateSourceTTM),
			},
			wantSource: model.RateSourceTTM,
			wantRate:   "1.04",
		},
		{
			name: "manual beats everything",
			candidates: []model.AnnualDividendRate{
				rate(t, "T", "1.04", model.RateSourceTTM),
				rate(t, "T", "0.98", model.RateSourceManual),
				rate(t, "T", "1.11", model.RateSourceProvider),
			},
			wantSource: model.RateSourceManual,
			wantRate:   "0.98",
		},
		{
			name: "provider alone",
			candidates: []model.AnnualDividendRate{
				rate(t, "T", "1.11", model.RateSourceProvider),
			},
			wantSource: model.RateSourceProvider,
			wantRate:   "1.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, outcome := dividend.Resolve(nil, tt.candidates...)

			if outcome != dividend.OutcomeUpdated {
				t.Errorf("Expected outcome %q, got %q", dividend.OutcomeUpdated, outcome)
			}
			if resolved.Source != tt.wantSource {
				t.Errorf("Expected source %s, got %s", tt.wantSource, resolved.Source)
			}
			if !resolved.PerShare.Equal(dec(t, tt.wantRate)) {
				t.Errorf("Expected rate %s, got %s", tt.wantRate, resolved.PerShare)
			}
		})
	}
}

// TestResolve_ManualEditReplacesManual verifies the one legitimate write
// path over a manual rate: another explicit manual edit.
func TestResolve_ManualEditReplacesManual(t *testing.T) {
	stored := rate(t, "MAIN", "2.46", model.RateSourceManual)
	edit := rate(t, "MAIN", "2.52", model.RateSourceManual)

	resolved, outcome := dividend.Resolve(&stored, edit)

	if outcome != dividend.OutcomeUpdated {
		t.Errorf("Expected outcome %q, got %q", dividend.OutcomeUpdated, outcome)
	}
	if !resolved.PerShare.Equal(dec(t, "2.52")) {
		t.Errorf("Expected edited rate 2.52, got %s", resolved.PerShare)
	}
}

// TestResolve_NoCandidates covers the degenerate inputs.
func TestResolve_NoCandidates(t *testing.T) {
	t.Run("nothing stored, nothing offered", func(t *testing.T) {
		_, outcome := dividend.Resolve(nil)
		if outcome != dividend.OutcomeNoCandidate {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeNoCandidate, outcome)
		}
	})

	t.Run("stored rate survives an empty recompute", func(t *testing.T) {
		stored := rate(t, "T", "1.04", model.RateSourceTTM)
		resolved, outcome := dividend.Resolve(&stored)
		if outcome != dividend.OutcomeSkippedProtected {
			t.Errorf("Expected outcome %q, got %q", dividend.OutcomeSkippedProtected, outcome)
		}
		if !resolved.PerShare.Equal(stored.PerShare) {
			t.Errorf("Expected stored rate %s, got %s", stored.PerShare, resolved.PerShare)
		}
	})
}
