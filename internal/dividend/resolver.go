package dividend

import (
	"github.com/mheijden/portfolio-tracker/internal/model"
)

// ResolveOutcome reports what resolution decided, for audit purposes.
// A protected skip is an expected no-op, not an error.
type ResolveOutcome string

const (
	// OutcomeUpdated means the best candidate becomes the authoritative rate.
	OutcomeUpdated ResolveOutcome = "updated"

	// OutcomeSkippedProtected means a stored manual override blocked an
	// automated candidate. The stored rate stays untouched.
	OutcomeSkippedProtected ResolveOutcome = "skipped: protected"

	// OutcomeNoCandidate means nothing usable was offered and no rate is
	// stored for the symbol.
	OutcomeNoCandidate ResolveOutcome = "no candidate"
)

// precedence orders rate sources highest first. Manual entries pin symbols
// whose computed or feed rate is structurally wrong (issuers paying a base
// rate plus irregular supplementals, feeds bundling supplementals into the
// headline number), so they outrank everything automated.
var precedence = map[model.RateSource]int{
	model.RateSourceManual:   3,
	model.RateSourceTTM:      2,
	model.RateSourceProvider: 1,
}

// Resolve chooses the authoritative annual rate for a symbol from competing
// candidates, enforcing override protection against the stored rate.
//
// Candidates are ranked manual > ttm > provider; among equals the first
// offered wins. If the stored rate is a manual override, automated
// candidates are computed but never written over it: the stored rate is
// returned with OutcomeSkippedProtected. Only an explicit manual candidate
// (an operator edit) replaces a manual rate.
func Resolve(stored *model.AnnualDividendRate, candidates ...model.AnnualDividendRate) (model.AnnualDividendRate, ResolveOutcome) {
	var best *model.AnnualDividendRate
	for i := range candidates {
		c := &candidates[i]
		if _, known := precedence[c.Source]; !known {
			continue
		}
		if best == nil || precedence[c.Source] > precedence[best.Source] {
			best = c
		}
	}

	if best == nil {
		if stored != nil {
			return *stored, OutcomeSkippedProtected
		}
		return model.AnnualDividendRate{}, OutcomeNoCandidate
	}

	if stored != nil && stored.Source == model.RateSourceManual && best.Source != model.RateSourceManual {
		return *stored, OutcomeSkippedProtected
	}

	return *best, OutcomeUpdated
}
