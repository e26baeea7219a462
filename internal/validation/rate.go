package validation

import (
	"github.com/mheijden/portfolio-tracker/internal/api/request"
	"github.com/mheijden/portfolio-tracker/internal/model"
)

// ValidateSetOverride validates a manual rate override request.
//
// Required fields:
//   - perShare: Must be positive
//
// Optional fields (validated if provided):
//   - frequency: Must be a known cadence label
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateSetOverride(req request.SetOverrideRequest) error {
	errors := make(map[string]string)

	if req.PerShare.Sign() <= 0 {
		errors["perShare"] = "perShare must be positive"
	}

	if req.Frequency != "" && !validFrequencies[model.Frequency(req.Frequency)] {
		errors["frequency"] = "frequency must be one of: monthly, quarterly, semi_annual, annual, irregular, unknown"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
