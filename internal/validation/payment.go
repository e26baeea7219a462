package validation

import (
	"strings"

	"github.com/mheijden/portfolio-tracker/internal/api/request"
	"github.com/mheijden/portfolio-tracker/internal/model"
)

// ValidateCreatePayment validates a dividend payment creation request.
//
// Required fields:
//   - symbol: Must be a plausible ticker symbol
//   - exDate: Must be in YYYY-MM-DD format
//   - perShare: Must be positive
//   - currency: Must be a three-letter ISO code
//
// Optional fields (validated if provided):
//   - source: Must be one of broker, manual, provider
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreatePayment(req request.CreatePaymentRequest) error {
	errors := make(map[string]string)

	if err := ValidateSymbol(strings.ToUpper(strings.TrimSpace(req.Symbol))); err != nil {
		errors["symbol"] = err.Error()
	}

	if strings.TrimSpace(req.ExDate) == "" {
		errors["exDate"] = "date is required"
	} else if err := ValidateDate(req.ExDate); err != nil {
		errors["exDate"] = err.Error()
	}

	if req.PerShare.Sign() <= 0 {
		errors["perShare"] = "perShare must be positive"
	}

	if err := ValidateCurrency(strings.ToUpper(strings.TrimSpace(req.Currency))); err != nil {
		errors["currency"] = err.Error()
	}

	// optionals

	if req.Source != "" && !validPaymentSources[model.PaymentSource(req.Source)] {
		errors["source"] = "source must be one of: broker, manual, provider"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
