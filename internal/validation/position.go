package validation

import (
	"strings"

	"github.com/mheijden/portfolio-tracker/internal/api/request"
)

// ValidateUpsertPosition validates a position snapshot request.
//
// Required fields:
//   - symbol: Must be a plausible ticker symbol
//   - date: Must be in YYYY-MM-DD format
//   - quantity: Must be zero or positive
//   - price, costPrice: Must be zero or positive
//   - currency: Must be a three-letter ISO code
//
// Optional fields (validated if provided):
//   - fxRate, dividendFxRate: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpsertPosition(req request.UpsertPositionRequest) error {
	errors := make(map[string]string)

	if err := ValidateSymbol(strings.ToUpper(strings.TrimSpace(req.Symbol))); err != nil {
		errors["symbol"] = err.Error()
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if err := ValidateDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.Quantity.Sign() < 0 {
		errors["quantity"] = "quantity must not be negative"
	}

	if req.Price.Sign() < 0 {
		errors["price"] = "price must not be negative"
	}

	if req.CostPrice.Sign() < 0 {
		errors["costPrice"] = "costPrice must not be negative"
	}

	if err := ValidateCurrency(strings.ToUpper(strings.TrimSpace(req.Currency))); err != nil {
		errors["currency"] = err.Error()
	}

	// optionals

	if req.FXRate != nil && req.FXRate.Sign() <= 0 {
		errors["fxRate"] = "fxRate must be positive"
	}

	if req.DividendFXRate != nil && req.DividendFXRate.Sign() <= 0 {
		errors["dividendFxRate"] = "dividendFxRate must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
