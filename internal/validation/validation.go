// Package validation checks API request bodies and URL parameters before
// they reach the service layer.
package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

// Common validation errors
var (
	ErrInvalidSymbol   = fmt.Errorf("invalid symbol format")
	ErrInvalidISIN     = fmt.Errorf("invalid ISIN format")
	ErrInvalidCurrency = fmt.Errorf("invalid currency code")
	ErrInvalidDate     = fmt.Errorf("invalid date format")
)

var (
	// Ticker symbols as brokers emit them: "AAPL", "TELIA.ST", "BRK-B".
	symbolPattern   = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-=]{0,19}$`)
	isinPattern     = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidateSymbol checks if a string is a plausible ticker symbol.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

// ValidateISIN checks if a string has valid ISIN structure
// (two-letter country code, nine alphanumerics, check digit).
func ValidateISIN(isin string) error {
	if !isinPattern.MatchString(isin) {
		return fmt.Errorf("%w: %q", ErrInvalidISIN, isin)
	}
	return nil
}

// ValidateCurrency checks if a string is a three-letter ISO currency code.
func ValidateCurrency(currency string) error {
	if !currencyPattern.MatchString(currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return nil
}

// ValidateDate checks if a string is a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// validFrequencies lists the accepted payment cadence labels.
var validFrequencies = map[model.Frequency]bool{
	model.FrequencyMonthly:    true,
	model.FrequencyQuarterly:  true,
	model.FrequencySemiAnnual: true,
	model.FrequencyAnnual:     true,
	model.FrequencyIrregular:  true,
	model.FrequencyUnknown:    true,
}

// validPaymentSources lists the accepted payment provenance tags.
var validPaymentSources = map[model.PaymentSource]bool{
	model.PaymentSourceBroker:   true,
	model.PaymentSourceManual:   true,
	model.PaymentSourceProvider: true,
}
