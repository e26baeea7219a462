package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/repository"
	"github.com/mheijden/portfolio-tracker/internal/service"
)

// NewTestDividendService wires a DividendService over the test database and
// the given dispatcher. Pass NewFakeDispatcher() for tests that never reach
// a provider.
func NewTestDividendService(t *testing.T, db *sql.DB, dispatcher *marketdata.Dispatcher) *service.DividendService {
	t.Helper()

	paymentRepo := repository.NewPaymentRepository(db)
	rateRepo := repository.NewRateRepository(db)

	return service.NewDividendService(
		paymentRepo,
		rateRepo,
		dispatcher,
	)
}

// NewTestReportService wires a ReportService over the test database and the
// given dispatcher.
func NewTestReportService(t *testing.T, db *sql.DB, dispatcher *marketdata.Dispatcher) *service.ReportService {
	t.Helper()

	rateRepo := repository.NewRateRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	return service.NewReportService(
		rateRepo,
		positionRepo,
		dispatcher,
	)
}

// NewTestValidatorService wires a ValidatorService over the test database.
func NewTestValidatorService(t *testing.T, db *sql.DB) *service.ValidatorService {
	t.Helper()

	rateRepo := repository.NewRateRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	return service.NewValidatorService(
		rateRepo,
		positionRepo,
	)
}

// NewTestPositionService wires a PositionService over the test database.
func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(repository.NewPositionRepository(db))
}

// NewTestSystemService wires a SystemService over the test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"yahoo": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	return prefix + randomAlphanumeric(10)
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// CommonCurrencies contains frequently used currency codes.
var CommonCurrencies = []string{"USD", "EUR", "GBP", "SEK", "CHF", "JPY"}

// RandomCurrency returns a random currency from CommonCurrencies.
func RandomCurrency() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return CommonCurrencies[rand.Intn(len(CommonCurrencies))]
}
