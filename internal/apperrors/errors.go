package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPaymentNotFound indicates that a dividend payment with the given ID does not exist.
	ErrPaymentNotFound = errors.New("dividend payment not found")

	// ErrRateNotFound indicates that no annual rate is stored for the symbol.
	ErrRateNotFound = errors.New("annual dividend rate not found")

	// ErrOverrideNotFound indicates that no manual override is stored for the symbol.
	ErrOverrideNotFound = errors.New("manual override not found")

	// ErrPositionNotFound indicates that no position snapshot exists for the symbol and date.
	ErrPositionNotFound = errors.New("position not found")

	// ErrSettingNotFound indicates that a system setting key does not exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrNotManualSource indicates an override write whose source is not manual.
	ErrNotManualSource = errors.New("override source must be manual")

	// Validation errors for required parameters
	ErrInvalidSymbol   = errors.New("symbol is required")
	ErrInvalidCurrency = errors.New("currency parameter is required")
	ErrInvalidDate     = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrievePayments  = errors.New("failed to retrieve dividend payments")
	ErrFailedToRetrieveRates     = errors.New("failed to retrieve annual rates")
	ErrFailedToRetrievePositions = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveReport    = errors.New("failed to build yield report")
	ErrRecomputeFailed           = errors.New("rate recompute failed")
)
