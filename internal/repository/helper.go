package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDecimal parses a stored decimal text column. Monetary values are
// stored as text so no binary floating point ever touches them.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}

// ParseNullDecimal parses an optional decimal column; empty means nil.
func ParseNullDecimal(str string, valid bool) (*decimal.Decimal, error) {
	if !valid || str == "" {
		return nil, nil
	}
	d, err := ParseDecimal(str)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// NullDecimalString renders an optional decimal for storage; nil means NULL.
func NullDecimalString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
