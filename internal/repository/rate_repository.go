package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

// RateRepository provides data access methods for the annual_dividend_rate
// table, which holds the single authoritative rate per symbol. Manual
// override rows live in the same table with source = 'manual'; the service
// layer enforces that automated recompute never overwrites them.
type RateRepository struct {
	db *sql.DB
}

// NewRateRepository creates a new RateRepository with the provided database connection.
func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Get retrieves the stored rate for a symbol. Returns (nil, nil) when no
// rate is stored, so callers can hand the result straight to the resolver.
func (r *RateRepository) Get(symbol string) (*model.AnnualDividendRate, error) {
	row := r.db.QueryRow(`
		SELECT symbol, per_share, frequency, source, effective_at
		FROM annual_dividend_rate
		WHERE symbol = ?`, symbol)

	rate, err := scanRate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// GetAll retrieves every stored rate, sorted by symbol.
func (r *RateRepository) GetAll() ([]model.AnnualDividendRate, error) {
	rows, err := r.db.Query(`
		SELECT symbol, per_share, frequency, source, effective_at
		FROM annual_dividend_rate
		ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annual_dividend_rate table: %w", err)
	}
	defer rows.Close()

	rates := make([]model.AnnualDividendRate, 0)
	for rows.Next() {
		var perShareStr, frequencyStr, sourceStr, effectiveAtStr string
		var rate model.AnnualDividendRate

		if err := rows.Scan(&rate.Symbol, &perShareStr, &frequencyStr, &sourceStr, &effectiveAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan annual_dividend_rate results: %w", err)
		}

		rate.PerShare, err = ParseDecimal(perShareStr)
		if err != nil {
			return nil, err
		}
		rate.EffectiveAt, err = ParseTime(effectiveAtStr)
		if err != nil {
			return nil, err
		}
		rate.Frequency = model.Frequency(frequencyStr)
		rate.Source = model.RateSource(sourceStr)

		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annual_dividend_rate table: %w", err)
	}

	return rates, nil
}

// Upsert writes the authoritative rate for a symbol, replacing any
// existing row.
func (r *RateRepository) Upsert(ctx context.Context, rate model.AnnualDividendRate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO annual_dividend_rate (symbol, per_share, frequency, source, effective_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			per_share = excluded.per_share,
			frequency = excluded.frequency,
			source = excluded.source,
			effective_at = excluded.effective_at`,
		rate.Symbol,
		rate.PerShare.String(),
		string(rate.Frequency),
		string(rate.Source),
		rate.EffectiveAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert annual_dividend_rate: %w", err)
	}
	return nil
}

// Delete removes the stored rate for a symbol. Returns sql.ErrNoRows
// semantics via the affected-row count: (false, nil) when nothing existed.
func (r *RateRepository) Delete(ctx context.Context, symbol string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM annual_dividend_rate WHERE symbol = ?`, symbol)
	if err != nil {
		return false, fmt.Errorf("failed to delete annual_dividend_rate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRate(row rowScanner) (*model.AnnualDividendRate, error) {
	var perShareStr, frequencyStr, sourceStr, effectiveAtStr string
	var rate model.AnnualDividendRate

	err := row.Scan(&rate.Symbol, &perShareStr, &frequencyStr, &sourceStr, &effectiveAtStr)
	if err != nil {
		return nil, err
	}

	rate.PerShare, err = ParseDecimal(perShareStr)
	if err != nil {
		return nil, err
	}
	rate.EffectiveAt, err = ParseTime(effectiveAtStr)
	if err != nil {
		return nil, err
	}
	rate.Frequency = model.Frequency(frequencyStr)
	rate.Source = model.RateSource(sourceStr)

	return &rate, nil
}
