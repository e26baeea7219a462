package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mheijden/portfolio-tracker/internal/model"
)

// PaymentRepository provides data access methods for the dividend_payment
// table. Payments are append-only; there is deliberately no update or
// delete path.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new PaymentRepository with the provided database connection.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create appends a dividend payment record and returns it with its
// generated ID and creation timestamp filled in.
func (r *PaymentRepository) Create(ctx context.Context, p model.DividendPayment) (model.DividendPayment, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dividend_payment (id, symbol, ex_date, per_share, currency, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Symbol,
		p.ExDate.Format("2006-01-02"),
		p.PerShare.String(),
		p.Currency,
		string(p.Source),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.DividendPayment{}, fmt.Errorf("failed to insert dividend payment: %w", err)
	}

	return p, nil
}

// GetBySymbol retrieves all payment records for a symbol ordered by
// ex-date ascending. Returns an empty slice when none exist.
func (r *PaymentRepository) GetBySymbol(symbol string) ([]model.DividendPayment, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, ex_date, per_share, currency, source, created_at
		FROM dividend_payment
		WHERE symbol = ?
		ORDER BY ex_date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_payment table: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// GetAll retrieves every payment record ordered by symbol and ex-date.
func (r *PaymentRepository) GetAll() ([]model.DividendPayment, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, ex_date, per_share, currency, source, created_at
		FROM dividend_payment
		ORDER BY symbol ASC, ex_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_payment table: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// ListSymbols returns the distinct symbols that have payment records,
// sorted. Used by the batch recompute to enumerate its work.
func (r *PaymentRepository) ListSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM dividend_payment ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_payment symbols: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_payment symbols: %w", err)
	}

	return symbols, nil
}

func scanPayments(rows *sql.Rows) ([]model.DividendPayment, error) {
	payments := make([]model.DividendPayment, 0)

	for rows.Next() {
		var exDateStr, perShareStr, sourceStr, createdAtStr string
		var p model.DividendPayment

		err := rows.Scan(
			&p.ID,
			&p.Symbol,
			&exDateStr,
			&perShareStr,
			&p.Currency,
			&sourceStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_payment results: %w", err)
		}

		p.ExDate, err = ParseTime(exDateStr)
		if err != nil {
			return nil, err
		}
		p.PerShare, err = ParseDecimal(perShareStr)
		if err != nil {
			return nil, err
		}
		p.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}
		p.Source = model.PaymentSource(sourceStr)

		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_payment table: %w", err)
	}

	return payments, nil
}
