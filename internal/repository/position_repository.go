package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/model"
)

// PositionRepository provides data access methods for position snapshots.
// A snapshot is immutable per (symbol, reporting date); writing the same
// pair again replaces the whole row.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Upsert stores a position snapshot for its symbol and reporting date.
func (r *PositionRepository) Upsert(ctx context.Context, p model.Position) (model.Position, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO position (id, symbol, date, quantity, price, cost_price, currency, fx_rate, dividend_fx_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			quantity = excluded.quantity,
			price = excluded.price,
			cost_price = excluded.cost_price,
			currency = excluded.currency,
			fx_rate = excluded.fx_rate,
			dividend_fx_rate = excluded.dividend_fx_rate,
			created_at = excluded.created_at`,
		p.ID,
		p.Symbol,
		p.Date.Format("2006-01-02"),
		p.Quantity.String(),
		p.Price.String(),
		p.CostPrice.String(),
		p.Currency,
		NullDecimalString(p.FXRate),
		NullDecimalString(p.DividendFXRate),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to upsert position: %w", err)
	}

	return p, nil
}

// GetLatest retrieves the most recent snapshot for a symbol on or before
// the given date.
func (r *PositionRepository) GetLatest(symbol string, date time.Time) (model.Position, error) {
	row := r.db.QueryRow(`
		SELECT id, symbol, date, quantity, price, cost_price, currency, fx_rate, dividend_fx_rate, created_at
		FROM position
		WHERE symbol = ? AND date <= ?
		ORDER BY date DESC
		LIMIT 1`, symbol, date.Format("2006-01-02"))

	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, symbol)
	}
	return p, err
}

// ListForDate retrieves the latest snapshot per symbol on or before the
// given date, for portfolio-wide passes such as reconciliation.
func (r *PositionRepository) ListForDate(date time.Time) ([]model.Position, error) {
	rows, err := r.db.Query(`
		SELECT p.id, p.symbol, p.date, p.quantity, p.price, p.cost_price, p.currency, p.fx_rate, p.dividend_fx_rate, p.created_at
		FROM position p
		INNER JOIN (
			SELECT symbol, MAX(date) AS latest_date
			FROM position
			WHERE date <= ?
			GROUP BY symbol
		) latest ON p.symbol = latest.symbol AND p.date = latest.latest_date
		ORDER BY p.symbol ASC`, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := make([]model.Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

func scanPosition(row rowScanner) (model.Position, error) {
	var dateStr, quantityStr, priceStr, costPriceStr, createdAtStr string
	var fxStr, divFXStr sql.NullString
	var p model.Position

	err := row.Scan(
		&p.ID,
		&p.Symbol,
		&dateStr,
		&quantityStr,
		&priceStr,
		&costPriceStr,
		&p.Currency,
		&fxStr,
		&divFXStr,
		&createdAtStr,
	)
	if err != nil {
		return model.Position{}, err
	}

	p.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Position{}, err
	}
	p.Quantity, err = ParseDecimal(quantityStr)
	if err != nil {
		return model.Position{}, err
	}
	p.Price, err = ParseDecimal(priceStr)
	if err != nil {
		return model.Position{}, err
	}
	p.CostPrice, err = ParseDecimal(costPriceStr)
	if err != nil {
		return model.Position{}, err
	}
	p.FXRate, err = ParseNullDecimal(fxStr.String, fxStr.Valid)
	if err != nil {
		return model.Position{}, err
	}
	p.DividendFXRate, err = ParseNullDecimal(divFXStr.String, divFXStr.Valid)
	if err != nil {
		return model.Position{}, err
	}
	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Position{}, err
	}

	return p, nil
}
