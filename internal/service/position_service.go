package service

import (
	"context"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/repository"
)

// PositionService handles position snapshot operations. Snapshots are
// immutable per (symbol, reporting date); writing the same pair again
// replaces the snapshot wholesale.
type PositionService struct {
	positionRepo *repository.PositionRepository
}

// NewPositionService creates a new PositionService with the provided repository.
func NewPositionService(positionRepo *repository.PositionRepository) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
	}
}

// UpsertPosition stores a position snapshot for its symbol and reporting date.
func (s *PositionService) UpsertPosition(ctx context.Context, p model.Position) (model.Position, error) {
	return s.positionRepo.Upsert(ctx, p)
}

// GetPosition retrieves the latest snapshot for a symbol on or before the
// given date.
func (s *PositionService) GetPosition(symbol string, date time.Time) (model.Position, error) {
	return s.positionRepo.GetLatest(symbol, date)
}

// ListPositions retrieves the latest snapshot per held symbol on or before
// the given date.
func (s *PositionService) ListPositions(date time.Time) ([]model.Position, error) {
	return s.positionRepo.ListForDate(date)
}
