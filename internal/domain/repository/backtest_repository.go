package repository

import (
	"context"

	"github.com/floodwatch-service/internal/domain"
	"github.com/google/uuid"
)

// BacktestRepository persists backtest runs and their per-cell results.
type BacktestRepository interface {
	CreateRun(ctx context.Context, run *domain.BacktestRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.BacktestRun, error)
	UpdateRun(ctx context.Context, run *domain.BacktestRun) error
	HasActiveRun(ctx context.Context, areaSlug string) (bool, error)
	InsertResults(ctx context.Context, results []domain.BacktestResult) error
	TopResults(ctx context.Context, runID uuid.UUID, limit int) ([]domain.BacktestResult, error)
}
