package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
)

const resultInsertBatch = 500

type backtestRepository struct {
	db *sqlx.DB
}

func NewBacktestRepository(db *sqlx.DB) repository.BacktestRepository {
	return &backtestRepository{db: db}
}

func (r *backtestRepository) CreateRun(ctx context.Context, run *domain.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (
			id, area_slug, start_at, end_at, status,
			include_weather, include_rivers, include_roads,
			risk_threshold, max_points, created_at
		) VALUES (
			:id, :area_slug, :start_at, :end_at, :status,
			:include_weather, :include_rivers, :include_roads,
			:risk_threshold, :max_points, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to create backtest run: %w", err)
	}
	return nil
}

func (r *backtestRepository) GetRun(ctx context.Context, id uuid.UUID) (*domain.BacktestRun, error) {
	query := `
		SELECT id, area_slug, start_at, end_at, status,
			include_weather, include_rivers, include_roads,
			risk_threshold, max_points, runtime_ms, nodes_processed,
			flooded_count, error, created_at, completed_at
		FROM backtest_runs
		WHERE id = $1`

	var run domain.BacktestRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBacktestNotFound
		}
		return nil, fmt.Errorf("failed to get backtest run: %w", err)
	}
	return &run, nil
}

func (r *backtestRepository) UpdateRun(ctx context.Context, run *domain.BacktestRun) error {
	query := `
		UPDATE backtest_runs SET
			status = :status,
			runtime_ms = :runtime_ms,
			nodes_processed = :nodes_processed,
			flooded_count = :flooded_count,
			error = :error,
			completed_at = :completed_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("failed to update backtest run: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.ErrBacktestNotFound
	}
	return nil
}

func (r *backtestRepository) HasActiveRun(ctx context.Context, areaSlug string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM backtest_runs
			WHERE area_slug = $1 AND status IN ($2, $3)
		)`

	var active bool
	if err := r.db.GetContext(ctx, &active, query, areaSlug, domain.BacktestPending, domain.BacktestRunning); err != nil {
		return false, fmt.Errorf("failed to check active runs: %w", err)
	}
	return active, nil
}

func (r *backtestRepository) InsertResults(ctx context.Context, results []domain.BacktestResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO backtest_results (
			run_id, lat, lng, risk_score, flooded,
			weather_signal, downstream_signal, river_distance_km,
			low_elevation_signal, elevation_proxy, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for start := 0; start < len(results); start += resultInsertBatch {
		end := start + resultInsertBatch
		if end > len(results) {
			end = len(results)
		}

		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, result := range results[start:end] {
			if _, err := tx.ExecContext(ctx, query,
				result.RunID,
				result.Lat,
				result.Lng,
				result.RiskScore,
				result.Flooded,
				result.WeatherSignal,
				result.DownstreamSignal,
				result.RiverDistanceKM,
				result.LowElevationSignal,
				result.ElevationProxy,
				pq.Array(result.Tags),
			); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert backtest result: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit backtest results: %w", err)
		}
	}
	return nil
}

func (r *backtestRepository) TopResults(ctx context.Context, runID uuid.UUID, limit int) ([]domain.BacktestResult, error) {
	query := `
		SELECT run_id, lat, lng, risk_score, flooded,
			weather_signal, downstream_signal, river_distance_km,
			low_elevation_signal, elevation_proxy
		FROM backtest_results
		WHERE run_id = $1
		ORDER BY risk_score DESC
		LIMIT $2`

	var results []domain.BacktestResult
	if err := r.db.SelectContext(ctx, &results, query, runID, limit); err != nil {
		return nil, fmt.Errorf("failed to list backtest results: %w", err)
	}
	return results, nil
}
