package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
)

type evacuationRepository struct {
	db *sqlx.DB
}

func NewEvacuationRepository(db *sqlx.DB) repository.EvacuationCenterRepository {
	return &evacuationRepository{db: db}
}

func (r *evacuationRepository) All(ctx context.Context) ([]domain.EvacuationCenter, error) {
	query := `
		SELECT id, name, latitude, longitude, capacity
		FROM evacuation_centers
		ORDER BY id`

	var centers []domain.EvacuationCenter
	if err := r.db.SelectContext(ctx, &centers, query); err != nil {
		return nil, fmt.Errorf("failed to list evacuation centers: %w", err)
	}
	return centers, nil
}
