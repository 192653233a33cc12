package repository

import (
	"context"

	"github.com/floodwatch-service/internal/domain"
)

// EvacuationCenterRepository reads persisted shelter records.
type EvacuationCenterRepository interface {
	All(ctx context.Context) ([]domain.EvacuationCenter, error)
}
