package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/pkg/utils"
)

const (
	defaultCenterLimit = 3
	maxSearchRadiusKm  = 200.0
	radiusStepKm       = 10.0
)

// EvacuationUsecase finds nearby shelters with an expanding-radius search.
type EvacuationUsecase interface {
	Nearest(ctx context.Context, lat, lng float64, limit int) ([]domain.EvacuationOption, error)
}

type evacuationUsecase struct {
	centers repository.EvacuationCenterRepository
	logger  *zap.Logger
}

func NewEvacuationUsecase(centers repository.EvacuationCenterRepository, logger *zap.Logger) EvacuationUsecase {
	return &evacuationUsecase{centers: centers, logger: logger}
}

// Nearest sorts all centers by distance, then grows the search radius in
// 10 km steps until something is inside it, capped at 200 km. An empty
// result means no center exists within the cap.
func (u *evacuationUsecase) Nearest(ctx context.Context, lat, lng float64, limit int) ([]domain.EvacuationOption, error) {
	if limit <= 0 {
		limit = defaultCenterLimit
	}

	centers, err := u.centers.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(centers) == 0 {
		return []domain.EvacuationOption{}, nil
	}

	options := make([]domain.EvacuationOption, 0, len(centers))
	for _, center := range centers {
		options = append(options, domain.EvacuationOption{
			EvacuationCenter: center,
			DistanceKm:       utils.Round3(utils.HaversineKm(lat, lng, center.Lat, center.Lng)),
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].DistanceKm < options[j].DistanceKm
	})

	for radius := radiusStepKm; radius <= maxSearchRadiusKm; radius += radiusStepKm {
		within := 0
		for _, option := range options {
			if option.DistanceKm <= radius {
				within++
			} else {
				break
			}
		}
		if within > 0 {
			if within > limit {
				within = limit
			}
			return options[:within], nil
		}
	}

	return []domain.EvacuationOption{}, nil
}
