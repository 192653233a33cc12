package usecase

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/pkg/utils"
)

const (
	// FlowSpeedMPS converts a forecast horizon into a maximum upstream
	// travel distance.
	FlowSpeedMPS = 1.0

	decayDistanceM     = 20000.0
	upstreamNormScale  = 200.0
	dominantPointCount = 3
)

// UpstreamUsecase aggregates decayed rainfall signal from river-graph nodes
// reachable upstream of a point within the forecast horizon.
type UpstreamUsecase interface {
	Index(ctx context.Context, lat, lng float64, horizonHours int, mode domain.ForecastMode, overrides map[string][]float64) domain.UpstreamSummary
}

type upstreamUsecase struct {
	graphs  repository.RiverGraphRepository
	weather WeatherUsecase
	logger  *zap.Logger
}

func NewUpstreamUsecase(
	graphs repository.RiverGraphRepository,
	weather WeatherUsecase,
	logger *zap.Logger,
) UpstreamUsecase {
	return &upstreamUsecase{
		graphs:  graphs,
		weather: weather,
		logger:  logger,
	}
}

// Index never fails: a missing graph or a point with no nearby river node
// yields the zero-valued summary. overrides maps "lat,lng" node keys to
// per-node demo rainfall series that shadow the requested mode.
func (u *upstreamUsecase) Index(ctx context.Context, lat, lng float64, horizonHours int, mode domain.ForecastMode, overrides map[string][]float64) domain.UpstreamSummary {
	safeHours := ClampHours(horizonHours)
	maxDistanceM := float64(safeHours) * 3600.0 * FlowSpeedMPS

	graph, err := u.graphs.Load()
	if err != nil || graph.NodeCount() == 0 {
		if err != nil {
			u.logger.Debug("upstream index degraded, river graph unavailable", zap.Error(err))
		}
		return domain.ZeroUpstreamSummary(maxDistanceM)
	}

	source, ok := graph.NearestNode(lat, lng)
	if !ok {
		return domain.ZeroUpstreamSummary(maxDistanceM)
	}

	distances := graph.UpstreamDistances(source.ID, maxDistanceM)

	totalWeighted := 0.0
	maxUpstreamDistance := 0.0
	contributions := make([]domain.UpstreamPoint, 0, len(distances))

	for nodeID, distanceM := range distances {
		node, ok := graph.Node(nodeID)
		if !ok {
			continue
		}
		if distanceM > maxUpstreamDistance {
			maxUpstreamDistance = distanceM
		}

		rainSum := u.nodeRainSum(ctx, node, safeHours, mode, overrides)
		weight := math.Exp(-distanceM / decayDistanceM)
		weightedSignal := rainSum * weight
		totalWeighted += weightedSignal

		contributions = append(contributions, domain.UpstreamPoint{
			NodeID:         node.ID,
			Lat:            node.Lat,
			Lng:            node.Lng,
			DistanceM:      utils.Round1(distanceM),
			RainSum:        rainSum,
			WeightedSignal: utils.Round3(weightedSignal),
		})
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].WeightedSignal != contributions[j].WeightedSignal {
			return contributions[i].WeightedSignal > contributions[j].WeightedSignal
		}
		return contributions[i].NodeID < contributions[j].NodeID
	})

	top := contributions
	if len(top) > dominantPointCount {
		top = top[:dominantPointCount]
	}

	var expectedPeak *float64
	if len(contributions) > 0 {
		peak := utils.Round2(contributions[0].DistanceM / (FlowSpeedMPS * 3600.0))
		expectedPeak = &peak
	}

	return domain.UpstreamSummary{
		Index:                utils.Round3(totalWeighted),
		IndexNorm:            utils.Round3(utils.Clamp(totalWeighted/upstreamNormScale*100.0, 0.0, 100.0)),
		NodesUsed:            len(distances),
		MaxUpstreamDistanceM: utils.Round1(maxUpstreamDistance),
		DominantPoints:       top,
		ExpectedPeakInHours:  expectedPeak,
		MaxDistanceM:         utils.Round1(maxDistanceM),
	}
}

func (u *upstreamUsecase) nodeRainSum(ctx context.Context, node domain.RiverNode, hours int, mode domain.ForecastMode, overrides map[string][]float64) float64 {
	if len(overrides) > 0 {
		if values, ok := overrides[domain.NodeKey(node.Lat, node.Lng)]; ok {
			return u.weather.HourlyRainSum(ctx, node.Lat, node.Lng, hours, domain.DemoMode(values))
		}
	}
	return u.weather.HourlyRainSum(ctx, node.Lat, node.Lng, hours, mode)
}
