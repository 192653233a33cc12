package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/observability"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
)

const (
	// DefaultSafetyWeight biases path search toward low-hazard edges.
	DefaultSafetyWeight = 2.0

	neighborhoodRadiusM = 5000.0
)

// RoutingUsecase computes hazard-weighted routes over the road graph.
type RoutingUsecase interface {
	SafeRoute(ctx context.Context, originLat, originLng, destLat, destLng, safetyWeight float64, hours int, mode domain.ForecastMode, overrides map[string][]float64) (*domain.RoutePlan, error)
}

type routingUsecase struct {
	graphs   repository.RoadGraphRepository
	weather  WeatherUsecase
	terrain  TerrainUsecase
	upstream UpstreamUsecase
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewRoutingUsecase(
	graphs repository.RoadGraphRepository,
	weather WeatherUsecase,
	terrain TerrainUsecase,
	upstream UpstreamUsecase,
	metrics *observability.Metrics,
	logger *zap.Logger,
) RoutingUsecase {
	return &routingUsecase{
		graphs:   graphs,
		weather:  weather,
		terrain:  terrain,
		upstream: upstream,
		metrics:  metrics,
		logger:   logger,
	}
}

// hazardContext is the per-call snapshot applied uniformly to every edge:
// one rainfall sample and one upstream sample at the origin, plus a memo so
// each edge is scored at most once per routing call.
type hazardContext struct {
	rainfallMM   float64
	upstreamNorm float64
	terrain      TerrainUsecase
	scores       map[*domain.RoadEdge]float64
}

func (h *hazardContext) score(ctx context.Context, graph *domain.RoadGraph, edge *domain.RoadEdge) float64 {
	if cached, ok := h.scores[edge]; ok {
		return cached
	}

	from, _ := graph.Node(edge.From)
	to, _ := graph.Node(edge.To)
	midLat := (from.Lat + to.Lat) / 2
	midLng := (from.Lng + to.Lng) / 2

	hazard := 0.0
	elevation, _ := h.terrain.Elevation(ctx, midLat, midLng, false)
	if elevation < 20 {
		hazard += 2
	}

	riverKm := h.terrain.RiverDistanceKm(midLat, midLng)
	if riverKm <= 0.25 {
		hazard += 2
		hazard += h.upstreamNorm / 100.0 * 4.0
	} else if riverKm <= 0.75 {
		hazard += h.upstreamNorm / 100.0 * 2.0
	}

	if h.rainfallMM > 30 {
		hazard++
	}

	hazard = utils.Clamp(hazard, 0.0, 100.0)
	h.scores[edge] = hazard
	return hazard
}

func (u *routingUsecase) SafeRoute(ctx context.Context, originLat, originLng, destLat, destLng, safetyWeight float64, hours int, mode domain.ForecastMode, overrides map[string][]float64) (*domain.RoutePlan, error) {
	started := time.Now()
	safeHours := ClampHours(hours)

	graph, err := u.graphs.Load()
	if err != nil {
		return nil, apperrors.ErrGraphUnavailable
	}

	origin, ok := graph.NearestNode(originLat, originLng)
	if !ok {
		return nil, apperrors.ErrGraphUnavailable
	}
	dest, _ := graph.NearestNode(destLat, destLng)

	hazards := &hazardContext{
		rainfallMM:   u.weather.HourlyRainSum(ctx, originLat, originLng, safeHours, mode),
		upstreamNorm: u.upstream.Index(ctx, originLat, originLng, safeHours, mode, overrides).IndexNorm,
		terrain:      u.terrain,
		scores:       make(map[*domain.RoadEdge]float64),
	}
	cost := func(edge *domain.RoadEdge) float64 {
		return edge.LengthM + hazards.score(ctx, graph, edge)*safetyWeight
	}

	modeLabel := domain.RouteFastest
	if safetyWeight > 0 {
		modeLabel = domain.RouteSafest
	}

	within := graph.Neighborhood(origin.ID, neighborhoodRadiusM)
	if _, reached := within[dest.ID]; !reached {
		for id := range graph.Neighborhood(dest.ID, neighborhoodRadiusM) {
			within[id] = struct{}{}
		}
	}
	if _, reached := within[dest.ID]; !reached {
		within = nil
	}

	path, found := graph.ShortestPath(origin.ID, dest.ID, within, cost)
	if !found && within != nil {
		// neighborhood pruning can cut the only viable corridor
		path, found = graph.ShortestPath(origin.ID, dest.ID, nil, cost)
	}
	if !found {
		u.countRoute(modeLabel, "no_route")
		return nil, apperrors.ErrNoRoute
	}

	plan := &domain.RoutePlan{
		Route:           make([]domain.Waypoint, 0, len(path)),
		OriginNode:      origin.ID,
		DestinationNode: dest.ID,
		Mode:            modeLabel,
	}
	for _, id := range path {
		node, _ := graph.Node(id)
		plan.Route = append(plan.Route, domain.Waypoint{Lat: node.Lat, Lng: node.Lng})
	}

	totalDistance := 0.0
	hazardExposure := 0.0
	for i := 0; i+1 < len(path); i++ {
		edge := graph.MinCostEdge(path[i], path[i+1], cost)
		if edge == nil {
			continue
		}
		totalDistance += edge.LengthM
		hazardExposure += hazards.score(ctx, graph, edge)
	}
	plan.TotalDistanceM = utils.Round3(totalDistance)
	plan.HazardExposure = utils.Round3(hazardExposure)

	u.countRoute(modeLabel, "ok")
	if u.metrics != nil {
		u.metrics.RouteDuration.Observe(time.Since(started).Seconds())
	}

	return plan, nil
}

func (u *routingUsecase) countRoute(mode domain.RouteMode, outcome string) {
	if u.metrics != nil {
		u.metrics.RouteRequests.WithLabelValues(string(mode), outcome).Inc()
	}
}
