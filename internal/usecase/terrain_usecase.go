package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/observability"
	"github.com/floodwatch-service/internal/pkg/utils"
)

// NoRiverDistanceKm is the sentinel returned when no river data exists at
// all. Risk math treats it as "far from any river", which is the safe side.
const NoRiverDistanceKm = 999.0

const metersPerDegree = 111320.0

// ElevationSource records which tier served an elevation lookup.
type ElevationSource string

const (
	ElevationGrid      ElevationSource = "grid"
	ElevationRemote    ElevationSource = "remote"
	ElevationSimulated ElevationSource = "simulated"
)

// TerrainUsecase resolves elevation and river proximity for a coordinate.
// Elevation tries the offline raster, then the remote API when allowed, then
// a deterministic synthetic surface, so the scorer always has a value.
type TerrainUsecase interface {
	Elevation(ctx context.Context, lat, lng float64, allowRemote bool) (float64, ElevationSource)
	RiverDistanceKm(lat, lng float64) float64
}

type terrainUsecase struct {
	grid     repository.ElevationGridRepository
	provider repository.ElevationProvider
	rivers   repository.RiverGeometryRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewTerrainUsecase(
	grid repository.ElevationGridRepository,
	provider repository.ElevationProvider,
	rivers repository.RiverGeometryRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) TerrainUsecase {
	return &terrainUsecase{
		grid:     grid,
		provider: provider,
		rivers:   rivers,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

func (u *terrainUsecase) Elevation(ctx context.Context, lat, lng float64, allowRemote bool) (float64, ElevationSource) {
	if value, ok := u.grid.Sample(lat, lng); ok {
		u.countElevation(ElevationGrid)
		return utils.Round1(value), ElevationGrid
	}

	if allowRemote && u.provider != nil {
		key := fmt.Sprintf("elevation:%s", domain.NodeKey(lat, lng))
		if cached, ok := u.cachedElevation(ctx, key); ok {
			u.countElevation(ElevationRemote)
			return cached, ElevationRemote
		}

		value, err := u.provider.Elevation(ctx, lat, lng)
		if err == nil {
			rounded := utils.Round1(value)
			u.storeElevation(ctx, key, rounded)
			u.countElevation(ElevationRemote)
			return rounded, ElevationRemote
		}
		u.logger.Debug("remote elevation degraded to simulation",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err))
	}

	u.countElevation(ElevationSimulated)
	return simulateElevation(lat, lng), ElevationSimulated
}

// RiverDistanceKm prefers full river linestrings projected to a local metric
// plane; with no lines it falls back to the flat sampled point list, and with
// no river data at all it returns the 999 km sentinel.
func (u *terrainUsecase) RiverDistanceKm(lat, lng float64) float64 {
	lines, err := u.rivers.Lines()
	if err == nil && len(lines) > 0 {
		best := math.Inf(1)
		for _, line := range lines {
			for i := 0; i+1 < len(line); i++ {
				d := segmentDistanceM(lat, lng, line[i][1], line[i][0], line[i+1][1], line[i+1][0])
				if d < best {
					best = d
				}
			}
		}
		if !math.IsInf(best, 1) {
			return utils.Round3(best / 1000.0)
		}
	}

	points, err := u.rivers.Points()
	if err != nil || len(points) == 0 {
		return NoRiverDistanceKm
	}

	best := math.Inf(1)
	for _, p := range points {
		d := utils.HaversineKm(lat, lng, p.Lat, p.Lng)
		if d < best {
			best = d
		}
	}
	return utils.Round3(best)
}

func (u *terrainUsecase) cachedElevation(ctx context.Context, key string) (float64, bool) {
	data, err := u.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, false
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, false
	}
	return value, true
}

func (u *terrainUsecase) storeElevation(ctx context.Context, key string, value float64) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
		u.logger.Debug("elevation cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (u *terrainUsecase) countElevation(source ElevationSource) {
	if u.metrics != nil {
		u.metrics.ElevationRequests.WithLabelValues(string(source)).Inc()
	}
}

// simulateElevation synthesizes terrain from a smooth function of the
// coordinate, bounded to plausible island relief.
func simulateElevation(lat, lng float64) float64 {
	raw := 20 + (math.Sin(lat*8)+1)*20 + (math.Cos(lng*8)+1)*25
	return utils.Round1(utils.Clamp(raw, 2.0, 180.0))
}

// segmentDistanceM is the point-to-segment distance in meters under an
// equirectangular projection centered on the query point. Accurate at the
// sub-kilometer scales river proximity cares about.
func segmentDistanceM(lat, lng, aLat, aLng, bLat, bLng float64) float64 {
	cos := math.Cos(lat * math.Pi / 180.0)

	ax := (aLng - lng) * cos * metersPerDegree
	ay := (aLat - lat) * metersPerDegree
	bx := (bLng - lng) * cos * metersPerDegree
	by := (bLat - lat) * metersPerDegree

	dx := bx - ax
	dy := by - ay
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(ax, ay)
	}

	t := utils.Clamp((-ax*dx-ay*dy)/lengthSq, 0.0, 1.0)
	return math.Hypot(ax+t*dx, ay+t*dy)
}
