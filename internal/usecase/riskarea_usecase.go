package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/usecase/dto"
)

const (
	riverRiskThreshold   = 60.0
	roadHazardThreshold  = 6.0
	maxRoadEdgesEvaluate = 700
	highScoreThreshold   = 65
	minAreaPoints        = 20
	maxAreaPoints        = 600
)

// RiskAreaUsecase samples the configured area on a grid and builds the map
// overlay: flagged grid cells plus high-risk river and road segments.
type RiskAreaUsecase interface {
	Build(ctx context.Context, hours int, severity string, maxPoints int, includeRivers, includeRoads bool, mode domain.ForecastMode) (*dto.RiskAreaResponse, error)
}

type riskAreaUsecase struct {
	area     config.AreaConfig
	risk     RiskUsecase
	weather  WeatherUsecase
	terrain  TerrainUsecase
	upstream UpstreamUsecase
	rivers   repository.RiverGeometryRepository
	roads    repository.RoadGraphRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewRiskAreaUsecase(
	area config.AreaConfig,
	risk RiskUsecase,
	weather WeatherUsecase,
	terrain TerrainUsecase,
	upstream UpstreamUsecase,
	rivers repository.RiverGeometryRepository,
	roads repository.RoadGraphRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) RiskAreaUsecase {
	return &riskAreaUsecase{
		area:     area,
		risk:     risk,
		weather:  weather,
		terrain:  terrain,
		upstream: upstream,
		rivers:   rivers,
		roads:    roads,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (u *riskAreaUsecase) Build(ctx context.Context, hours int, severity string, maxPoints int, includeRivers, includeRoads bool, mode domain.ForecastMode) (*dto.RiskAreaResponse, error) {
	started := time.Now()
	safeHours := ClampHours(hours)
	maxPoints = int(utils.Clamp(float64(maxPoints), minAreaPoints, maxAreaPoints))
	if severity != "all" {
		severity = "high"
	}
	scoreThreshold := 0
	if severity == "high" {
		scoreThreshold = highScoreThreshold
	}

	cacheKey := fmt.Sprintf("risk-area:%d:%s:%d:%t:%t:%s",
		safeHours, severity, maxPoints, includeRivers, includeRoads, mode.CacheSuffix())
	if cached := u.loadCached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var warnings []string

	areaPoints := make([]dto.AreaPoint, 0)
	sampled := 0
	for _, point := range u.gridPoints(maxPoints) {
		assessment, err := u.risk.Assess(ctx, point.Lat, point.Lng, safeHours, mode, nil)
		if err != nil {
			continue
		}
		sampled++
		if assessment.RiskScore < scoreThreshold {
			continue
		}

		upstreamNodeID := ""
		if len(assessment.Upstream.DominantPoints) > 0 {
			upstreamNodeID = assessment.Upstream.DominantPoints[0].NodeID
		}
		areaPoints = append(areaPoints, dto.AreaPoint{
			Lat:                 point.Lat,
			Lng:                 point.Lng,
			RiskScore:           assessment.RiskScore,
			RiskLevel:           string(assessment.RiskLevel),
			ExpectedPeakInHours: assessment.ExpectedPeakInHours,
			UpstreamNodeID:      upstreamNodeID,
		})
	}

	riversOverlay := geojson.NewFeatureCollection()
	if includeRivers {
		overlay, warning := u.buildRiverOverlay(ctx, safeHours, mode)
		if warning != "" {
			warnings = append(warnings, warning)
			includeRivers = false
		} else {
			riversOverlay = overlay
		}
	}

	roadsOverlay := geojson.NewFeatureCollection()
	if includeRoads {
		overlay, warning := u.buildRoadOverlay(ctx, safeHours, mode)
		if warning != "" {
			warnings = append(warnings, warning)
			includeRoads = false
		} else {
			roadsOverlay = overlay
		}
	}

	if warnings == nil {
		warnings = []string{}
	}

	response := &dto.RiskAreaResponse{
		AreaPoints: areaPoints,
		Rivers:     riversOverlay,
		Roads:      roadsOverlay,
		Meta: dto.RiskAreaMeta{
			Hours:         safeHours,
			Source:        u.area.Slug + "_sample_grid",
			SampledPoints: sampled,
			MaxPoints:     maxPoints,
			Thresholds: map[string]any{
				"point_risk_threshold": scoreThreshold,
				"river_risk_threshold": riverRiskThreshold,
				"road_hazard_threshold": roadHazardThreshold,
			},
			IncludeRivers: includeRivers,
			IncludeRoads:  includeRoads,
			Warnings:      warnings,
			RuntimeMS:     utils.Round1(float64(time.Since(started).Microseconds()) / 1000.0),
		},
	}

	u.storeCached(ctx, cacheKey, response)
	return response, nil
}

// gridPoints lays out a roughly square-celled grid across the area bounds.
func (u *riskAreaUsecase) gridPoints(maxPoints int) []domain.Coordinate {
	latSpan := u.area.North - u.area.South
	lngSpan := u.area.East - u.area.West

	cols := int(math.Sqrt(float64(maxPoints) * (lngSpan / math.Max(latSpan, 0.0001))))
	if cols < 8 {
		cols = 8
	}
	rows := int(math.Ceil(float64(maxPoints) / float64(cols)))
	if rows < 6 {
		rows = 6
	}

	latStep := latSpan / math.Max(float64(rows-1), 1)
	lngStep := lngSpan / math.Max(float64(cols-1), 1)

	points := make([]domain.Coordinate, 0, maxPoints)
	for i := 0; i < rows; i++ {
		lat := u.area.South + latStep*float64(i)
		for j := 0; j < cols; j++ {
			lng := u.area.West + lngStep*float64(j)
			points = append(points, domain.Coordinate{Lat: round6(lat), Lng: round6(lng)})
			if len(points) >= maxPoints {
				return points
			}
		}
	}
	return points
}

func (u *riskAreaUsecase) buildRiverOverlay(ctx context.Context, hours int, mode domain.ForecastMode) (*geojson.FeatureCollection, string) {
	lines, err := u.rivers.Lines()
	if err != nil || len(lines) == 0 {
		return nil, "River geometry unavailable for area overlay."
	}

	overlay := geojson.NewFeatureCollection()
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		mid := line[len(line)/2]
		midLat, midLng := round6(mid[1]), round6(mid[0])
		if !u.inBounds(midLat, midLng) {
			continue
		}

		assessment, err := u.risk.Assess(ctx, midLat, midLng, hours, mode, nil)
		if err != nil || float64(assessment.RiskScore) < riverRiskThreshold {
			continue
		}

		feature := geojson.NewFeature(line)
		feature.Properties = geojson.Properties{
			"risk_score": float64(assessment.RiskScore),
			"risk_level": string(assessment.RiskLevel),
			"lat":        midLat,
			"lng":        midLng,
		}
		overlay.Append(feature)
	}
	return overlay, ""
}

func (u *riskAreaUsecase) buildRoadOverlay(ctx context.Context, hours int, mode domain.ForecastMode) (*geojson.FeatureCollection, string) {
	graph, err := u.roads.Load()
	if err != nil {
		return nil, fmt.Sprintf("Road graph unavailable: %v", err)
	}

	edges := graph.Edges()
	stride := 1
	if len(edges) > maxRoadEdgesEvaluate {
		stride = int(math.Ceil(float64(len(edges)) / maxRoadEdgesEvaluate))
	}

	overlay := geojson.NewFeatureCollection()
	for i := 0; i < len(edges); i += stride {
		edge := edges[i]
		from, _ := graph.Node(edge.From)
		to, _ := graph.Node(edge.To)
		if !u.inBounds(from.Lat, from.Lng) || !u.inBounds(to.Lat, to.Lng) {
			continue
		}

		midLat := (from.Lat + to.Lat) / 2
		midLng := (from.Lng + to.Lng) / 2
		upstreamNorm := u.upstream.Index(ctx, midLat, midLng, hours, mode, nil).IndexNorm
		hazard := u.roadHazard(ctx, midLat, midLng, hours, upstreamNorm, mode)
		if hazard < roadHazardThreshold {
			continue
		}

		feature := geojson.NewFeature(orb.LineString{
			{round6(from.Lng), round6(from.Lat)},
			{round6(to.Lng), round6(to.Lat)},
		})
		feature.Properties = geojson.Properties{
			"risk_score":   utils.Round2(hazard),
			"risk_level":   hazardLevel(hazard),
			"hazard_score": utils.Round2(hazard),
			"length_m":     utils.Round2(edge.LengthM),
		}
		overlay.Append(feature)
	}
	return overlay, ""
}

// roadHazard applies the same edge-hazard rules the router uses, evaluated
// against a per-midpoint upstream sample.
func (u *riskAreaUsecase) roadHazard(ctx context.Context, lat, lng float64, hours int, upstreamNorm float64, mode domain.ForecastMode) float64 {
	rainfall := u.weather.HourlyRainSum(ctx, lat, lng, hours, mode)

	hazard := 0.0
	elevation, _ := u.terrain.Elevation(ctx, lat, lng, false)
	if elevation < 20 {
		hazard += 2
	}

	riverKm := u.terrain.RiverDistanceKm(lat, lng)
	if riverKm <= 0.25 {
		hazard += 2
		hazard += upstreamNorm / 100.0 * 4.0
	} else if riverKm <= 0.75 {
		hazard += upstreamNorm / 100.0 * 2.0
	}

	if rainfall > 30 {
		hazard++
	}

	return utils.Clamp(hazard, 0.0, 100.0)
}

func hazardLevel(hazard float64) string {
	if hazard >= 12 {
		return string(domain.RiskHigh)
	}
	if hazard >= 6 {
		return string(domain.RiskMedium)
	}
	return string(domain.RiskLow)
}

func (u *riskAreaUsecase) inBounds(lat, lng float64) bool {
	return lat >= u.area.South && lat <= u.area.North &&
		lng >= u.area.West && lng <= u.area.East
}

func (u *riskAreaUsecase) loadCached(ctx context.Context, key string) *dto.RiskAreaResponse {
	data, err := u.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}
	var response dto.RiskAreaResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil
	}
	return &response
}

func (u *riskAreaUsecase) storeCached(ctx context.Context, key string, response *dto.RiskAreaResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
		u.logger.Debug("risk area cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func round6(value float64) float64 {
	return math.Round(value*1e6) / 1e6
}
