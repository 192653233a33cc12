package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/observability"
	"github.com/floodwatch-service/internal/pkg/utils"
)

// Score weights for the 1-6 hour flood outlook.
const (
	weightRainfall   = 0.35
	weightUpstream   = 0.35
	weightRiver      = 0.15
	weightElevation  = 0.10
	weightHistorical = 0.05
)

const degreeToKm = 111.0

// RiskUsecase fuses rainfall, elevation, river proximity, historical flood
// zones, and the upstream rain index into a point risk assessment.
type RiskUsecase interface {
	Assess(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode, overrides map[string][]float64) (*domain.RiskAssessment, error)
}

type riskUsecase struct {
	weather  WeatherUsecase
	terrain  TerrainUsecase
	upstream UpstreamUsecase
	zones    repository.FloodZoneRepository
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewRiskUsecase(
	weather WeatherUsecase,
	terrain TerrainUsecase,
	upstream UpstreamUsecase,
	zones repository.FloodZoneRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) RiskUsecase {
	return &riskUsecase{
		weather:  weather,
		terrain:  terrain,
		upstream: upstream,
		zones:    zones,
		metrics:  metrics,
		logger:   logger,
	}
}

func (u *riskUsecase) Assess(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode, overrides map[string][]float64) (*domain.RiskAssessment, error) {
	if !utils.ValidateCoordinates(lat, lng) {
		return nil, fmt.Errorf("invalid coordinates %.4f,%.4f", lat, lng)
	}
	safeHours := ClampHours(hours)

	rainfallMM := u.weather.HourlyRainSum(ctx, lat, lng, safeHours, mode)
	elevationM, _ := u.terrain.Elevation(ctx, lat, lng, true)
	elevFactor := elevationFactor(elevationM)
	riverDistanceKm := u.terrain.RiverDistanceKm(lat, lng)
	riverFactor := riverProximityFactor(riverDistanceKm)
	histFactor, inZone := u.historicalFloodFactor(lat, lng)
	summary := u.upstream.Index(ctx, lat, lng, safeHours, mode, overrides)

	raw := rainfallMM*weightRainfall +
		summary.IndexNorm*weightUpstream +
		riverFactor*weightRiver +
		elevFactor*weightElevation +
		histFactor*weightHistorical
	score := int(math.Round(utils.Clamp(raw, 0.0, 100.0)))
	level := domain.ClassifyRisk(score)

	depth := estimateDepth(rainfallMM, summary.IndexNorm, elevationM)

	signals := domain.RiskSignals{
		RainfallMM:       rainfallMM,
		ElevationM:       elevationM,
		RiverDistanceKM:  riverDistanceKm,
		ElevationFactor:  elevFactor,
		RiverFactor:      riverFactor,
		HistoricalFactor: histFactor,
		UpstreamNorm:     summary.IndexNorm,
		InFloodZone:      inZone,
		NearFloodZone:    !inZone && histFactor >= 30,
	}

	assessment := &domain.RiskAssessment{
		RiskScore:           score,
		RiskLevel:           level,
		Explanation:         buildExplanation(signals, level),
		Signals:             signals,
		ExpectedPeakInHours: summary.ExpectedPeakInHours,
		EstimatedDepthM:     depth,
		DepthZone:           domain.DepthZoneFor(depth),
		Upstream:            summary,
	}

	if u.metrics != nil {
		u.metrics.RiskAssessments.WithLabelValues(string(level)).Inc()
		u.metrics.RiskScoreHistogram.Observe(float64(score))
	}

	return assessment, nil
}

// elevationFactor: lower ground floods first.
func elevationFactor(elevationM float64) float64 {
	switch {
	case elevationM < 20:
		return 100.0
	case elevationM < 50:
		return 65.0
	default:
		return 35.0
	}
}

// riverProximityFactor ramps linearly from 100 at 50 m down to 0 at 20 km.
func riverProximityFactor(distanceKm float64) float64 {
	if distanceKm <= 0.05 {
		return 100.0
	}
	if distanceKm >= 20.0 {
		return 0.0
	}
	return utils.Clamp((20.0-distanceKm)/19.95*100.0, 0.0, 100.0)
}

// historicalFloodFactor is 100 inside a recorded flood polygon, tiered by
// approximate distance otherwise. Missing zone data degrades to zero.
func (u *riskUsecase) historicalFloodFactor(lat, lng float64) (float64, bool) {
	zones, err := u.zones.Zones()
	if err != nil || len(zones) == 0 {
		return 0.0, false
	}

	point := orb.Point{lng, lat}
	minDegDistance := math.Inf(1)
	for _, zone := range zones {
		if planar.PolygonContains(zone, point) {
			return 100.0, true
		}
		if d := planar.DistanceFrom(zone, point); d < minDegDistance {
			minDegDistance = d
		}
	}

	approxKm := minDegDistance * degreeToKm
	switch {
	case approxKm < 1.0:
		return 60.0, false
	case approxKm < 3.0:
		return 30.0, false
	default:
		return 5.0, false
	}
}

// estimateDepth blends the rainfall and upstream signals and scales by how
// low the terrain sits, bounded to 0-3 m.
func estimateDepth(rainfallMM, upstreamNorm, elevationM float64) float64 {
	rainNorm := utils.Clamp(rainfallMM/50.0*100.0, 0.0, 100.0)
	signal := 0.6*rainNorm + 0.4*upstreamNorm

	scale := 0.7
	switch {
	case elevationM < 20:
		scale = 1.2
	case elevationM < 50:
		scale = 1.0
	}

	return utils.Round2(utils.Clamp(signal/100.0*2.5*scale, 0.0, 3.0))
}

// buildExplanation produces the ordered human-readable signal trace. The
// numeric truth lives in RiskSignals; these strings are presentation only.
func buildExplanation(s domain.RiskSignals, level domain.RiskLevel) []string {
	var lines []string

	if s.RainfallMM >= 25 {
		lines = append(lines, "Heavy rainfall forecast")
	} else if s.RainfallMM >= 12 {
		lines = append(lines, "Moderate rainfall forecast")
	}

	if s.ElevationFactor >= 65 {
		lines = append(lines, "Low elevation area")
	}

	if s.RiverFactor >= 55 {
		lines = append(lines, "Close to river")
	}

	if s.UpstreamNorm >= 40 {
		lines = append(lines, "Significant upstream rainfall")
	}

	if s.InFloodZone {
		lines = append(lines, "Inside historical flood zone")
	} else if s.NearFloodZone {
		lines = append(lines, "Near historical flood zone")
	}

	if level == domain.RiskHigh {
		lines = append(lines, "High flood risk in the forecast window")
	}

	if len(lines) == 0 {
		lines = append(lines, "No major flood risk indicators")
	}

	return lines
}
