package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/observability"
	"github.com/floodwatch-service/internal/pkg/utils"
)

// RainSource records where a rainfall series actually came from. The public
// contract always yields values; the source preserves why a fallback fired.
type RainSource string

const (
	RainSourceAPI      RainSource = "api"
	RainSourceCache    RainSource = "cache"
	RainSourceDemo     RainSource = "demo"
	RainSourceFallback RainSource = "fallback"
)

// WeatherUsecase serves hourly rainfall series for a coordinate under the
// live, demo, and historical forecast modes. Lookups never fail: transport
// and payload errors degrade to a deterministic synthetic series.
type WeatherUsecase interface {
	HourlyRain(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode) ([]float64, RainSource)
	HourlyRainSum(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode) float64
}

type weatherUsecase struct {
	provider repository.RainfallProvider
	cache    repository.CacheRepository
	cacheTTL time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewWeatherUsecase(
	provider repository.RainfallProvider,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) WeatherUsecase {
	return &weatherUsecase{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// ClampHours bounds a forecast horizon to the supported 1-6 hour window.
func ClampHours(hours int) int {
	if hours < 1 {
		return 1
	}
	if hours > domain.DemoHoursLimit {
		return domain.DemoHoursLimit
	}
	return hours
}

func (u *weatherUsecase) HourlyRain(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode) ([]float64, RainSource) {
	safeHours := ClampHours(hours)

	if mode.Kind() == domain.ForecastDemo {
		values := normalizeSeries(mode.DemoValues(), safeHours)
		u.storeCached(ctx, u.cacheKey(lat, lng, mode), values)
		u.countSource(RainSourceDemo)
		return values, RainSourceDemo
	}

	key := u.cacheKey(lat, lng, mode)
	if cached, ok := u.loadCached(ctx, key, safeHours); ok {
		if u.metrics != nil {
			u.metrics.WeatherCacheHits.Inc()
		}
		return cached[:safeHours], RainSourceCache
	}

	values, err := u.provider.HourlyRain(ctx, lat, lng, safeHours, mode.ReferenceTime())
	if err != nil {
		u.logger.Debug("weather lookup degraded to fallback",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.String("mode", string(mode.Kind())),
			zap.Error(err))
		if u.metrics != nil {
			u.metrics.WeatherFallbacks.Inc()
		}
		values = fallbackHourlyRain(lat, lng, safeHours, mode.ReferenceTime())
		u.storeCached(ctx, key, values)
		u.countSource(RainSourceFallback)
		return values, RainSourceFallback
	}

	values = normalizeSeries(values, safeHours)
	u.storeCached(ctx, key, values)
	u.countSource(RainSourceAPI)
	return values, RainSourceAPI
}

func (u *weatherUsecase) HourlyRainSum(ctx context.Context, lat, lng float64, hours int, mode domain.ForecastMode) float64 {
	values, _ := u.HourlyRain(ctx, lat, lng, hours, mode)
	total := 0.0
	for _, v := range values {
		total += v
	}
	return utils.Round1(total)
}

func (u *weatherUsecase) cacheKey(lat, lng float64, mode domain.ForecastMode) string {
	return fmt.Sprintf("weather:%s:%s", domain.NodeKey(lat, lng), mode.CacheSuffix())
}

// loadCached hits only when the stored series covers the requested horizon.
func (u *weatherUsecase) loadCached(ctx context.Context, key string, hours int) ([]float64, bool) {
	data, err := u.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, false
	}
	if len(values) < hours {
		return nil, false
	}
	return values, true
}

func (u *weatherUsecase) storeCached(ctx context.Context, key string, values []float64) {
	data, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
		u.logger.Debug("weather cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (u *weatherUsecase) countSource(source RainSource) {
	if u.metrics != nil {
		u.metrics.WeatherRequests.WithLabelValues(string(source)).Inc()
	}
}

// normalizeSeries rounds to 0.1 mm and pads or truncates to exactly hours.
func normalizeSeries(values []float64, hours int) []float64 {
	out := make([]float64, hours)
	for i := 0; i < hours && i < len(values); i++ {
		out[i] = utils.Round1(values[i])
	}
	return out
}

// fallbackHourlyRain derives a reproducible series from the rounded
// coordinate, so repeated calls for the same point match without a live
// network dependency.
func fallbackHourlyRain(lat, lng float64, hours int, referenceTime int64) []float64 {
	key := fmt.Sprintf("%.4f:%.4f:%d", lat, lng, referenceTime)
	h := fnv.New64a()
	h.Write([]byte(key))
	base := 5.0 + float64(h.Sum64()%12)*0.4

	values := make([]float64, hours)
	for i := range values {
		values[i] = utils.Round1(utils.Clamp(base-float64(i)*0.65, 0.0, 50.0))
	}
	return values
}
