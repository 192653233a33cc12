package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/repository/cache"
)

type fakeRainfallProvider struct {
	values []float64
	err    error
	calls  int
}

func (f *fakeRainfallProvider) HourlyRain(_ context.Context, _, _ float64, hours int, _ int64) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.values) > hours {
		return f.values[:hours], nil
	}
	return f.values, nil
}

func newWeatherForTest(provider *fakeRainfallProvider) WeatherUsecase {
	return NewWeatherUsecase(
		provider,
		cache.NewMemoryCache(clockwork.NewFakeClock()),
		600*time.Second,
		nil,
		zap.NewNop(),
	)
}

func TestWeatherUsecase_DemoPadding(t *testing.T) {
	u := newWeatherForTest(&fakeRainfallProvider{})

	values, source := u.HourlyRain(context.Background(), 10.67, 122.95, 4, domain.DemoMode([]float64{10, 20}))

	assert.Equal(t, []float64{10.0, 20.0, 0.0, 0.0}, values)
	assert.Equal(t, RainSourceDemo, source)
}

func TestWeatherUsecase_DemoTruncates(t *testing.T) {
	u := newWeatherForTest(&fakeRainfallProvider{})

	values, _ := u.HourlyRain(context.Background(), 10.67, 122.95, 2, domain.DemoMode([]float64{5, 6, 7, 8}))

	assert.Equal(t, []float64{5.0, 6.0}, values)
}

func TestWeatherUsecase_FallbackIsDeterministic(t *testing.T) {
	provider := &fakeRainfallProvider{err: errors.New("api unreachable")}
	first := newWeatherForTest(provider)
	second := newWeatherForTest(provider)

	a, sourceA := first.HourlyRain(context.Background(), 10.67, 122.95, 6, domain.LiveMode())
	b, sourceB := second.HourlyRain(context.Background(), 10.67, 122.95, 6, domain.LiveMode())

	assert.Equal(t, RainSourceFallback, sourceA)
	assert.Equal(t, RainSourceFallback, sourceB)
	assert.Equal(t, a, b)
	require.Len(t, a, 6)
	for i := 1; i < len(a); i++ {
		assert.LessOrEqual(t, a[i], a[i-1])
	}
	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 50.0)
	}
}

func TestWeatherUsecase_CacheShortCircuitsProvider(t *testing.T) {
	provider := &fakeRainfallProvider{values: []float64{1.23, 4.56, 7.89}}
	u := newWeatherForTest(provider)
	ctx := context.Background()

	first, source := u.HourlyRain(ctx, 10.67, 122.95, 3, domain.LiveMode())
	assert.Equal(t, RainSourceAPI, source)
	assert.Equal(t, []float64{1.2, 4.6, 7.9}, first)
	assert.Equal(t, 1, provider.calls)

	second, source := u.HourlyRain(ctx, 10.67, 122.95, 3, domain.LiveMode())
	assert.Equal(t, RainSourceCache, source)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}

func TestWeatherUsecase_CacheMissOnLongerHorizon(t *testing.T) {
	provider := &fakeRainfallProvider{values: []float64{1, 2, 3, 4, 5, 6}}
	u := newWeatherForTest(provider)
	ctx := context.Background()

	u.HourlyRain(ctx, 10.67, 122.95, 2, domain.LiveMode())
	assert.Equal(t, 1, provider.calls)

	values, source := u.HourlyRain(ctx, 10.67, 122.95, 5, domain.LiveMode())
	assert.Equal(t, RainSourceAPI, source)
	assert.Len(t, values, 5)
	assert.Equal(t, 2, provider.calls)
}

func TestWeatherUsecase_ModeKeysAreDistinct(t *testing.T) {
	provider := &fakeRainfallProvider{values: []float64{3, 3, 3}}
	u := newWeatherForTest(provider)
	ctx := context.Background()

	u.HourlyRain(ctx, 10.67, 122.95, 3, domain.LiveMode())
	u.HourlyRain(ctx, 10.67, 122.95, 3, domain.HistoricalMode(1700000000))

	assert.Equal(t, 2, provider.calls)
}

func TestWeatherUsecase_HourlyRainSum(t *testing.T) {
	u := newWeatherForTest(&fakeRainfallProvider{})

	sum := u.HourlyRainSum(context.Background(), 10.67, 122.95, 3, domain.DemoMode([]float64{10.5, 20.2, 1.1}))
	assert.Equal(t, 31.8, sum)
}

func TestClampHours(t *testing.T) {
	assert.Equal(t, 1, ClampHours(0))
	assert.Equal(t, 1, ClampHours(-3))
	assert.Equal(t, 4, ClampHours(4))
	assert.Equal(t, 6, ClampHours(9))
}
