package usecase

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
)

type fakeTerrain struct {
	elevation float64
	riverKm   float64
}

func (f *fakeTerrain) Elevation(_ context.Context, _, _ float64, _ bool) (float64, ElevationSource) {
	return f.elevation, ElevationGrid
}

func (f *fakeTerrain) RiverDistanceKm(_, _ float64) float64 {
	return f.riverKm
}

type fakeUpstream struct {
	summary domain.UpstreamSummary
}

func (f *fakeUpstream) Index(_ context.Context, _, _ float64, _ int, _ domain.ForecastMode, _ map[string][]float64) domain.UpstreamSummary {
	return f.summary
}

type fakeFloodZones struct {
	zones []orb.Polygon
}

func (f *fakeFloodZones) Zones() ([]orb.Polygon, error) { return f.zones, nil }

func squareZone(south, west, north, east float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{west, south}, {east, south}, {east, north}, {west, north}, {west, south},
	}}
}

func newRiskForTest(weather WeatherUsecase, terrain TerrainUsecase, upstream UpstreamUsecase, zones *fakeFloodZones) RiskUsecase {
	return NewRiskUsecase(weather, terrain, upstream, zones, nil, zap.NewNop())
}

func TestRiskUsecase_InsideFloodZone(t *testing.T) {
	zones := &fakeFloodZones{zones: []orb.Polygon{squareZone(10.0, 122.0, 11.0, 123.0)}}
	u := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 80, riverKm: 50},
		&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
		zones,
	)

	assessment, err := u.Assess(context.Background(), 10.5, 122.5, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, assessment.Signals.HistoricalFactor)
	assert.True(t, assessment.Signals.InFloodZone)
	assert.Contains(t, assessment.Explanation, "Inside historical flood zone")
	// 0 rain, safe terrain: 100*0.05 + 35*0.10, rounded
	assert.Equal(t, 9, assessment.RiskScore)
}

func TestRiskUsecase_NearFloodZoneTiers(t *testing.T) {
	// zone ends at lng 122.5; test points sit east of it
	zones := &fakeFloodZones{zones: []orb.Polygon{squareZone(10.0, 122.0, 11.0, 122.5)}}
	u := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 80, riverKm: 50},
		&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
		zones,
	)
	ctx := context.Background()

	// ~0.55 km east
	near, err := u.Assess(ctx, 10.5, 122.505, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 60.0, near.Signals.HistoricalFactor)
	assert.False(t, near.Signals.InFloodZone)
	assert.True(t, near.Signals.NearFloodZone)
	assert.Contains(t, near.Explanation, "Near historical flood zone")

	// ~2.2 km east
	mid, err := u.Assess(ctx, 10.5, 122.52, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, mid.Signals.HistoricalFactor)

	// ~55 km east
	far, err := u.Assess(ctx, 10.5, 123.0, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, far.Signals.HistoricalFactor)
	assert.False(t, far.Signals.NearFloodZone)
}

func TestRiskUsecase_NoZoneDataDegrades(t *testing.T) {
	u := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 80, riverKm: 50},
		&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
		&fakeFloodZones{},
	)

	assessment, err := u.Assess(context.Background(), 10.5, 122.5, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, assessment.Signals.HistoricalFactor)
	assert.False(t, assessment.Signals.InFloodZone)
}

func TestRiskUsecase_ScoreWeights(t *testing.T) {
	peak := 1.5
	u := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 10, riverKm: 0.04},
		&fakeUpstream{summary: domain.UpstreamSummary{
			IndexNorm:           80,
			DominantPoints:      []domain.UpstreamPoint{},
			ExpectedPeakInHours: &peak,
		}},
		&fakeFloodZones{},
	)

	// demo series summing to 40 mm
	assessment, err := u.Assess(context.Background(), 10.5, 122.5, 3, domain.DemoMode([]float64{20, 20}), nil)
	require.NoError(t, err)

	// 40*0.35 + 80*0.35 + 100*0.15 + 100*0.10 + 0*0.05 = 67
	assert.Equal(t, 67, assessment.RiskScore)
	assert.Equal(t, domain.RiskHigh, assessment.RiskLevel)
	assert.Equal(t, 100.0, assessment.Signals.RiverFactor)
	assert.Equal(t, 100.0, assessment.Signals.ElevationFactor)
	require.NotNil(t, assessment.ExpectedPeakInHours)
	assert.Equal(t, 1.5, *assessment.ExpectedPeakInHours)
	assert.Contains(t, assessment.Explanation, "Heavy rainfall forecast")
	assert.Contains(t, assessment.Explanation, "Low elevation area")
	assert.Contains(t, assessment.Explanation, "Close to river")
	assert.Contains(t, assessment.Explanation, "Significant upstream rainfall")
	assert.Contains(t, assessment.Explanation, "High flood risk in the forecast window")
}

func TestRiskUsecase_FactorBounds(t *testing.T) {
	cases := []struct {
		name      string
		elevation float64
		riverKm   float64
	}{
		{"sea level by river", 0, 0},
		{"highland far away", 500, 999},
		{"mid elevation", 35, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newRiskForTest(
				&fakeWeather{sums: map[string]float64{}},
				&fakeTerrain{elevation: tc.elevation, riverKm: tc.riverKm},
				&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
				&fakeFloodZones{},
			)
			a, err := uc.Assess(context.Background(), 10.5, 122.5, 3, domain.DemoMode(nil), nil)
			require.NoError(t, err)

			for name, v := range map[string]float64{
				"elevation":  a.Signals.ElevationFactor,
				"river":      a.Signals.RiverFactor,
				"historical": a.Signals.HistoricalFactor,
				"score":      float64(a.RiskScore),
			} {
				assert.GreaterOrEqual(t, v, 0.0, name)
				assert.LessOrEqual(t, v, 100.0, name)
			}
			assert.GreaterOrEqual(t, a.EstimatedDepthM, 0.0)
			assert.LessOrEqual(t, a.EstimatedDepthM, 3.0)
		})
	}
}

func TestRiskUsecase_DepthScalesWithSignal(t *testing.T) {
	low := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 100, riverKm: 30},
		&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
		&fakeFloodZones{},
	)
	high := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{elevation: 5, riverKm: 0.1},
		&fakeUpstream{summary: domain.UpstreamSummary{IndexNorm: 100, DominantPoints: []domain.UpstreamPoint{}}},
		&fakeFloodZones{},
	)
	ctx := context.Background()

	dry, err := low.Assess(ctx, 10.5, 122.5, 3, domain.DemoMode(nil), nil)
	require.NoError(t, err)
	wet, err := high.Assess(ctx, 10.5, 122.5, 3, domain.DemoMode([]float64{25, 25}), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, dry.EstimatedDepthM)
	assert.Equal(t, domain.DepthShallow, dry.DepthZone)
	assert.Greater(t, wet.EstimatedDepthM, 1.0)
	assert.NotEqual(t, domain.DepthShallow, wet.DepthZone)
}

func TestRiskUsecase_RejectsInvalidCoordinates(t *testing.T) {
	u := newRiskForTest(
		&fakeWeather{sums: map[string]float64{}},
		&fakeTerrain{},
		&fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)},
		&fakeFloodZones{},
	)

	_, err := u.Assess(context.Background(), 91.0, 122.5, 3, domain.LiveMode(), nil)
	assert.Error(t, err)
}
