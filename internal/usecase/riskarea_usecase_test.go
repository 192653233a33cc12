package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/repository/cache"
)

// fakeRisk scores by position so grid tests can carve high and low regions.
type fakeRisk struct {
	scoreFor func(lat, lng float64) int
	calls    int
}

func (f *fakeRisk) Assess(_ context.Context, lat, lng float64, _ int, _ domain.ForecastMode, _ map[string][]float64) (*domain.RiskAssessment, error) {
	f.calls++
	score := f.scoreFor(lat, lng)
	return &domain.RiskAssessment{
		RiskScore: score,
		RiskLevel: domain.ClassifyRisk(score),
		Upstream:  domain.ZeroUpstreamSummary(10800),
	}, nil
}

type riskAreaFixture struct {
	risk     *fakeRisk
	terrain  *funcTerrain
	upstream *fakeUpstream
	rivers   *fakeRiverGeometry
	roads    *fakeRoadGraphRepo
}

func newRiskAreaForTest(f riskAreaFixture) RiskAreaUsecase {
	if f.risk == nil {
		f.risk = &fakeRisk{scoreFor: func(_, _ float64) int { return 80 }}
	}
	if f.terrain == nil {
		f.terrain = safeTerrain()
	}
	if f.upstream == nil {
		f.upstream = &fakeUpstream{summary: domain.ZeroUpstreamSummary(10800)}
	}
	if f.rivers == nil {
		f.rivers = &fakeRiverGeometry{}
	}
	if f.roads == nil {
		f.roads = &fakeRoadGraphRepo{graph: domain.NewRoadGraph()}
	}
	return NewRiskAreaUsecase(
		testArea(),
		f.risk,
		&fakeWeather{sums: map[string]float64{}},
		f.terrain,
		f.upstream,
		f.rivers,
		f.roads,
		cache.NewMemoryCache(clockwork.NewFakeClock()),
		5*time.Minute,
		zap.NewNop(),
	)
}

func TestRiskAreaUsecase_SeverityFiltersPoints(t *testing.T) {
	// eastern half of the grid is high risk, western half low
	risk := &fakeRisk{scoreFor: func(_, lng float64) int {
		if lng >= 122.7 {
			return 80
		}
		return 10
	}}
	u := newRiskAreaForTest(riskAreaFixture{risk: risk})

	high, err := u.Build(context.Background(), 3, "high", 20, false, false, domain.LiveMode())
	require.NoError(t, err)
	assert.Equal(t, 20, high.Meta.SampledPoints)
	require.NotEmpty(t, high.AreaPoints)
	for _, point := range high.AreaPoints {
		assert.GreaterOrEqual(t, point.RiskScore, 65)
		assert.Equal(t, "HIGH", point.RiskLevel)
	}

	all, err := u.Build(context.Background(), 3, "all", 20, false, false, domain.LiveMode())
	require.NoError(t, err)
	assert.Len(t, all.AreaPoints, 20)
	assert.Greater(t, len(all.AreaPoints), len(high.AreaPoints))
}

func TestRiskAreaUsecase_RiverOverlay(t *testing.T) {
	rivers := &fakeRiverGeometry{lines: []orb.LineString{
		{{122.9, 10.49}, {122.9, 10.50}, {122.9, 10.51}},
		{{121.0, 10.50}, {121.0, 10.51}, {121.0, 10.52}}, // outside the area
	}}
	u := newRiskAreaForTest(riskAreaFixture{rivers: rivers})

	response, err := u.Build(context.Background(), 3, "all", 20, true, false, domain.LiveMode())
	require.NoError(t, err)

	assert.True(t, response.Meta.IncludeRivers)
	assert.Empty(t, response.Meta.Warnings)
	require.NotNil(t, response.Rivers)
	require.Len(t, response.Rivers.Features, 1)
	props := response.Rivers.Features[0].Properties
	assert.Equal(t, 80.0, props["risk_score"])
	assert.Equal(t, "HIGH", props["risk_level"])
}

func TestRiskAreaUsecase_RiverOverlaySkipsCalmSegments(t *testing.T) {
	risk := &fakeRisk{scoreFor: func(_, _ float64) int { return 30 }}
	rivers := &fakeRiverGeometry{lines: []orb.LineString{
		{{122.9, 10.49}, {122.9, 10.50}, {122.9, 10.51}},
	}}
	u := newRiskAreaForTest(riskAreaFixture{risk: risk, rivers: rivers})

	response, err := u.Build(context.Background(), 3, "all", 20, true, false, domain.LiveMode())
	require.NoError(t, err)
	assert.Empty(t, response.Rivers.Features)
}

func TestRiskAreaUsecase_MissingRiverGeometryWarns(t *testing.T) {
	u := newRiskAreaForTest(riskAreaFixture{rivers: &fakeRiverGeometry{}})

	response, err := u.Build(context.Background(), 3, "all", 20, true, false, domain.LiveMode())
	require.NoError(t, err)

	assert.False(t, response.Meta.IncludeRivers)
	require.Len(t, response.Meta.Warnings, 1)
	assert.Contains(t, response.Meta.Warnings[0], "River geometry unavailable")
	assert.Empty(t, response.Rivers.Features)
}

func TestRiskAreaUsecase_RoadOverlayFlagsHazardousEdges(t *testing.T) {
	// lowland next to a river with a saturated upstream signal: 2 + 2 + 4
	terrain := &funcTerrain{
		elev:  func(_, _ float64) float64 { return 10 },
		river: func(_, _ float64) float64 { return 0.1 },
	}
	upstream := &fakeUpstream{summary: domain.UpstreamSummary{
		IndexNorm:      100,
		DominantPoints: []domain.UpstreamPoint{},
	}}
	u := newRiskAreaForTest(riskAreaFixture{
		terrain:  terrain,
		upstream: upstream,
		roads:    &fakeRoadGraphRepo{graph: detourGraph()},
	})

	response, err := u.Build(context.Background(), 3, "all", 20, false, true, domain.LiveMode())
	require.NoError(t, err)

	assert.True(t, response.Meta.IncludeRoads)
	require.Len(t, response.Roads.Features, 3)
	props := response.Roads.Features[0].Properties
	assert.Equal(t, 8.0, props["hazard_score"])
	assert.Equal(t, "MEDIUM", props["risk_level"])
}

func TestRiskAreaUsecase_SafeRoadsProduceNoOverlay(t *testing.T) {
	u := newRiskAreaForTest(riskAreaFixture{
		roads: &fakeRoadGraphRepo{graph: detourGraph()},
	})

	response, err := u.Build(context.Background(), 3, "all", 20, false, true, domain.LiveMode())
	require.NoError(t, err)
	assert.Empty(t, response.Roads.Features)
}

func TestRiskAreaUsecase_CachesResponses(t *testing.T) {
	risk := &fakeRisk{scoreFor: func(_, _ float64) int { return 80 }}
	u := newRiskAreaForTest(riskAreaFixture{risk: risk})

	first, err := u.Build(context.Background(), 3, "all", 20, false, false, domain.LiveMode())
	require.NoError(t, err)
	sampledCalls := risk.calls

	second, err := u.Build(context.Background(), 3, "all", 20, false, false, domain.LiveMode())
	require.NoError(t, err)

	assert.Equal(t, sampledCalls, risk.calls)
	assert.Equal(t, first.AreaPoints, second.AreaPoints)

	// a different horizon misses the cache
	_, err = u.Build(context.Background(), 2, "all", 20, false, false, domain.LiveMode())
	require.NoError(t, err)
	assert.Greater(t, risk.calls, sampledCalls)
}
