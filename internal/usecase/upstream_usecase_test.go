package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
)

type fakeRiverGraphRepo struct {
	graph *domain.RiverGraph
	err   error
}

func (f *fakeRiverGraphRepo) Load() (*domain.RiverGraph, error) {
	return f.graph, f.err
}

// fakeWeather returns a fixed rain sum per node key, ignoring the mode
// unless a demo override series was passed through.
type fakeWeather struct {
	sums map[string]float64
}

func (f *fakeWeather) HourlyRain(_ context.Context, lat, lng float64, hours int, mode domain.ForecastMode) ([]float64, RainSource) {
	return []float64{f.HourlyRainSum(nil, lat, lng, hours, mode)}, RainSourceDemo
}

func (f *fakeWeather) HourlyRainSum(_ context.Context, lat, lng float64, _ int, mode domain.ForecastMode) float64 {
	if mode.Kind() == domain.ForecastDemo && len(mode.DemoValues()) > 0 {
		total := 0.0
		for _, v := range mode.DemoValues() {
			total += v
		}
		return total
	}
	return f.sums[domain.NodeKey(lat, lng)]
}

func chainRiverGraph() *domain.RiverGraph {
	// c -> b -> a, water flowing toward a
	g := domain.NewRiverGraph()
	g.AddNode(domain.RiverNode{ID: "a", Lat: 10.50, Lng: 122.90})
	g.AddNode(domain.RiverNode{ID: "b", Lat: 10.53, Lng: 122.90})
	g.AddNode(domain.RiverNode{ID: "c", Lat: 10.56, Lng: 122.90})
	g.AddEdge("c", "b", 3600)
	g.AddEdge("b", "a", 3600)
	return g
}

func TestUpstreamUsecase_EmptyGraphReturnsZeroSummary(t *testing.T) {
	u := NewUpstreamUsecase(&fakeRiverGraphRepo{graph: domain.NewRiverGraph()}, &fakeWeather{}, zap.NewNop())

	summary := u.Index(context.Background(), 10.5, 122.9, 6, domain.LiveMode(), nil)

	assert.Equal(t, 0.0, summary.Index)
	assert.Equal(t, 0.0, summary.IndexNorm)
	assert.Equal(t, 0, summary.NodesUsed)
	assert.NotNil(t, summary.DominantPoints)
	assert.Empty(t, summary.DominantPoints)
	assert.Nil(t, summary.ExpectedPeakInHours)
	assert.Equal(t, 21600.0, summary.MaxDistanceM)
}

func TestUpstreamUsecase_GraphLoadErrorDegrades(t *testing.T) {
	u := NewUpstreamUsecase(&fakeRiverGraphRepo{err: errors.New("file missing")}, &fakeWeather{}, zap.NewNop())

	summary := u.Index(context.Background(), 10.5, 122.9, 3, domain.LiveMode(), nil)
	assert.Equal(t, 0.0, summary.IndexNorm)
	assert.Equal(t, 10800.0, summary.MaxDistanceM)
}

func TestUpstreamUsecase_ChainAggregation(t *testing.T) {
	weather := &fakeWeather{sums: map[string]float64{
		domain.NodeKey(10.50, 122.90): 10,
		domain.NodeKey(10.53, 122.90): 20,
		domain.NodeKey(10.56, 122.90): 30,
	}}
	u := NewUpstreamUsecase(&fakeRiverGraphRepo{graph: chainRiverGraph()}, weather, zap.NewNop())

	summary := u.Index(context.Background(), 10.50, 122.90, 6, domain.LiveMode(), nil)

	assert.Equal(t, 3, summary.NodesUsed)
	assert.Equal(t, 7200.0, summary.MaxUpstreamDistanceM)

	expected := 10.0 + // source at distance 0, weight 1
		20.0*math.Exp(-3600.0/20000.0) +
		30.0*math.Exp(-7200.0/20000.0)
	assert.InDelta(t, expected, summary.Index, 0.01)
	assert.InDelta(t, expected/200.0*100.0, summary.IndexNorm, 0.01)

	require.Len(t, summary.DominantPoints, 3)
	// c has the strongest decayed signal
	assert.Equal(t, "c", summary.DominantPoints[0].NodeID)

	require.NotNil(t, summary.ExpectedPeakInHours)
	assert.Equal(t, 2.0, *summary.ExpectedPeakInHours)
}

func TestUpstreamUsecase_HorizonCutoffLimitsReach(t *testing.T) {
	weather := &fakeWeather{sums: map[string]float64{
		domain.NodeKey(10.50, 122.90): 10,
		domain.NodeKey(10.53, 122.90): 20,
		domain.NodeKey(10.56, 122.90): 30,
	}}
	u := NewUpstreamUsecase(&fakeRiverGraphRepo{graph: chainRiverGraph()}, weather, zap.NewNop())

	// one hour reaches only one edge upstream
	summary := u.Index(context.Background(), 10.50, 122.90, 1, domain.LiveMode(), nil)

	assert.Equal(t, 2, summary.NodesUsed)
	assert.Equal(t, 3600.0, summary.MaxUpstreamDistanceM)
}

func TestUpstreamUsecase_PerNodeOverrides(t *testing.T) {
	weather := &fakeWeather{sums: map[string]float64{}}
	u := NewUpstreamUsecase(&fakeRiverGraphRepo{graph: chainRiverGraph()}, weather, zap.NewNop())

	overrides := map[string][]float64{
		domain.NodeKey(10.56, 122.90): {40, 40},
	}
	summary := u.Index(context.Background(), 10.50, 122.90, 6, domain.LiveMode(), overrides)

	// only c contributes, through its override series
	expected := 80.0 * math.Exp(-7200.0/20000.0)
	assert.InDelta(t, expected, summary.Index, 0.01)
	assert.Equal(t, "c", summary.DominantPoints[0].NodeID)
}
