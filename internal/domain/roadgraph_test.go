package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lengthCost(e *RoadEdge) float64 { return e.LengthM }

// Square 1-2-3-4 with a diagonal shortcut 1-3.
func buildRoadSquare() *RoadGraph {
	g := NewRoadGraph()
	g.AddNode(RoadNode{ID: 1, Lat: 10.00, Lng: 122.00})
	g.AddNode(RoadNode{ID: 2, Lat: 10.00, Lng: 122.01})
	g.AddNode(RoadNode{ID: 3, Lat: 10.01, Lng: 122.01})
	g.AddNode(RoadNode{ID: 4, Lat: 10.01, Lng: 122.00})
	g.AddEdge(1, 2, 1000)
	g.AddEdge(2, 3, 1000)
	g.AddEdge(3, 4, 1000)
	g.AddEdge(4, 1, 1000)
	g.AddEdge(1, 3, 1500)
	return g
}

func TestRoadGraphNearestNode(t *testing.T) {
	g := buildRoadSquare()

	node, ok := g.NearestNode(10.001, 122.001)
	require.True(t, ok)
	assert.Equal(t, int64(1), node.ID)
}

func TestRoadGraphShortestPath(t *testing.T) {
	g := buildRoadSquare()

	t.Run("diagonal wins", func(t *testing.T) {
		path, ok := g.ShortestPath(1, 3, nil, lengthCost)
		require.True(t, ok)
		assert.Equal(t, []int64{1, 3}, path)
	})

	t.Run("same origin and destination", func(t *testing.T) {
		path, ok := g.ShortestPath(2, 2, nil, lengthCost)
		require.True(t, ok)
		assert.Equal(t, []int64{2}, path)
	})

	t.Run("restricted node set blocks path", func(t *testing.T) {
		within := map[int64]struct{}{1: {}, 2: {}}
		_, ok := g.ShortestPath(1, 3, within, lengthCost)
		assert.False(t, ok)
	})

	t.Run("disconnected destination", func(t *testing.T) {
		g.AddNode(RoadNode{ID: 99, Lat: 11.0, Lng: 123.0})
		_, ok := g.ShortestPath(1, 99, nil, lengthCost)
		assert.False(t, ok)
	})
}

func TestRoadGraphShortestPathCostFunction(t *testing.T) {
	// Under a cost function that penalizes the diagonal, the path must route
	// around the square instead.
	g := buildRoadSquare()
	cost := func(e *RoadEdge) float64 {
		if e.LengthM == 1500 {
			return e.LengthM + 1000
		}
		return e.LengthM
	}

	path, ok := g.ShortestPath(1, 3, nil, cost)
	require.True(t, ok)
	assert.Len(t, path, 3)
	assert.NotEqual(t, []int64{1, 3}, path)
}

func TestRoadGraphParallelEdges(t *testing.T) {
	g := NewRoadGraph()
	g.AddNode(RoadNode{ID: 1, Lat: 10.0, Lng: 122.0})
	g.AddNode(RoadNode{ID: 2, Lat: 10.0, Lng: 122.01})
	long := g.AddEdge(1, 2, 2000)
	short := g.AddEdge(1, 2, 900)

	path, ok := g.ShortestPath(1, 2, nil, lengthCost)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, path)

	chosen := g.MinCostEdge(1, 2, lengthCost)
	assert.Same(t, short, chosen)
	assert.NotSame(t, long, chosen)
}

func TestRoadGraphNeighborhood(t *testing.T) {
	g := buildRoadSquare()

	t.Run("radius covers adjacent nodes", func(t *testing.T) {
		reached := g.Neighborhood(1, 1000)
		assert.Contains(t, reached, int64(1))
		assert.Contains(t, reached, int64(2))
		assert.Contains(t, reached, int64(4))
		assert.NotContains(t, reached, int64(3))
	})

	t.Run("cumulative length, not hops", func(t *testing.T) {
		reached := g.Neighborhood(1, 2000)
		assert.Len(t, reached, 4)
	})

	t.Run("unknown origin", func(t *testing.T) {
		reached := g.Neighborhood(42, 1000)
		assert.Empty(t, reached)
	})
}
