package domain

import (
	"container/heap"

	"github.com/floodwatch-service/internal/pkg/utils"
)

// RiverNode is a river-segment endpoint. IDs are "lat,lng" keys produced by
// the offline graph builder (see NodeKey).
type RiverNode struct {
	ID  string
	Lat float64
	Lng float64
}

// RiverEdge is a directed river segment, oriented from higher to lower
// elevation so that following reversed edges enumerates upstream contributors.
type RiverEdge struct {
	From    string
	To      string
	LengthM float64
}

// RiverGraph is the directed river-flow graph. It is built once offline,
// loaded read-only, and safe for concurrent readers.
type RiverGraph struct {
	nodes    map[string]RiverNode
	upstream map[string][]RiverEdge // keyed by edge target: reverse adjacency
}

func NewRiverGraph() *RiverGraph {
	return &RiverGraph{
		nodes:    make(map[string]RiverNode),
		upstream: make(map[string][]RiverEdge),
	}
}

func (g *RiverGraph) AddNode(node RiverNode) {
	g.nodes[node.ID] = node
}

func (g *RiverGraph) AddEdge(from, to string, lengthM float64) {
	g.upstream[to] = append(g.upstream[to], RiverEdge{From: from, To: to, LengthM: lengthM})
}

func (g *RiverGraph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

func (g *RiverGraph) Node(id string) (RiverNode, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// NearestNode finds the river node closest to the coordinate by linear scan.
// The graph is small enough that a spatial index is not needed.
func (g *RiverGraph) NearestNode(lat, lng float64) (RiverNode, bool) {
	if g == nil || len(g.nodes) == 0 {
		return RiverNode{}, false
	}

	var nearest RiverNode
	found := false
	best := 0.0
	for _, node := range g.nodes {
		distance := utils.HaversineKm(lat, lng, node.Lat, node.Lng)
		if !found || distance < best {
			nearest = node
			best = distance
			found = true
		}
	}
	return nearest, found
}

// UpstreamDistances runs a single-source shortest-path traversal over the
// reversed graph from source, bounded by cutoffM meters of cumulative edge
// length. The result maps every upstream node id (including the source, at
// distance 0) to its travel distance.
func (g *RiverGraph) UpstreamDistances(source string, cutoffM float64) map[string]float64 {
	distances := map[string]float64{}
	if g == nil {
		return distances
	}
	if _, ok := g.nodes[source]; !ok {
		return distances
	}

	distances[source] = 0
	queue := &pqueue[string]{{node: source, priority: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		item := heap.Pop(queue).(pqItem[string])
		if item.priority > distances[item.node] {
			continue // stale entry
		}

		for _, edge := range g.upstream[item.node] {
			next := item.priority + edge.LengthM
			if next > cutoffM {
				continue
			}
			if known, ok := distances[edge.From]; !ok || next < known {
				distances[edge.From] = next
				heap.Push(queue, pqItem[string]{node: edge.From, priority: next})
			}
		}
	}

	return distances
}
