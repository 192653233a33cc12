package domain

import (
	"container/heap"

	"github.com/floodwatch-service/internal/pkg/utils"
)

// RoadNode is an intersection in the road network.
type RoadNode struct {
	ID  int64
	Lat float64
	Lng float64
}

// RoadEdge is a road segment. Edges are shared pointers between both
// endpoints' adjacency lists, so per-call hazard memoization can key on the
// pointer identity.
type RoadEdge struct {
	From    int64
	To      int64
	LengthM float64
}

// Other returns the opposite endpoint of the edge.
func (e *RoadEdge) Other(id int64) int64 {
	if e.From == id {
		return e.To
	}
	return e.From
}

// RoadGraph is the road network: multi-edge, traversed undirected. Loaded
// once, treated as immutable afterwards; concurrent readers are safe.
type RoadGraph struct {
	nodes map[int64]RoadNode
	adj   map[int64][]*RoadEdge
	edges []*RoadEdge
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes: make(map[int64]RoadNode),
		adj:   make(map[int64][]*RoadEdge),
	}
}

func (g *RoadGraph) AddNode(node RoadNode) {
	g.nodes[node.ID] = node
}

// AddEdge registers a segment between two known nodes. Parallel edges are
// allowed and kept distinct.
func (g *RoadGraph) AddEdge(from, to int64, lengthM float64) *RoadEdge {
	edge := &RoadEdge{From: from, To: to, LengthM: lengthM}
	g.adj[from] = append(g.adj[from], edge)
	if to != from {
		g.adj[to] = append(g.adj[to], edge)
	}
	g.edges = append(g.edges, edge)
	return edge
}

func (g *RoadGraph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

func (g *RoadGraph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return len(g.edges)
}

func (g *RoadGraph) Node(id int64) (RoadNode, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// Edges returns every distinct edge once.
func (g *RoadGraph) Edges() []*RoadEdge {
	if g == nil {
		return nil
	}
	return g.edges
}

// NearestNode snaps a coordinate to the closest intersection by linear scan.
func (g *RoadGraph) NearestNode(lat, lng float64) (RoadNode, bool) {
	if g == nil || len(g.nodes) == 0 {
		return RoadNode{}, false
	}

	var nearest RoadNode
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

// Neighborhood returns the set of nodes reachable from origin within radiusM
// meters of cumulative edge length.
func (g *RoadGraph) Neighborhood(origin int64, radiusM float64) map[int64]struct{} {
	reached := map[int64]struct{}{}
	if g == nil {
		return reached
	}
	if _, ok := g.nodes[origin]; !ok {
		return reached
	}

	distances := map[int64]float64{origin: 0}
	reached[origin] = struct{}{}
	queue := &pqueue[int64]{{node: origin, priority: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		item := heap.Pop(queue).(pqItem[int64])
		if item.priority > distances[item.node] {
			continue
		}

		for _, edge := range g.adj[item.node] {
			neighbor := edge.Other(item.node)
			next := item.priority + edge.LengthM
			if next > radiusM {
				continue
			}
			if known, ok := distances[neighbor]; !ok || next < known {
				distances[neighbor] = next
				reached[neighbor] = struct{}{}
				heap.Push(queue, pqItem[int64]{node: neighbor, priority: next})
			}
		}
	}

	return reached
}

// ShortestPath computes the minimum-cost path between two nodes under an
// arbitrary edge cost function. When within is non-nil the search is
// restricted to that node set. Returns the node sequence and whether a path
// was found.
func (g *RoadGraph) ShortestPath(origin, dest int64, within map[int64]struct{}, cost func(*RoadEdge) float64) ([]int64, bool) {
	if g == nil {
		return nil, false
	}
	if _, ok := g.nodes[origin]; !ok {
		return nil, false
	}
	if _, ok := g.nodes[dest]; !ok {
		return nil, false
	}
	if origin == dest {
		return []int64{origin}, true
	}

	allowed := func(id int64) bool {
		if within == nil {
			return true
		}
		_, ok := within[id]
		return ok
	}
	if !allowed(origin) || !allowed(dest) {
		return nil, false
	}

	distances := map[int64]float64{origin: 0}
	cameFrom := map[int64]int64{}
	visited := map[int64]bool{}
	queue := &pqueue[int64]{{node: origin, priority: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		item := heap.Pop(queue).(pqItem[int64])
		current := item.node
		if visited[current] {
			continue
		}
		visited[current] = true

		if current == dest {
			return reconstructPath(cameFrom, origin, dest), true
		}

		for _, edge := range g.adj[current] {
			neighbor := edge.Other(current)
			if !allowed(neighbor) {
				continue
			}
			tentative := distances[current] + cost(edge)
			if known, ok := distances[neighbor]; !ok || tentative < known {
				distances[neighbor] = tentative
				cameFrom[neighbor] = current
				heap.Push(queue, pqItem[int64]{node: neighbor, priority: tentative})
			}
		}
	}

	return nil, false
}

// MinCostEdge returns the cheapest edge between two adjacent nodes under the
// given cost function, nil when the nodes are not adjacent. Path accumulation
// uses this so parallel edges resolve the same way the search relaxed them.
func (g *RoadGraph) MinCostEdge(u, v int64, cost func(*RoadEdge) float64) *RoadEdge {
	var best *RoadEdge
	bestCost := 0.0
	for _, edge := range g.adj[u] {
		if edge.Other(u) != v {
			continue
		}
		c := cost(edge)
		if best == nil || c < bestCost {
			best = edge
			bestCost = c
		}
	}
	return best
}

func reconstructPath(cameFrom map[int64]int64, origin, dest int64) []int64 {
	path := []int64{dest}
	for current := dest; current != origin; {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
