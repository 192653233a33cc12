package geodata

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
)

// riverGraphFile mirrors the node-link JSON written by the offline graph
// builder. Edge direction follows water flow, from upstream to downstream.
type riverGraphFile struct {
	Nodes []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"nodes"`
	Edges []struct {
		From    string  `json:"from"`
		To      string  `json:"to"`
		LengthM float64 `json:"length_m"`
	} `json:"edges"`
}

type riverGraphRepository struct {
	path   string
	logger *zap.Logger

	once  sync.Once
	graph *domain.RiverGraph
	err   error
}

func NewRiverGraphRepository(path string, logger *zap.Logger) repository.RiverGraphRepository {
	return &riverGraphRepository{path: path, logger: logger}
}

func (r *riverGraphRepository) Load() (*domain.RiverGraph, error) {
	r.once.Do(func() {
		r.graph, r.err = r.load()
		if r.err != nil {
			r.logger.Error("river graph load failed", zap.String("path", r.path), zap.Error(r.err))
		} else {
			r.logger.Info("river graph loaded",
				zap.String("path", r.path),
				zap.Int("nodes", r.graph.NodeCount()))
		}
	})
	return r.graph, r.err
}

func (r *riverGraphRepository) load() (*domain.RiverGraph, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read river graph: %w", err)
	}

	var file riverGraphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse river graph: %w", err)
	}

	graph := domain.NewRiverGraph()
	for _, n := range file.Nodes {
		id := n.ID
		if id == "" {
			id = domain.NodeKey(n.Lat, n.Lng)
		}
		graph.AddNode(domain.RiverNode{ID: id, Lat: n.Lat, Lng: n.Lng})
	}
	for _, e := range file.Edges {
		graph.AddEdge(e.From, e.To, e.LengthM)
	}
	return graph, nil
}
