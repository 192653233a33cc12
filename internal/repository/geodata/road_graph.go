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

type roadGraphFile struct {
	Nodes []struct {
		ID  int64   `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"nodes"`
	Edges []struct {
		From    int64   `json:"from"`
		To      int64   `json:"to"`
		LengthM float64 `json:"length_m"`
	} `json:"edges"`
}

type roadGraphRepository struct {
	path   string
	logger *zap.Logger

	once  sync.Once
	graph *domain.RoadGraph
	err   error
}

func NewRoadGraphRepository(path string, logger *zap.Logger) repository.RoadGraphRepository {
	return &roadGraphRepository{path: path, logger: logger}
}

func (r *roadGraphRepository) Load() (*domain.RoadGraph, error) {
	r.once.Do(func() {
		r.graph, r.err = r.load()
		if r.err != nil {
			r.logger.Error("road graph load failed", zap.String("path", r.path), zap.Error(r.err))
		} else {
			r.logger.Info("road graph loaded",
				zap.String("path", r.path),
				zap.Int("nodes", r.graph.NodeCount()),
				zap.Int("edges", r.graph.EdgeCount()))
		}
	})
	return r.graph, r.err
}

func (r *roadGraphRepository) load() (*domain.RoadGraph, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read road graph: %w", err)
	}

	var file roadGraphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse road graph: %w", err)
	}

	graph := domain.NewRoadGraph()
	for _, n := range file.Nodes {
		graph.AddNode(domain.RoadNode{ID: n.ID, Lat: n.Lat, Lng: n.Lng})
	}
	for _, e := range file.Edges {
		graph.AddEdge(e.From, e.To, e.LengthM)
	}
	return graph, nil
}
