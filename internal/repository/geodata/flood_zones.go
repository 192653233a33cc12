package geodata

import (
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain/repository"
)

// floodZoneRepository loads historical flood extents from a GeoJSON file.
// An absent file is not an error: scoring degrades to "no known zones".
type floodZoneRepository struct {
	path   string
	logger *zap.Logger

	once  sync.Once
	zones []orb.Polygon
	err   error
}

func NewFloodZoneRepository(path string, logger *zap.Logger) repository.FloodZoneRepository {
	return &floodZoneRepository{path: path, logger: logger}
}

func (r *floodZoneRepository) Zones() ([]orb.Polygon, error) {
	r.once.Do(func() {
		r.zones, r.err = r.load()
		if r.err != nil {
			r.logger.Error("flood zones load failed", zap.String("path", r.path), zap.Error(r.err))
		} else {
			r.logger.Info("flood zones loaded",
				zap.String("path", r.path),
				zap.Int("polygons", len(r.zones)))
		}
	})
	return r.zones, r.err
}

func (r *floodZoneRepository) load() ([]orb.Polygon, error) {
	if r.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("flood zone file missing, historical factor will degrade",
				zap.String("path", r.path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read flood zones: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flood zones: %w", err)
	}

	var zones []orb.Polygon
	for _, feature := range fc.Features {
		switch geom := feature.Geometry.(type) {
		case orb.Polygon:
			zones = append(zones, geom)
		case orb.MultiPolygon:
			zones = append(zones, geom...)
		}
	}
	return zones, nil
}
