package repository

import (
	"github.com/floodwatch-service/internal/domain"
	"github.com/paulmach/orb"
)

// RiverGraphRepository loads the directed river-flow graph built offline.
// Load memoizes: the file is read once per process and the error, if any,
// is sticky.
type RiverGraphRepository interface {
	Load() (*domain.RiverGraph, error)
}

// RoadGraphRepository loads the road network graph. Same load-once contract.
type RoadGraphRepository interface {
	Load() (*domain.RoadGraph, error)
}

// FloodZoneRepository provides historical flood-zone polygons. An empty slice
// (no file) is valid; scoring treats it as "no known zones".
type FloodZoneRepository interface {
	Zones() ([]orb.Polygon, error)
}

// RiverGeometryRepository provides river geometry for proximity checks:
// full linestrings when available, a flat sampled point list as fallback.
type RiverGeometryRepository interface {
	Lines() ([]orb.LineString, error)
	Points() ([]domain.Coordinate, error)
}

// ElevationGridRepository samples the offline-built elevation grid, the local
// stand-in for a DEM raster. ok is false when the grid is absent or the point
// falls outside it.
type ElevationGridRepository interface {
	Sample(lat, lng float64) (elevation float64, ok bool)
}
