package repository

import "context"

// ElevationProvider queries a remote elevation API for a single point.
type ElevationProvider interface {
	Elevation(ctx context.Context, lat, lng float64) (float64, error)
}
