package repository

import "context"

// RainfallProvider fetches hourly rainfall from an external forecast API.
// referenceTime selects the historical endpoint when non-zero (unix seconds);
// zero means the live forecast. Implementations return transport and payload
// errors as-is; the weather use case decides how to degrade.
type RainfallProvider interface {
	HourlyRain(ctx context.Context, lat, lng float64, hours int, referenceTime int64) ([]float64, error)
}
