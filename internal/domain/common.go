package domain

import (
	"strconv"
)

// Coordinate is a WGS84 point. It is the universal key for caching and
// graph node snapping.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NodeKey normalizes a coordinate to the "lat,lng" key format used by the
// river graph and by per-node demo rainfall overrides. Coordinates are
// rounded to 5 decimals (~1 m), matching the offline graph builder.
func NodeKey(lat, lng float64) string {
	return strconv.FormatFloat(round(lat, 5), 'f', -1, 64) +
		"," +
		strconv.FormatFloat(round(lng, 5), 'f', -1, 64)
}

func round(value float64, decimals int) float64 {
	shift := 1.0
	for i := 0; i < decimals; i++ {
		shift *= 10
	}
	if value >= 0 {
		return float64(int64(value*shift+0.5)) / shift
	}
	return float64(int64(value*shift-0.5)) / shift
}
