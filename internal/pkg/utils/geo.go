package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// HaversineM returns the great-circle distance in meters.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineKm(lat1, lng1, lat2, lng2) * 1000.0
}

// ValidateCoordinates checks WGS84 coordinate ranges.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Round1 rounds to 1 decimal place.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// Round2 rounds to 2 decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Round3 rounds to 3 decimal places.
func Round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
