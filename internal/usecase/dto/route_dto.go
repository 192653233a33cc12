package dto

// RouteQuery carries the raw query parameters of a safe-route request.
type RouteQuery struct {
	OriginLat     float64  `query:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLng     float64  `query:"origin_lng" validate:"required,min=-180,max=180"`
	DestLat       float64  `query:"dest_lat" validate:"required,min=-90,max=90"`
	DestLng       float64  `query:"dest_lng" validate:"required,min=-180,max=180"`
	SafetyWeight  *float64 `query:"safety_weight"`
	Hours         int      `query:"hours"`
	WeatherMode   string   `query:"weather_mode"`
	ReferenceTime string   `query:"reference_time"`
	DemoRainfall  string   `query:"demo_rainfall"`
}

// EvacuationQuery locates nearby shelters.
type EvacuationQuery struct {
	Lat   float64 `query:"lat" validate:"required,min=-90,max=90"`
	Lng   float64 `query:"lng" validate:"required,min=-180,max=180"`
	Limit int     `query:"limit"`
}
