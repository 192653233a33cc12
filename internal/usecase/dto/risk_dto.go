package dto

// RiskQuery carries the raw query parameters of a point risk request.
// Forecast-mode fields stay untyped strings here; parsing into the tagged
// mode variant happens in the handler layer.
type RiskQuery struct {
	Lat                  float64 `query:"lat" validate:"required,min=-90,max=90"`
	Lng                  float64 `query:"lng" validate:"required,min=-180,max=180"`
	Hours                int     `query:"hours"`
	WeatherMode          string  `query:"weather_mode"`
	ReferenceTime        string  `query:"reference_time"`
	DemoRainfall         string  `query:"demo_rainfall"`
	DemoUpstreamRainfall string  `query:"demo_upstream_rainfall"`
}

// UpstreamQuery is the standalone upstream-index request.
type UpstreamQuery struct {
	Lat                  float64 `query:"lat" validate:"required,min=-90,max=90"`
	Lng                  float64 `query:"lng" validate:"required,min=-180,max=180"`
	Hours                int     `query:"hours"`
	WeatherMode          string  `query:"weather_mode"`
	ReferenceTime        string  `query:"reference_time"`
	DemoRainfall         string  `query:"demo_rainfall"`
	DemoUpstreamRainfall string  `query:"demo_upstream_rainfall"`
}
