package dto

import "github.com/paulmach/orb/geojson"

// RiskAreaQuery controls the area-wide sampling overlay.
type RiskAreaQuery struct {
	Hours         int    `query:"hours"`
	Severity      string `query:"severity"`
	MaxPoints     int    `query:"max_points"`
	IncludeRivers *bool  `query:"include_rivers"`
	IncludeRoads  *bool  `query:"include_roads"`
	WeatherMode   string `query:"weather_mode"`
	ReferenceTime string `query:"reference_time"`
	DemoRainfall  string `query:"demo_rainfall"`
}

// AreaPoint is one sampled grid cell that crossed the severity threshold.
type AreaPoint struct {
	Lat                 float64  `json:"lat"`
	Lng                 float64  `json:"lng"`
	RiskScore           int      `json:"risk_score"`
	RiskLevel           string   `json:"risk_level"`
	ExpectedPeakInHours *float64 `json:"expected_peak_in_hours"`
	UpstreamNodeID      string   `json:"upstream_node_id,omitempty"`
}

// RiskAreaMeta describes how the overlay was produced.
type RiskAreaMeta struct {
	Hours         int            `json:"hours"`
	Source        string         `json:"source"`
	SampledPoints int            `json:"sampled_points"`
	MaxPoints     int            `json:"max_points"`
	Thresholds    map[string]any `json:"thresholds"`
	IncludeRivers bool           `json:"include_rivers"`
	IncludeRoads  bool           `json:"include_roads"`
	Warnings      []string       `json:"warnings"`
	RuntimeMS     float64        `json:"runtime_ms"`
}

// RiskAreaResponse is the full map overlay payload.
type RiskAreaResponse struct {
	AreaPoints []AreaPoint                `json:"area_points"`
	Rivers     *geojson.FeatureCollection `json:"rivers"`
	Roads      *geojson.FeatureCollection `json:"roads"`
	Meta       RiskAreaMeta               `json:"meta"`
}
