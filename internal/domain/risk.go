package domain

// RiskLevel classifies a 0-100 flood risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ClassifyRisk maps a score to its level. Thresholds are inclusive.
func ClassifyRisk(score int) RiskLevel {
	if score >= 65 {
		return RiskHigh
	}
	if score >= 35 {
		return RiskMedium
	}
	return RiskLow
}

// DepthZone is the qualitative label for an estimated flood depth.
type DepthZone string

const (
	DepthShallow   DepthZone = "shallow"
	DepthKnee      DepthZone = "knee-deep"
	DepthChest     DepthZone = "chest-deep"
	DepthAboveHead DepthZone = "above-head"
	DepthTwoStorey DepthZone = "2-storey"
)

// DepthZoneFor maps estimated depth in meters to its zone by fixed bands.
func DepthZoneFor(depthM float64) DepthZone {
	switch {
	case depthM <= 0.3:
		return DepthShallow
	case depthM <= 0.8:
		return DepthKnee
	case depthM <= 1.5:
		return DepthChest
	case depthM <= 2.4:
		return DepthAboveHead
	default:
		return DepthTwoStorey
	}
}

// UpstreamPoint is one contributing river-graph node in an upstream summary.
type UpstreamPoint struct {
	NodeID         string  `json:"node_id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceM      float64 `json:"distance_m"`
	RainSum        float64 `json:"rain_sum"`
	WeightedSignal float64 `json:"weighted_signal"`
}

// UpstreamSummary aggregates decayed rainfall signal from river-graph nodes
// reachable upstream of a point within the forecast horizon.
type UpstreamSummary struct {
	Index                float64         `json:"upstream_rain_index"`
	IndexNorm            float64         `json:"upstream_rain_index_norm"`
	NodesUsed            int             `json:"upstream_nodes_used"`
	MaxUpstreamDistanceM float64         `json:"max_upstream_distance_m"`
	DominantPoints       []UpstreamPoint `json:"dominant_upstream_points"`
	ExpectedPeakInHours  *float64        `json:"expected_peak_in_hours"`
	MaxDistanceM         float64         `json:"max_distance_m"`
}

// ZeroUpstreamSummary is returned when the river graph is missing or the
// point has no nearby river node. Callers rely on it never being nil-valued.
func ZeroUpstreamSummary(maxDistanceM float64) UpstreamSummary {
	return UpstreamSummary{
		DominantPoints: []UpstreamPoint{},
		MaxDistanceM:   maxDistanceM,
	}
}

// RiskSignals carries the structured inputs behind a risk assessment so
// consumers never parse explanation text back into numbers.
type RiskSignals struct {
	RainfallMM       float64 `json:"rainfall_mm"`
	ElevationM       float64 `json:"elevation_m"`
	RiverDistanceKM  float64 `json:"river_distance_km"`
	ElevationFactor  float64 `json:"elevation_factor"`
	RiverFactor      float64 `json:"river_proximity_factor"`
	HistoricalFactor float64 `json:"historical_flood_factor"`
	UpstreamNorm     float64 `json:"upstream_index_norm"`
	InFloodZone      bool    `json:"in_flood_zone"`
	NearFloodZone    bool    `json:"near_flood_zone"`
}

// RiskAssessment is the output record of the flood risk scorer. It is owned
// by the call that produced it; nothing here is persisted by the core.
type RiskAssessment struct {
	RiskScore           int             `json:"risk_score"`
	RiskLevel           RiskLevel       `json:"risk_level"`
	Explanation         []string        `json:"explanation"`
	Signals             RiskSignals     `json:"signals"`
	ExpectedPeakInHours *float64        `json:"expected_peak_in_hours"`
	EstimatedDepthM     float64         `json:"estimated_depth_m"`
	DepthZone           DepthZone       `json:"depth_zone"`
	Upstream            UpstreamSummary `json:"upstream_summary"`
}

// RouteMode selects the routing bias.
type RouteMode string

const (
	RouteSafest  RouteMode = "safest"
	RouteFastest RouteMode = "fastest"
)

// Waypoint is one point along a computed route.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoutePlan is the transient result of a safe-route computation.
type RoutePlan struct {
	Route           []Waypoint `json:"route"`
	TotalDistanceM  float64    `json:"total_distance"`
	HazardExposure  float64    `json:"hazard_exposure"`
	OriginNode      int64      `json:"origin_node"`
	DestinationNode int64      `json:"destination_node"`
	Mode            RouteMode  `json:"mode"`
}
