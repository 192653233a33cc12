package domain

import (
	"time"

	"github.com/google/uuid"
)

// Backtest run lifecycle states.
const (
	BacktestPending   = "pending"
	BacktestRunning   = "running"
	BacktestCompleted = "completed"
	BacktestFailed    = "failed"
)

// BacktestRun is a historical-window grid simulation over an area.
type BacktestRun struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AreaSlug       string     `json:"area_slug" db:"area_slug"`
	StartAt        time.Time  `json:"start_at" db:"start_at"`
	EndAt          time.Time  `json:"end_at" db:"end_at"`
	Status         string     `json:"status" db:"status"`
	IncludeWeather bool       `json:"include_weather" db:"include_weather"`
	IncludeRivers  bool       `json:"include_rivers" db:"include_rivers"`
	IncludeRoads   bool       `json:"include_roads" db:"include_roads"`
	RiskThreshold  int        `json:"risk_threshold" db:"risk_threshold"`
	MaxPoints      int        `json:"max_points" db:"max_points"`
	RuntimeMS      float64    `json:"runtime_ms" db:"runtime_ms"`
	NodesProcessed int        `json:"nodes_processed" db:"nodes_processed"`
	FloodedCount   int        `json:"flooded_count" db:"flooded_count"`
	Error          string     `json:"error,omitempty" db:"error"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// BacktestResult is one scored grid cell of a run.
type BacktestResult struct {
	ID                 int64     `json:"-" db:"id"`
	RunID              uuid.UUID `json:"-" db:"run_id"`
	Lat                float64   `json:"lat" db:"lat"`
	Lng                float64   `json:"lng" db:"lng"`
	RiskScore          float64   `json:"risk_score" db:"risk_score"`
	Flooded            bool      `json:"flooded" db:"flooded"`
	WeatherSignal      float64   `json:"weather_signal" db:"weather_signal"`
	DownstreamSignal   float64   `json:"downstream_signal" db:"downstream_signal"`
	RiverDistanceKM    *float64  `json:"river_distance_km" db:"river_distance_km"`
	LowElevationSignal float64   `json:"low_elevation_signal" db:"low_elevation_signal"`
	ElevationProxy     float64   `json:"elevation_proxy" db:"elevation_proxy"`
	Tags               []string  `json:"tags,omitempty" db:"-"`
}

// BacktestRequest is the stream message that asks the worker to execute a run.
type BacktestRequest struct {
	RunID uuid.UUID `json:"run_id"`
}
