package dto

import (
	"github.com/floodwatch-service/internal/domain"
)

// BacktestCreateRequest starts an asynchronous historical-window run.
type BacktestCreateRequest struct {
	AreaSlug       string `json:"area_slug" validate:"required"`
	StartAt        string `json:"start_at" validate:"required"`
	EndAt          string `json:"end_at" validate:"required"`
	IncludeWeather *bool  `json:"include_weather"`
	IncludeRivers  *bool  `json:"include_rivers"`
	IncludeRoads   *bool  `json:"include_roads"`
	RiskThreshold  int    `json:"risk_threshold"`
	MaxPoints      int    `json:"max_points"`
}

// BacktestStatusResponse reports a run with its highest-risk cells.
type BacktestStatusResponse struct {
	Run        *domain.BacktestRun     `json:"run"`
	TopResults []domain.BacktestResult `json:"top_results,omitempty"`
}
