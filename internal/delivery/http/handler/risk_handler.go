package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/pkg/validator"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/usecase/dto"
)

// RiskHandler serves point risk assessments and upstream summaries.
type RiskHandler struct {
	riskUC     usecase.RiskUsecase
	upstreamUC usecase.UpstreamUsecase
	location   *time.Location
	logger     *zap.Logger
}

func NewRiskHandler(riskUC usecase.RiskUsecase, upstreamUC usecase.UpstreamUsecase, location *time.Location, logger *zap.Logger) *RiskHandler {
	return &RiskHandler{
		riskUC:     riskUC,
		upstreamUC: upstreamUC,
		location:   location,
		logger:     logger,
	}
}

// GetFloodRisk godoc
// @Summary Point flood risk assessment
// @Description Scores flood risk at a coordinate from rainfall forecast, upstream river signal, elevation, river proximity and historical flood zones.
// @Tags Risk
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param hours query int false "Forecast horizon in hours (1-6)" default(3)
// @Param weather_mode query string false "Weather source: live, demo or historical" default(live)
// @Param reference_time query string false "Historical reference time (unix seconds or ISO-8601)"
// @Param demo_rainfall query string false "Demo rainfall series, e.g. '10,22,45'"
// @Param demo_upstream_rainfall query string false "Per-node demo rainfall overrides (JSON)"
// @Success 200 {object} utils.SuccessResponse{data=domain.RiskAssessment}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/flood-risk [get]
func (h *RiskHandler) GetFloodRisk(c *fiber.Ctx) error {
	var req dto.RiskQuery
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithMessage(err.Error()))
	}

	mode, err := domain.ParseForecastMode(req.WeatherMode, req.ReferenceTime, req.DemoRainfall, h.location)
	if err != nil {
		return utils.SendError(c, err)
	}
	overrides, err := domain.ParseDemoUpstreamRainfall(emptyToNil(req.DemoUpstreamRainfall))
	if err != nil {
		return utils.SendError(c, err)
	}

	assessment, err := h.riskUC.Assess(c.Context(), req.Lat, req.Lng, req.Hours, mode, overrides)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, assessment, nil)
}

// GetUpstreamStatus godoc
// @Summary Upstream rainfall index
// @Description Aggregates decayed rainfall signal from river-graph nodes reachable upstream of a point within the forecast horizon.
// @Tags Risk
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param hours query int false "Forecast horizon in hours (1-6)" default(3)
// @Param weather_mode query string false "Weather source: live, demo or historical" default(live)
// @Param reference_time query string false "Historical reference time (unix seconds or ISO-8601)"
// @Param demo_upstream_rainfall query string false "Per-node demo rainfall overrides (JSON)"
// @Success 200 {object} utils.SuccessResponse{data=domain.UpstreamSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/upstream-status [get]
func (h *RiskHandler) GetUpstreamStatus(c *fiber.Ctx) error {
	var req dto.UpstreamQuery
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithMessage(err.Error()))
	}

	mode, err := domain.ParseForecastMode(req.WeatherMode, req.ReferenceTime, req.DemoRainfall, h.location)
	if err != nil {
		return utils.SendError(c, err)
	}
	overrides, err := domain.ParseDemoUpstreamRainfall(emptyToNil(req.DemoUpstreamRainfall))
	if err != nil {
		return utils.SendError(c, err)
	}

	summary := h.upstreamUC.Index(c.Context(), req.Lat, req.Lng, req.Hours, mode, overrides)
	return utils.SendSuccess(c, summary, nil)
}

func emptyToNil(raw string) interface{} {
	if raw == "" {
		return nil
	}
	return raw
}
