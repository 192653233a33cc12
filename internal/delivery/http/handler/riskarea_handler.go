package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/usecase/dto"
)

// RiskAreaHandler serves the area-wide sampling overlay.
type RiskAreaHandler struct {
	riskAreaUC usecase.RiskAreaUsecase
	location   *time.Location
	logger     *zap.Logger
}

func NewRiskAreaHandler(riskAreaUC usecase.RiskAreaUsecase, location *time.Location, logger *zap.Logger) *RiskAreaHandler {
	return &RiskAreaHandler{
		riskAreaUC: riskAreaUC,
		location:   location,
		logger:     logger,
	}
}

// GetRiskArea godoc
// @Summary Area risk overlay
// @Description Samples the configured area on a grid and returns flagged cells plus optional high-risk river and road overlays as GeoJSON.
// @Tags Risk
// @Produce json
// @Param hours query int false "Forecast horizon in hours (1-6)" default(3)
// @Param severity query string false "Cell filter: high or all" default(high)
// @Param max_points query int false "Grid points to sample (20-600)" default(600)
// @Param include_rivers query bool false "Include river overlay" default(true)
// @Param include_roads query bool false "Include road overlay" default(false)
// @Param weather_mode query string false "Weather source: live, demo or historical" default(live)
// @Param reference_time query string false "Historical reference time (unix seconds or ISO-8601)"
// @Param demo_rainfall query string false "Demo rainfall series, e.g. '10,22,45'"
// @Success 200 {object} utils.SuccessResponse{data=dto.RiskAreaResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/risk-area [get]
func (h *RiskAreaHandler) GetRiskArea(c *fiber.Ctx) error {
	var req dto.RiskAreaQuery
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	mode, err := domain.ParseForecastMode(req.WeatherMode, req.ReferenceTime, req.DemoRainfall, h.location)
	if err != nil {
		return utils.SendError(c, err)
	}

	severity := req.Severity
	if severity == "" {
		severity = "high"
	}
	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 600
	}
	includeRivers := true
	if req.IncludeRivers != nil {
		includeRivers = *req.IncludeRivers
	}
	includeRoads := false
	if req.IncludeRoads != nil {
		includeRoads = *req.IncludeRoads
	}

	response, err := h.riskAreaUC.Build(c.Context(), req.Hours, severity, maxPoints, includeRivers, includeRoads, mode)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, response, &utils.Meta{Total: len(response.AreaPoints)})
}
