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

// RouteHandler serves hazard-weighted routing requests.
type RouteHandler struct {
	routingUC usecase.RoutingUsecase
	location  *time.Location
	logger    *zap.Logger
}

func NewRouteHandler(routingUC usecase.RoutingUsecase, location *time.Location, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routingUC: routingUC,
		location:  location,
		logger:    logger,
	}
}

// GetSafeRoute godoc
// @Summary Flood-aware route
// @Description Computes a road route between two points, weighting edge costs by flood hazard. safety_weight=0 gives the fastest route; higher values trade distance for safety.
// @Tags Routing
// @Produce json
// @Param origin_lat query number true "Origin latitude"
// @Param origin_lng query number true "Origin longitude"
// @Param dest_lat query number true "Destination latitude"
// @Param dest_lng query number true "Destination longitude"
// @Param safety_weight query number false "Hazard weight per edge" default(2.0)
// @Param hours query int false "Forecast horizon in hours (1-6)" default(3)
// @Param weather_mode query string false "Weather source: live, demo or historical" default(live)
// @Param reference_time query string false "Historical reference time (unix seconds or ISO-8601)"
// @Param demo_rainfall query string false "Demo rainfall series, e.g. '10,22,45'"
// @Success 200 {object} utils.SuccessResponse{data=domain.RoutePlan}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/safe-route [get]
func (h *RouteHandler) GetSafeRoute(c *fiber.Ctx) error {
	var req dto.RouteQuery
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

	safetyWeight := usecase.DefaultSafetyWeight
	if req.SafetyWeight != nil {
		safetyWeight = *req.SafetyWeight
	}
	if safetyWeight < 0 {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("safety_weight must be non-negative"))
	}

	plan, err := h.routingUC.SafeRoute(c.Context(),
		req.OriginLat, req.OriginLng, req.DestLat, req.DestLng,
		safetyWeight, req.Hours, mode, nil)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, plan, nil)
}
