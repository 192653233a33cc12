package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/pkg/validator"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/usecase/dto"
)

// EvacuationHandler serves nearest-shelter lookups.
type EvacuationHandler struct {
	evacuationUC usecase.EvacuationUsecase
	logger       *zap.Logger
}

func NewEvacuationHandler(evacuationUC usecase.EvacuationUsecase, logger *zap.Logger) *EvacuationHandler {
	return &EvacuationHandler{evacuationUC: evacuationUC, logger: logger}
}

// GetNearestCenters godoc
// @Summary Nearest evacuation centers
// @Description Returns the closest evacuation centers to a point, searching an expanding radius up to 200 km.
// @Tags Evacuation
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param limit query int false "Maximum centers to return" default(3)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.EvacuationOption}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/evacuation-centers/nearest [get]
func (h *EvacuationHandler) GetNearestCenters(c *fiber.Ctx) error {
	var req dto.EvacuationQuery
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithMessage(err.Error()))
	}

	options, err := h.evacuationUC.Nearest(c.Context(), req.Lat, req.Lng, req.Limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, options, &utils.Meta{Total: len(options)})
}
