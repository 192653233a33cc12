package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/pkg/validator"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/usecase/dto"
)

// BacktestHandler manages historical-window simulation runs.
type BacktestHandler struct {
	backtestUC usecase.BacktestUsecase
	logger     *zap.Logger
}

func NewBacktestHandler(backtestUC usecase.BacktestUsecase, logger *zap.Logger) *BacktestHandler {
	return &BacktestHandler{backtestUC: backtestUC, logger: logger}
}

// CreateBacktest godoc
// @Summary Queue a backtest run
// @Description Creates a historical-window grid simulation over the configured area and enqueues it for asynchronous execution. One active run per area at a time.
// @Tags Backtest
// @Accept json
// @Produce json
// @Param request body dto.BacktestCreateRequest true "Run parameters"
// @Success 202 {object} utils.SuccessResponse{data=domain.BacktestRun}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/backtests [post]
func (h *BacktestHandler) CreateBacktest(c *fiber.Ctx) error {
	var req dto.BacktestCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	run, err := h.backtestUC.Create(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, run, nil)
}

// GetBacktest godoc
// @Summary Backtest run status
// @Description Returns a run with its current status; completed runs include the highest-risk cells.
// @Tags Backtest
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.BacktestStatusResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/backtests/{id} [get]
func (h *BacktestHandler) GetBacktest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid run id"))
	}

	status, err := h.backtestUC.Get(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, status, nil)
}
