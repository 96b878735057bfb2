package handler

import (
	"io"
	"log/slog"
	"net/http"

	"planmap/internal/delivery/http/response"
	domainerrors "planmap/internal/domain/errors"
	"planmap/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// PlanHandlerParams holds dependencies for PlanHandler, injected by Fx.
type PlanHandlerParams struct {
	fx.In

	PlanUC usecase.PlanUsecase
	Logger *slog.Logger
}

// PlanHandler holds dependencies for plan-related handlers
type PlanHandler struct {
	planUC usecase.PlanUsecase
	logger *slog.Logger
}

// NewPlanHandler is the constructor for PlanHandler
func NewPlanHandler(params PlanHandlerParams) *PlanHandler {
	return &PlanHandler{
		planUC: params.PlanUC,
		logger: params.Logger,
	}
}

// SavePlan handles creating or replacing the plan stored under a key
func (h *PlanHandler) SavePlan(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	var req usecase.SavePlanInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid plan input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.planUC.SavePlan(c.Request().Context(), key, &req)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Plan saved successfully")
}

// GetPlan handles retrieving a stored plan with its latest result
func (h *PlanHandler) GetPlan(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	view, err := h.planUC.GetPlan(c.Request().Context(), key)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Plan retrieved successfully")
}

// ListPlans handles listing every stored plan key
func (h *PlanHandler) ListPlans(c echo.Context) error {
	keys, err := h.planUC.ListPlans(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"keys": keys}, "Plans listed successfully")
}

// BuildMatrix handles fetching the travel-time matrix for a stored plan
func (h *PlanHandler) BuildMatrix(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	view, err := h.planUC.BuildMatrix(c.Request().Context(), key)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Travel-time matrix built successfully")
}

// Solve handles invoking the external solver for a stored plan
func (h *PlanHandler) Solve(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	view, err := h.planUC.Solve(c.Request().Context(), key)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Plan solved successfully")
}

// ApplyResult handles normalizing a solver response document supplied by
// the caller
func (h *PlanHandler) ApplyResult(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Failed to read request body")
	}

	view, err := h.planUC.ApplyResult(c.Request().Context(), key, payload)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Result applied successfully")
}

// Replay handles normalizing an enriched-log capture against a stored
// plan. With a ref query parameter it re-runs a previously archived
// capture instead of reading one from the body.
func (h *PlanHandler) Replay(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	if ref := c.QueryParam("ref"); ref != "" {
		view, err := h.planUC.ReplayArchived(c.Request().Context(), key, ref)
		if err != nil {
			return h.handleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, view, "Capture replayed successfully")
	}

	capture, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Failed to read request body")
	}

	view, err := h.planUC.Replay(c.Request().Context(), key, capture)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Capture replayed successfully")
}

// ClearResult handles dropping the applied result while keeping the plan
func (h *PlanHandler) ClearResult(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	view, err := h.planUC.ClearResult(c.Request().Context(), key)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Result cleared successfully")
}

// DeletePlan handles removing the whole snapshot under a key
func (h *PlanHandler) DeletePlan(c echo.Context) error {
	key, err := h.planKey(c)
	if err != nil {
		return err
	}

	if err := h.planUC.DeletePlan(c.Request().Context(), key); err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Plan deleted successfully"}, "Plan deleted successfully")
}

func (h *PlanHandler) planKey(c echo.Context) (string, error) {
	key := c.Param("key")
	if key == "" {
		return "", response.BadRequest(c, "INVALID_KEY", "Plan key is required")
	}

	return key, nil
}

func (h *PlanHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
