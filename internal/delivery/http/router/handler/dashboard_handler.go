package handler

import (
	"net/http"

	"pensionfund/internal/delivery/http/response"
	"pensionfund/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DashboardHandler holds dependencies for the admin dashboard.
type DashboardHandler struct {
	dashboard usecase.DashboardUsecase
}

// NewDashboardHandler is the constructor for DashboardHandler, injected by Fx.
func NewDashboardHandler(dashboard usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview returns fund-wide aggregate counters.
func (h *DashboardHandler) Overview(c echo.Context) error {
	overview, err := h.dashboard.Overview(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, overview, "")
}
