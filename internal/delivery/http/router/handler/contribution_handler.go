package handler

import (
	"net/http"
	"time"

	"pensionfund/internal/delivery/http/response"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ContributionHandler holds dependencies for contribution handlers.
type ContributionHandler struct {
	contributions usecase.ContributionUsecase
}

// NewContributionHandler is the constructor for ContributionHandler, injected by Fx.
func NewContributionHandler(contributions usecase.ContributionUsecase) *ContributionHandler {
	return &ContributionHandler{contributions: contributions}
}

type recordContributionRequest struct {
	Amount         float64    `json:"amount" validate:"required"`
	EmployerAmount float64    `json:"employer_amount"`
	Period         string     `json:"period" validate:"required"`
	Source         string     `json:"source" validate:"max=64"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// Record posts a contribution against the member in the path.
func (h *ContributionHandler) Record(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	var req recordContributionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contribution input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	contribution, err := h.contributions.Record(c.Request().Context(), usecase.RecordContributionInput{
		MemberID:       memberID,
		Amount:         req.Amount,
		EmployerAmount: req.EmployerAmount,
		Period:         req.Period,
		Source:         req.Source,
		PaidAt:         paidAt,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, contribution, "Contribution recorded")
}

// ListByMember returns one page of a member's contribution history together
// with the lifetime total.
func (h *ContributionHandler) ListByMember(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	output, err := h.contributions.ListByMember(
		c.Request().Context(), memberID, queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}
