package handler

import (
	"net/http"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/delivery/http/response"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ClaimHandler holds dependencies for benefit-claim handlers.
type ClaimHandler struct {
	claims usecase.ClaimUsecase
}

// NewClaimHandler is the constructor for ClaimHandler, injected by Fx.
func NewClaimHandler(claims usecase.ClaimUsecase) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

type submitClaimRequest struct {
	Type   string  `json:"type" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
	Reason string  `json:"reason" validate:"max=1024"`
}

type decideClaimRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=1024"`
}

// Submit files a claim against the member in the path.
func (h *ClaimHandler) Submit(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	var req submitClaimRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid claim input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claim, err := h.claims.Submit(c.Request().Context(), usecase.SubmitClaimInput{
		MemberID: memberID,
		Type:     entity.ClaimType(req.Type),
		Amount:   req.Amount,
		Reason:   req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, claim, "Claim submitted")
}

// Get returns one claim.
func (h *ClaimHandler) Get(c echo.Context) error {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid claim id")
	}

	claim, err := h.claims.Get(c.Request().Context(), claimID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, claim, "")
}

// List returns a filtered page of claims.
func (h *ClaimHandler) List(c echo.Context) error {
	input := usecase.ListClaimsInput{
		Status:  entity.ClaimStatus(c.QueryParam("status")),
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
	}
	if memberParam := c.QueryParam("member_id"); memberParam != "" {
		memberID, err := uuid.Parse(memberParam)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("invalid member id filter")
		}
		input.MemberID = &memberID
	}

	output, err := h.claims.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// Decide approves or rejects a pending claim on behalf of the caller.
func (h *ClaimHandler) Decide(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c.Request().Context())
	if identity == nil {
		return domainerrors.ErrUnauthenticated
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid claim id")
	}

	var req decideClaimRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid decision input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claim, err := h.claims.Decide(c.Request().Context(), usecase.DecideClaimInput{
		ClaimID:   claimID,
		DecidedBy: identity.UserID,
		Approve:   req.Approve,
		Note:      req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, claim, "Claim decided")
}

// MarkPaid records disbursement of an approved claim.
func (h *ClaimHandler) MarkPaid(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c.Request().Context())
	if identity == nil {
		return domainerrors.ErrUnauthenticated
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid claim id")
	}

	claim, err := h.claims.MarkPaid(c.Request().Context(), claimID, identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, claim, "Claim marked as paid")
}
