package handler

import (
	"net/http"

	"pensionfund/internal/delivery/http/response"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BeneficiaryHandler holds dependencies for beneficiary handlers.
type BeneficiaryHandler struct {
	beneficiaries usecase.BeneficiaryUsecase
}

// NewBeneficiaryHandler is the constructor for BeneficiaryHandler, injected by Fx.
func NewBeneficiaryHandler(beneficiaries usecase.BeneficiaryUsecase) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaries: beneficiaries}
}

type beneficiaryRequest struct {
	FullName     string `json:"full_name" validate:"required,max=255"`
	Relationship string `json:"relationship" validate:"required,max=64"`
	SharePercent int    `json:"share_percent" validate:"required"`
}

// Add nominates a beneficiary for the member in the path.
func (h *BeneficiaryHandler) Add(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	var req beneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid beneficiary input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	beneficiary, err := h.beneficiaries.Add(c.Request().Context(), memberID, usecase.BeneficiaryInput{
		FullName:     req.FullName,
		Relationship: req.Relationship,
		SharePercent: req.SharePercent,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, beneficiary, "Beneficiary added")
}

// List returns the member's beneficiaries.
func (h *BeneficiaryHandler) List(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	beneficiaries, err := h.beneficiaries.List(c.Request().Context(), memberID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, beneficiaries, "")
}

// Update modifies a beneficiary nomination.
func (h *BeneficiaryHandler) Update(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}
	beneficiaryID, err := uuid.Parse(c.Param("beneficiaryID"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid beneficiary id")
	}

	var req beneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid beneficiary input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	beneficiary, err := h.beneficiaries.Update(c.Request().Context(), memberID, beneficiaryID, usecase.BeneficiaryInput{
		FullName:     req.FullName,
		Relationship: req.Relationship,
		SharePercent: req.SharePercent,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, beneficiary, "Beneficiary updated")
}

// Remove deletes a beneficiary nomination.
func (h *BeneficiaryHandler) Remove(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}
	beneficiaryID, err := uuid.Parse(c.Param("beneficiaryID"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid beneficiary id")
	}

	if err := h.beneficiaries.Remove(c.Request().Context(), memberID, beneficiaryID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Beneficiary removed")
}
