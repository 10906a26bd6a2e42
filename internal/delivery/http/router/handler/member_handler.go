package handler

import (
	"net/http"
	"strconv"
	"time"

	"pensionfund/internal/delivery/http/response"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MemberHandler holds dependencies for member-record handlers.
type MemberHandler struct {
	members usecase.MemberUsecase
}

// NewMemberHandler is the constructor for MemberHandler, injected by Fx.
func NewMemberHandler(members usecase.MemberUsecase) *MemberHandler {
	return &MemberHandler{members: members}
}

type enrollMemberRequest struct {
	FullName     string    `json:"full_name" validate:"required,max=255"`
	DateOfBirth  time.Time `json:"date_of_birth" validate:"required"`
	Employer     string    `json:"employer" validate:"max=255"`
	AnnualSalary float64   `json:"annual_salary"`
	UserID       *string   `json:"user_id,omitempty"`
}

type updateMemberRequest struct {
	FullName     *string  `json:"full_name,omitempty"`
	Employer     *string  `json:"employer,omitempty"`
	AnnualSalary *float64 `json:"annual_salary,omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Enroll creates a membership record.
func (h *MemberHandler) Enroll(c echo.Context) error {
	var req enrollMemberRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid enrollment input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.EnrollMemberInput{
		FullName:     req.FullName,
		DateOfBirth:  req.DateOfBirth,
		Employer:     req.Employer,
		AnnualSalary: req.AnnualSalary,
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("invalid user id")
		}
		input.UserID = &userID
	}

	member, err := h.members.Enroll(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, member, "Member enrolled successfully")
}

// Get returns one member record.
func (h *MemberHandler) Get(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	member, err := h.members.Get(c.Request().Context(), memberID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, member, "")
}

// GetByNumber returns one member record looked up by member number.
func (h *MemberHandler) GetByNumber(c echo.Context) error {
	member, err := h.members.GetByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, member, "")
}

// List returns a filtered page of member records.
func (h *MemberHandler) List(c echo.Context) error {
	output, err := h.members.List(c.Request().Context(), usecase.ListMembersInput{
		Status:   entity.MemberStatus(c.QueryParam("status")),
		Employer: c.QueryParam("employer"),
		Page:     queryInt(c, "page"),
		PerPage:  queryInt(c, "per_page"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// Update patches the mutable fields of a member record.
func (h *MemberHandler) Update(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid member update input")
	}

	member, err := h.members.Update(c.Request().Context(), memberID, usecase.UpdateMemberInput{
		FullName:     req.FullName,
		Employer:     req.Employer,
		AnnualSalary: req.AnnualSalary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, member, "Member updated successfully")
}

// ChangeStatus moves a membership through its lifecycle.
func (h *MemberHandler) ChangeStatus(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.members.ChangeStatus(c.Request().Context(), memberID, entity.MemberStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, member, "Member status updated")
}

// queryInt parses an integer query parameter, zero when absent or malformed.
func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return value
}
