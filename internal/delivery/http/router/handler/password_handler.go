package handler

import (
	"net/http"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/delivery/http/response"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PasswordHandler holds dependencies for password lifecycle handlers.
type PasswordHandler struct {
	password usecase.PasswordUsecase
}

// NewPasswordHandler is the constructor for PasswordHandler, injected by Fx.
func NewPasswordHandler(password usecase.PasswordUsecase) *PasswordHandler {
	return &PasswordHandler{password: password}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type validatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Change handles an authenticated password change.
func (h *PasswordHandler) Change(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c.Request().Context())
	if identity == nil {
		return domainerrors.ErrUnauthenticated
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.password.Change(c.Request().Context(), usecase.ChangePasswordInput{
		UserID:          identity.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// Forgot handles a forgot-password request. The response is identical
// whether or not the address belongs to an account.
func (h *PasswordHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid forgot-password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.password.Forgot(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "If the address exists, a reset mail is on its way")
}

// Reset completes the forgot-password flow with a mailed token.
func (h *PasswordHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.password.Reset(c.Request().Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset successfully")
}

// Validate runs the strength rules against a candidate password without
// touching any account state.
func (h *PasswordHandler) Validate(c echo.Context) error {
	var req validatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result := h.password.Validate(req.Password)

	return response.Success(c, http.StatusOK, result, "")
}
