package handler

import (
	"net/http"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/delivery/http/response"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for session management handlers.
type SessionHandler struct {
	sessions usecase.SessionUsecase
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(sessions usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List returns the caller's active sessions.
func (h *SessionHandler) List(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c.Request().Context())
	if identity == nil {
		return domainerrors.ErrUnauthenticated
	}

	sessions, err := h.sessions.GetActiveSessions(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "")
}

// Revoke ends one of the caller's sessions.
func (h *SessionHandler) Revoke(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c.Request().Context())
	if identity == nil {
		return domainerrors.ErrUnauthenticated
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid session id")
	}

	if err := h.sessions.RevokeSession(c.Request().Context(), identity.UserID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Session revoked")
}
