// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for session management operations.
type SessionUsecase interface {
	// GetActiveSessions lists the user's unexpired refresh-token sessions.
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error)

	// RevokeSession ends one session. The session must belong to the user.
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// RevokeAllSessions ends every session of the user.
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error

	// CleanupExpiredSessions removes expired refresh and reset tokens and
	// reports how many rows went.
	CleanupExpiredSessions(ctx context.Context) (int, error)
}
