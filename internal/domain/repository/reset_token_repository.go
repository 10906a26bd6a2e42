// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// ErrResetTokenNotFound is returned when a reset token is absent or expired.
var ErrResetTokenNotFound = errors.New("password reset token not found")

// ResetTokenRepository defines the operations for password-reset token
// persistence. Tokens are single-use; consuming one removes every
// outstanding token for the same user.
type ResetTokenRepository interface {
	// Create persists a new reset token (hash, owner, expiry).
	Create(ctx context.Context, token *entity.PasswordResetToken) error

	// FindByHash retrieves an unexpired reset token by its stored hash.
	FindByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)

	// DeleteByUserID removes every outstanding reset token for a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// CountRecentByUserID counts tokens issued to a user since the given
	// time. Backs the per-user generation-rate ceiling.
	CountRecentByUserID(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// DeleteExpired removes all expired reset tokens. Called periodically.
	DeleteExpired(ctx context.Context) (int, error)
}
