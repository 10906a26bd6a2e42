// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a refresh token is not found.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenExpired is returned when a refresh token has expired.
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
)

// RefreshTokenRepository defines the interface for refresh token and session
// management operations. This supports multi-device login and remote logout.
type RefreshTokenRepository interface {
	// Create persists a new refresh token, representing a user session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash retrieves a refresh token record by its securely stored hash.
	// Expired rows are reported as ErrRefreshTokenExpired.
	FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// FindByID retrieves a refresh token record by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error)

	// FindByUserID retrieves all active refresh tokens for a specific user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// Delete removes a refresh token by its ID, effectively ending a session.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByHash deletes a refresh token by its hash.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes all refresh tokens for a specific user.
	// This backs "logout from all devices" and password resets.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes all expired refresh tokens. Called periodically.
	DeleteExpired(ctx context.Context) (int, error)

	// CountActiveByUserID returns the number of active sessions for a user.
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error)

	// CountActive returns the number of active sessions fund-wide.
	CountActive(ctx context.Context) (int, error)
}
