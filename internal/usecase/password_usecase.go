// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"pensionfund/internal/domain/service"
)

// ChangePasswordInput defines the data for an authenticated password change.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ResetPasswordInput defines the data for completing a forgot-password flow.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// PasswordUsecase defines the interface for the password lifecycle.
type PasswordUsecase interface {
	// Change verifies the current password, validates the new one and
	// stores its hash.
	Change(ctx context.Context, input ChangePasswordInput) error

	// Forgot issues a reset token and mails it. The outcome is identical
	// for unknown, inactive and rate-limited accounts.
	Forgot(ctx context.Context, email string) error

	// Reset consumes a valid reset token, stores the new hash, burns all
	// outstanding reset tokens and revokes the user's sessions.
	Reset(ctx context.Context, input ResetPasswordInput) error

	// Validate runs the pure strength rules without touching state.
	Validate(password string) service.PasswordValidation
}
