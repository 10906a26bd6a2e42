// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"pensionfund/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Self-registration always yields the member role; privileged roles are
// assigned by an admin afterwards.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the presented refresh token.
type RefreshInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// TokenPairOutput returns the generated tokens after login or refresh.
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a member account with a validated password.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a token pair. Missing user,
	// wrong password and inactive account all fail identically.
	Login(ctx context.Context, input LoginInput) (*TokenPairOutput, error)

	// Refresh exchanges a valid refresh token for a fresh pair. The
	// presented token is consumed in the same transaction.
	Refresh(ctx context.Context, input RefreshInput) (*TokenPairOutput, error)

	// Logout revokes the presented refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll revokes every refresh token held by the user.
	LogoutAll(ctx context.Context, userID string) error
}
