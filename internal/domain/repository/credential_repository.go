// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pensionfund/internal/domain/entity"
)

// ErrCredentialNotFound is returned when no credential exists for a user.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines the operations for password-hash persistence.
type CredentialRepository interface {
	// Create persists a new credential record.
	Create(ctx context.Context, cred *entity.Credential) error

	// FindByUserID retrieves the credential for a given account.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)

	// UpdateHash replaces the stored password hash for an account.
	UpdateHash(ctx context.Context, userID uuid.UUID, newHash string) error
}
