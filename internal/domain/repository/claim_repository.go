// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// ErrClaimNotFound is returned when a claim record is not found.
var ErrClaimNotFound = errors.New("claim not found")

// ClaimFilter narrows claim listings.
type ClaimFilter struct {
	MemberID *uuid.UUID          // Nil means all members.
	Status   entity.ClaimStatus  // Empty means all statuses.
	Offset   int
	Limit    int
}

// ClaimRepository defines the operations for claim persistence.
type ClaimRepository interface {
	// Create persists a new claim in pending state.
	Create(ctx context.Context, claim *entity.Claim) error

	// FindByID retrieves a claim by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error)

	// List returns claims matching the filter plus the total match count.
	List(ctx context.Context, filter ClaimFilter) ([]*entity.Claim, int, error)

	// Update modifies an existing claim (status transitions, decision fields).
	Update(ctx context.Context, claim *entity.Claim) error

	// CountByStatus returns the number of claims in the given status.
	CountByStatus(ctx context.Context, status entity.ClaimStatus) (int, error)
}
