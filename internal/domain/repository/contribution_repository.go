// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// ErrContributionNotFound is returned when a contribution record is not found.
var ErrContributionNotFound = errors.New("contribution not found")

// ContributionRepository defines the operations for contribution persistence.
type ContributionRepository interface {
	// Create persists a new contribution record.
	Create(ctx context.Context, contribution *entity.Contribution) error

	// FindByID retrieves a contribution by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contribution, error)

	// ListByMemberID returns a member's contributions, newest first.
	ListByMemberID(ctx context.Context, memberID uuid.UUID, offset, limit int) ([]*entity.Contribution, int, error)

	// SumByMemberID returns the combined member+employer total for a member.
	SumByMemberID(ctx context.Context, memberID uuid.UUID) (float64, error)

	// SumAll returns the combined total across all members.
	SumAll(ctx context.Context) (float64, error)
}
