// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// Domain-specific errors for member persistence.
var (
	// ErrMemberNotFound is returned when a member record is not found.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateMemberNumber is returned when a member number is already taken.
	ErrDuplicateMemberNumber = errors.New("member number already exists")
)

// MemberFilter narrows member listings.
type MemberFilter struct {
	Status   entity.MemberStatus // Empty means all statuses.
	Employer string              // Empty means all employers.
	Offset   int
	Limit    int
}

// MemberRepository defines the standard operations for member persistence.
type MemberRepository interface {
	// Create persists a new member record.
	Create(ctx context.Context, member *entity.Member) error

	// FindByID retrieves a member by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)

	// FindByMemberNumber retrieves a member by their human-facing number.
	FindByMemberNumber(ctx context.Context, number string) (*entity.Member, error)

	// List returns members matching the filter plus the total match count.
	List(ctx context.Context, filter MemberFilter) ([]*entity.Member, int, error)

	// Update modifies an existing member record.
	Update(ctx context.Context, member *entity.Member) error

	// CountByStatus returns the number of members in the given status.
	CountByStatus(ctx context.Context, status entity.MemberStatus) (int, error)
}
