// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// ErrBeneficiaryNotFound is returned when a beneficiary record is not found.
var ErrBeneficiaryNotFound = errors.New("beneficiary not found")

// BeneficiaryRepository defines the operations for beneficiary persistence.
type BeneficiaryRepository interface {
	// Create persists a new beneficiary nomination.
	Create(ctx context.Context, beneficiary *entity.Beneficiary) error

	// FindByID retrieves a beneficiary by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Beneficiary, error)

	// ListByMemberID returns all beneficiaries nominated by a member.
	ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*entity.Beneficiary, error)

	// SumShareByMemberID returns the allocated percentage total for a member,
	// optionally excluding one beneficiary (for updates).
	SumShareByMemberID(ctx context.Context, memberID uuid.UUID, exclude *uuid.UUID) (int, error)

	// Update modifies an existing beneficiary record.
	Update(ctx context.Context, beneficiary *entity.Beneficiary) error

	// Delete removes a beneficiary nomination.
	Delete(ctx context.Context, id uuid.UUID) error
}
