// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
)

// BeneficiaryInput defines the data for nominating or updating a beneficiary.
type BeneficiaryInput struct {
	FullName     string
	Relationship string
	SharePercent int
}

// BeneficiaryUsecase defines the interface for beneficiary operations.
type BeneficiaryUsecase interface {
	// Add nominates a beneficiary, keeping the member's total share at or
	// below 100 percent.
	Add(ctx context.Context, memberID uuid.UUID, input BeneficiaryInput) (*entity.Beneficiary, error)

	// List retrieves a member's beneficiaries.
	List(ctx context.Context, memberID uuid.UUID) ([]*entity.Beneficiary, error)

	// Update modifies a beneficiary nomination under the same share cap.
	Update(ctx context.Context, memberID, beneficiaryID uuid.UUID, input BeneficiaryInput) (*entity.Beneficiary, error)

	// Remove deletes a beneficiary nomination.
	Remove(ctx context.Context, memberID, beneficiaryID uuid.UUID) error
}
