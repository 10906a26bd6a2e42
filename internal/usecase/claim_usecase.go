// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitClaimInput defines the data for filing a benefit claim.
type SubmitClaimInput struct {
	MemberID uuid.UUID
	Type     entity.ClaimType
	Amount   float64
	Reason   string
}

// DecideClaimInput defines the data for approving or rejecting a claim.
type DecideClaimInput struct {
	ClaimID   uuid.UUID
	DecidedBy uuid.UUID
	Approve   bool
	Note      string
}

// ListClaimsInput narrows and paginates claim listings.
type ListClaimsInput struct {
	MemberID *uuid.UUID
	Status   entity.ClaimStatus
	Page     int
	PerPage  int
}

// ClaimListOutput carries one page of claims and the total count.
type ClaimListOutput struct {
	Claims  []*entity.Claim
	Total   int
	Page    int
	PerPage int
}

// ClaimUsecase defines the interface for benefit-claim operations.
type ClaimUsecase interface {
	// Submit files a claim against an active or retired membership.
	Submit(ctx context.Context, input SubmitClaimInput) (*entity.Claim, error)

	// Get retrieves a claim by ID.
	Get(ctx context.Context, id uuid.UUID) (*entity.Claim, error)

	// List retrieves claims matching the filter with pagination.
	List(ctx context.Context, input ListClaimsInput) (*ClaimListOutput, error)

	// Decide approves or rejects a pending claim, recording the decider.
	Decide(ctx context.Context, input DecideClaimInput) (*entity.Claim, error)

	// MarkPaid moves an approved claim to paid.
	MarkPaid(ctx context.Context, claimID, actorID uuid.UUID) (*entity.Claim, error)
}
