// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
)

// RecordContributionInput defines the data for recording a contribution.
type RecordContributionInput struct {
	MemberID       uuid.UUID
	Amount         float64
	EmployerAmount float64
	Period         string // YYYY-MM.
	Source         string
	PaidAt         time.Time
}

// ContributionListOutput carries one page of contributions, the total row
// count and the member's lifetime contribution total.
type ContributionListOutput struct {
	Contributions []*entity.Contribution
	Total         int
	TotalAmount   float64
	Page          int
	PerPage       int
}

// ContributionUsecase defines the interface for contribution operations.
type ContributionUsecase interface {
	// Record persists a contribution against an active membership.
	Record(ctx context.Context, input RecordContributionInput) (*entity.Contribution, error)

	// ListByMember retrieves a member's contributions with pagination.
	ListByMember(ctx context.Context, memberID uuid.UUID, page, perPage int) (*ContributionListOutput, error)
}
