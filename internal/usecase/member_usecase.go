// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
)

// EnrollMemberInput defines the data required to enroll a new member.
type EnrollMemberInput struct {
	FullName     string
	DateOfBirth  time.Time
	Employer     string
	AnnualSalary float64
	UserID       *uuid.UUID
}

// UpdateMemberInput defines the mutable fields of a member record.
// Nil pointers leave the current value untouched.
type UpdateMemberInput struct {
	FullName     *string
	Employer     *string
	AnnualSalary *float64
}

// ListMembersInput narrows and paginates member listings.
type ListMembersInput struct {
	Status   entity.MemberStatus
	Employer string
	Page     int
	PerPage  int
}

// MemberListOutput carries one page of members and the total count.
type MemberListOutput struct {
	Members []*entity.Member
	Total   int
	Page    int
	PerPage int
}

// MemberUsecase defines the interface for member-record operations.
type MemberUsecase interface {
	// Enroll creates a member with a generated member number.
	Enroll(ctx context.Context, input EnrollMemberInput) (*entity.Member, error)

	// Get retrieves a member by ID.
	Get(ctx context.Context, id uuid.UUID) (*entity.Member, error)

	// GetByNumber retrieves a member by the human-facing member number.
	GetByNumber(ctx context.Context, number string) (*entity.Member, error)

	// List retrieves members matching the filter with pagination.
	List(ctx context.Context, input ListMembersInput) (*MemberListOutput, error)

	// Update modifies the mutable fields of a member record.
	Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*entity.Member, error)

	// ChangeStatus moves a membership through its lifecycle, including
	// soft deactivation.
	ChangeStatus(ctx context.Context, id uuid.UUID, status entity.MemberStatus) (*entity.Member, error)
}
