package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClaimType identifies the benefit being claimed.
type ClaimType string

const (
	// ClaimTypeRetirement is a claim for retirement benefits.
	ClaimTypeRetirement ClaimType = "retirement"
	// ClaimTypeWithdrawal is a claim for early withdrawal.
	ClaimTypeWithdrawal ClaimType = "withdrawal"
	// ClaimTypeDeath is a claim filed on behalf of beneficiaries.
	ClaimTypeDeath ClaimType = "death"
)

// IsValid checks if the ClaimType is a known value.
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeRetirement, ClaimTypeWithdrawal, ClaimTypeDeath:
		return true
	default:
		return false
	}
}

// ClaimStatus tracks a claim through its decision lifecycle.
// Transitions: pending -> approved | rejected, approved -> paid.
type ClaimStatus string

const (
	// ClaimStatusPending is the initial state of a submitted claim.
	ClaimStatusPending ClaimStatus = "pending"
	// ClaimStatusApproved means the claim was accepted by an approver.
	ClaimStatusApproved ClaimStatus = "approved"
	// ClaimStatusRejected means the claim was declined by an approver.
	ClaimStatusRejected ClaimStatus = "rejected"
	// ClaimStatusPaid means the approved benefit has been disbursed.
	ClaimStatusPaid ClaimStatus = "paid"
)

// IsValid checks if the ClaimStatus is a known value.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusPaid:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving to the target status is allowed.
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	switch s {
	case ClaimStatusPending:
		return target == ClaimStatusApproved || target == ClaimStatusRejected
	case ClaimStatusApproved:
		return target == ClaimStatusPaid
	default:
		return false
	}
}

// Claim is a benefit claim filed against a membership. The decision fields
// are only populated once an approver has acted on the claim.
type Claim struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	Type        ClaimType
	Amount      float64
	Status      ClaimStatus
	Reason      string // Claimant's stated reason.
	DecidedBy   *uuid.UUID
	DecidedAt   *time.Time
	DecisionNote string
	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
