package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus tracks the lifecycle of a fund membership.
type MemberStatus string

const (
	// MemberStatusActive indicates a contributing membership.
	MemberStatusActive MemberStatus = "active"
	// MemberStatusSuspended indicates a membership with contributions on hold.
	MemberStatusSuspended MemberStatus = "suspended"
	// MemberStatusRetired indicates a membership drawing benefits.
	MemberStatusRetired MemberStatus = "retired"
	// MemberStatusDeactivated indicates a soft-deleted membership.
	MemberStatusDeactivated MemberStatus = "deactivated"
)

// IsValid checks if the MemberStatus is a known value.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusSuspended, MemberStatusRetired, MemberStatusDeactivated:
		return true
	default:
		return false
	}
}

// Member is the pension-fund membership record. Records are soft-deactivated,
// never physically deleted, so contribution history stays intact.
type Member struct {
	ID           uuid.UUID
	MemberNumber string // Human-facing unique identifier, e.g. "PF-2024-000123".
	UserID       *uuid.UUID
	FullName     string
	DateOfBirth  time.Time
	Employer     string
	AnnualSalary float64
	Status       MemberStatus
	EnrolledAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contribution is a single payment into a member's account for a period.
type Contribution struct {
	ID             uuid.UUID
	MemberID       uuid.UUID
	Amount         float64 // Member share, strictly positive.
	EmployerAmount float64 // Employer share, non-negative.
	Period         string  // Accounting period in YYYY-MM form.
	Source         string  // e.g. "payroll", "voluntary".
	PaidAt         time.Time
	CreatedAt      time.Time
}

// Total returns the combined member and employer amount.
func (c *Contribution) Total() float64 {
	return c.Amount + c.EmployerAmount
}

// Beneficiary is a person nominated to receive a share of a member's benefit.
// Allocation percentages across a member's beneficiaries never exceed 100.
type Beneficiary struct {
	ID           uuid.UUID
	MemberID     uuid.UUID
	FullName     string
	Relationship string
	SharePercent int // 1..100.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
