package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberModel mirrors the 'members' table. Rows are soft-deactivated via the
// status column, never deleted, so contribution history survives.
type MemberModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	MemberNumber string     `gorm:"type:varchar(32);unique;not null"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	FullName     string     `gorm:"type:varchar(100);not null"`
	DateOfBirth  time.Time  `gorm:"not null"`
	Employer     string     `gorm:"type:varchar(255);index"`
	AnnualSalary float64    `gorm:"type:numeric(14,2)"`
	Status       string     `gorm:"type:varchar(16);not null;index"`
	EnrolledAt   time.Time  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Contributions []ContributionModel `gorm:"foreignKey:MemberID"`
	Beneficiaries []BeneficiaryModel  `gorm:"foreignKey:MemberID"`
	Claims        []ClaimModel        `gorm:"foreignKey:MemberID"`
}

// TableName explicitly sets the table name for GORM.
func (MemberModel) TableName() string {
	return "members"
}

// ContributionModel mirrors the 'contributions' table. Rows are immutable
// once written.
type ContributionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MemberID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount         float64   `gorm:"type:numeric(14,2);not null"`
	EmployerAmount float64   `gorm:"type:numeric(14,2);not null"`
	Period         string    `gorm:"type:char(7);not null;index"`
	Source         string    `gorm:"type:varchar(32);not null"`
	PaidAt         time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContributionModel) TableName() string {
	return "contributions"
}

// BeneficiaryModel mirrors the 'beneficiaries' table.
type BeneficiaryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MemberID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName     string    `gorm:"type:varchar(100);not null"`
	Relationship string    `gorm:"type:varchar(50);not null"`
	SharePercent int       `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (BeneficiaryModel) TableName() string {
	return "beneficiaries"
}
