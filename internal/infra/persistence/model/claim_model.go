package model

import (
	"time"

	"github.com/google/uuid"
)

// ClaimModel mirrors the 'claims' table. Decision columns stay null until an
// approver acts.
type ClaimModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MemberID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type         string     `gorm:"type:varchar(16);not null"`
	Amount       float64    `gorm:"type:numeric(14,2);not null"`
	Status       string     `gorm:"type:varchar(16);not null;index"`
	Reason       string     `gorm:"type:text"`
	DecidedBy    *uuid.UUID `gorm:"type:uuid"`
	DecidedAt    *time.Time
	DecisionNote string     `gorm:"type:text"`
	SubmittedAt  time.Time  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ClaimModel) TableName() string {
	return "claims"
}
