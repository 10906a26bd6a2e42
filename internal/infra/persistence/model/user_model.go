package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string     `gorm:"type:varchar(255);unique;not null"`
	FullName  string     `gorm:"type:varchar(100);not null"`
	Role      string     `gorm:"type:varchar(32);not null"`
	ExtraPerm []string   `gorm:"type:jsonb;serializer:json"`
	IsActive  bool       `gorm:"not null;default:true"`
	MemberID  *uuid.UUID `gorm:"type:uuid;index"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Credential    *CredentialModel    `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// CredentialModel mirrors the 'user_credentials' table. One row per user.
type CredentialModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID       uuid.UUID `gorm:"type:uuid;unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "user_credentials"
}
