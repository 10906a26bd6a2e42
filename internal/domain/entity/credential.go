// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential stores the password hash for an account. It is kept apart from
// User so identity lookups never carry hash material around.
type Credential struct {
	ID           uuid.UUID // The unique ID for this credential record.
	UserID       uuid.UUID // Links the credential to the account it belongs to.
	PasswordHash string    // The bcrypt hash of the account password.
	CreatedAt    time.Time
	UpdatedAt    time.Time // Bumped whenever the password changes.
}

// RefreshToken represents a long-lived, server-persisted session. Only a
// SHA-256 hash of the raw token is stored; any token without a matching,
// unexpired row is invalid.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this session record.
	UserID    uuid.UUID // Links this session to the account it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token.
	ExpiresAt time.Time // The exact time this session becomes invalid.
	CreatedAt time.Time // When the session was created (login or rotation).
}

// PasswordResetToken is a single-use, short-lived credential for the
// forgot-password flow. All outstanding tokens for a user are removed the
// moment one of them is consumed.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string    // SHA-256 hash of the opaque token mailed to the user.
	ExpiresAt time.Time // One hour after issuance by default.
	CreatedAt time.Time
}

// SessionInfo is the user-facing view of an active refresh-token session.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}
