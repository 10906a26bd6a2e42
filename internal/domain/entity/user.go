// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. Accounts are never physically
// deleted; deactivation flips IsActive and every authenticated request
// re-checks the flag.
type User struct {
	ID        uuid.UUID  // The unique identifier for the account.
	Email     string     // The unique login identifier.
	FullName  string     // The user's display name.
	Role      Role       // The single role held by this account.
	ExtraPerm []string   // Per-user permission grants beyond the role defaults.
	IsActive  bool       // Soft-deactivation flag; inactive accounts cannot authenticate.
	MemberID  *uuid.UUID // Links the account to its member record when Role is member.
	LastLogin *time.Time // Timestamp of the most recent successful login, nil before first login.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permissions returns the effective permission set: role defaults plus grants.
func (u *User) Permissions() []string {
	return EffectivePermissions(u.Role, u.ExtraPerm)
}
