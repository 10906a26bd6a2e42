// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the closed set of roles a user can hold in the system.
type Role string

const (
	// RoleMember indicates a regular pension-fund member.
	RoleMember Role = "member"
	// RolePensionOfficer indicates a back-office operator managing member records.
	RolePensionOfficer Role = "pension_officer"
	// RoleApprover indicates a user who can decide on benefit claims.
	RoleApprover Role = "approver"
	// RoleAdmin indicates an administrator.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin indicates a top-tier administrator.
	RoleSuperAdmin Role = "super_admin"
)

// adminTierRoles may act on any member's resources.
var adminTierRoles = []Role{RoleAdmin, RoleSuperAdmin}

// memberAccessRoles may read and modify member records they do not own.
var memberAccessRoles = []Role{RoleAdmin, RoleSuperAdmin, RolePensionOfficer}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RolePensionOfficer, RoleApprover, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAdminTier reports whether the role belongs to the administrative tier.
func (r Role) IsAdminTier() bool {
	return slices.Contains(adminTierRoles, r)
}

// CanAccessAnyMember reports whether the role may act on member records it does not own.
func (r Role) CanAccessAnyMember() bool {
	return slices.Contains(memberAccessRoles, r)
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RoleFromString converts a string to a Role, reporting whether it is a known value.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
