package entity

import "slices"

// Permission keys gate individual operations beyond the role check.
// The set is open: new keys can be granted per user without a code change.
const (
	PermMembersWrite       = "members.write"
	PermContributionsWrite = "contributions.write"
	PermClaimsDecide       = "claims.decide"
	PermClaimsPay          = "claims.pay"
	PermDashboardView      = "dashboard.view"
	PermSessionsManage     = "sessions.manage"
)

// rolePermissions maps each role to the permissions it carries by default.
var rolePermissions = map[Role][]string{
	RoleMember:         {},
	RolePensionOfficer: {PermMembersWrite, PermContributionsWrite},
	RoleApprover:       {PermClaimsDecide},
	RoleAdmin: {
		PermMembersWrite, PermContributionsWrite, PermClaimsDecide,
		PermClaimsPay, PermDashboardView, PermSessionsManage,
	},
	RoleSuperAdmin: {
		PermMembersWrite, PermContributionsWrite, PermClaimsDecide,
		PermClaimsPay, PermDashboardView, PermSessionsManage,
	},
}

// PermissionsForRole returns the default permission set for a role.
func PermissionsForRole(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)

	return out
}

// EffectivePermissions merges role defaults with per-user grants, deduplicated.
func EffectivePermissions(role Role, extra []string) []string {
	merged := PermissionsForRole(role)
	for _, p := range extra {
		if !slices.Contains(merged, p) {
			merged = append(merged, p)
		}
	}

	return merged
}
