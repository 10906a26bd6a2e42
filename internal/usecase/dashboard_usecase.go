// Package usecase contains the application-specific business rules.
package usecase

import "context"

// DashboardOverview aggregates the counters shown on the admin dashboard.
type DashboardOverview struct {
	ActiveMembers      int     `json:"active_members"`
	SuspendedMembers   int     `json:"suspended_members"`
	RetiredMembers     int     `json:"retired_members"`
	TotalContributions float64 `json:"total_contributions"`
	PendingClaims      int     `json:"pending_claims"`
	ApprovedClaims     int     `json:"approved_claims"`
	ActiveSessions     int     `json:"active_sessions"`
}

// DashboardUsecase defines the interface for the admin dashboard.
type DashboardUsecase interface {
	// Overview returns fund-wide aggregate counters.
	Overview(ctx context.Context) (*DashboardOverview, error)
}
