package impl

import (
	"context"
	"testing"
	"time"

	"pensionfund/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Overview(t *testing.T) {
	store := newFakeStore()
	dashboardUsecase := NewDashboardService(
		&fakeMemberRepo{store},
		&fakeContributionRepo{store},
		&fakeClaimRepo{store},
		&fakeRefreshTokenRepo{store},
		newDiscardLogger(),
	)
	ctx := context.Background()

	activeID := seedMember(t, store, entity.MemberStatusActive)
	seedMember(t, store, entity.MemberStatusActive)
	seedMember(t, store, entity.MemberStatusSuspended)
	seedMember(t, store, entity.MemberStatusRetired)

	store.mu.Lock()
	store.contributions[uuid.New()] = &entity.Contribution{
		ID:             uuid.New(),
		MemberID:       activeID,
		Amount:         500,
		EmployerAmount: 250,
		Period:         "2026-08",
		PaidAt:         time.Now(),
	}
	store.claims[uuid.New()] = &entity.Claim{
		ID:       uuid.New(),
		MemberID: activeID,
		Type:     entity.ClaimTypeWithdrawal,
		Amount:   100,
		Status:   entity.ClaimStatusPending,
	}
	store.claims[uuid.New()] = &entity.Claim{
		ID:       uuid.New(),
		MemberID: activeID,
		Type:     entity.ClaimTypeWithdrawal,
		Amount:   200,
		Status:   entity.ClaimStatusApproved,
	}
	live := &entity.RefreshToken{ID: uuid.New(), UserID: uuid.New(), TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)}
	stale := &entity.RefreshToken{ID: uuid.New(), UserID: uuid.New(), TokenHash: "stale", ExpiresAt: time.Now().Add(-time.Hour)}
	store.refreshTokens[live.ID] = live
	store.refreshTokens[stale.ID] = stale
	store.mu.Unlock()

	overview, err := dashboardUsecase.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.ActiveMembers)
	assert.Equal(t, 1, overview.SuspendedMembers)
	assert.Equal(t, 1, overview.RetiredMembers)
	assert.Equal(t, 750.0, overview.TotalContributions)
	assert.Equal(t, 1, overview.PendingClaims)
	assert.Equal(t, 1, overview.ApprovedClaims)
	assert.Equal(t, 1, overview.ActiveSessions)
}
