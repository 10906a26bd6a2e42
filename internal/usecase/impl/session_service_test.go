package impl

import (
	"context"
	"testing"
	"time"

	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (usecase.SessionUsecase, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	sessionUsecase := NewSessionService(
		&fakeTxManager{store: store},
		&fakeRefreshTokenRepo{store},
		&fakeResetTokenRepo{store},
		newDiscardLogger(),
	)

	return sessionUsecase, store
}

func seedSession(store *fakeStore, userID uuid.UUID, expiresAt time.Time) uuid.UUID {
	sessionID := uuid.New()
	store.mu.Lock()
	store.refreshTokens[sessionID] = &entity.RefreshToken{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: sessionID.String(),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	store.mu.Unlock()

	return sessionID
}

func TestSessionService_GetActiveSessions(t *testing.T) {
	sessionUsecase, store := newSessionFixture(t)
	ctx := context.Background()

	userID := uuid.New()
	seedSession(store, userID, time.Now().Add(time.Hour))
	seedSession(store, userID, time.Now().Add(2*time.Hour))
	seedSession(store, uuid.New(), time.Now().Add(time.Hour))

	sessions, err := sessionUsecase.GetActiveSessions(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, userID, session.UserID)
		assert.True(t, session.IsActive)
	}
}

func TestSessionService_RevokeSession(t *testing.T) {
	sessionUsecase, store := newSessionFixture(t)
	ctx := context.Background()

	userID := uuid.New()
	sessionID := seedSession(store, userID, time.Now().Add(time.Hour))

	t.Run("foreign session", func(t *testing.T) {
		err := sessionUsecase.RevokeSession(ctx, uuid.New(), sessionID)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("unknown session", func(t *testing.T) {
		err := sessionUsecase.RevokeSession(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("own session", func(t *testing.T) {
		require.NoError(t, sessionUsecase.RevokeSession(ctx, userID, sessionID))

		store.mu.Lock()
		assert.Empty(t, store.refreshTokens)
		store.mu.Unlock()
	})
}

func TestSessionService_RevokeAllSessions(t *testing.T) {
	sessionUsecase, store := newSessionFixture(t)
	ctx := context.Background()

	userID := uuid.New()
	seedSession(store, userID, time.Now().Add(time.Hour))
	seedSession(store, userID, time.Now().Add(time.Hour))
	otherSession := seedSession(store, uuid.New(), time.Now().Add(time.Hour))

	require.NoError(t, sessionUsecase.RevokeAllSessions(ctx, userID))

	store.mu.Lock()
	assert.Len(t, store.refreshTokens, 1)
	assert.Contains(t, store.refreshTokens, otherSession)
	store.mu.Unlock()
}

func TestSessionService_CleanupExpiredSessions(t *testing.T) {
	sessionUsecase, store := newSessionFixture(t)
	ctx := context.Background()

	userID := uuid.New()
	seedSession(store, userID, time.Now().Add(-time.Hour))
	seedSession(store, userID, time.Now().Add(time.Hour))

	store.mu.Lock()
	store.resetTokens[uuid.New()] = &entity.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	store.mu.Unlock()

	removed, err := sessionUsecase.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	store.mu.Lock()
	assert.Len(t, store.refreshTokens, 1)
	assert.Empty(t, store.resetTokens)
	store.mu.Unlock()
}
