package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/infra/auth"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T, maxActiveSessions int) (usecase.AuthUsecase, *fakeStore) {
	t.Helper()

	cfg := newTestConfig(maxActiveSessions)
	store := newFakeStore()

	params := AuthServiceParams{
		TxManager:        &fakeTxManager{store: store},
		UserRepo:         &fakeUserRepo{store},
		CredentialRepo:   &fakeCredentialRepo{store},
		RefreshTokenRepo: &fakeRefreshTokenRepo{store},
		Hasher:           auth.NewBcryptHasher(cfg),
		TokenService:     newTestTokenService(cfg),
		Metrics:          newTestMetrics(),
		Config:           cfg,
		Logger:           newDiscardLogger(),
	}

	return NewAuthService(params), store
}

func registerAccount(t *testing.T, authUsecase usecase.AuthUsecase, email, password string) uuid.UUID {
	t.Helper()

	output, err := authUsecase.Register(context.Background(), usecase.RegisterInput{
		Email:    email,
		FullName: "Avery Tan",
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, output.User)

	return output.User.ID
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	userID := registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")

	store.mu.Lock()
	require.Contains(t, store.credentials, userID)
	assert.NotEqual(t, "Correct19xyB!", store.credentials[userID].PasswordHash)
	store.mu.Unlock()

	output, err := authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	require.NotNil(t, output.User)
	assert.Equal(t, userID, output.User.ID)

	// A login stores exactly one hashed session row.
	store.mu.Lock()
	assert.Len(t, store.refreshTokens, 1)
	for _, token := range store.refreshTokens {
		assert.NotEqual(t, output.RefreshToken, token.TokenHash)
		assert.Equal(t, userID, token.UserID)
	}
	store.mu.Unlock()

	// Last login is stamped.
	store.mu.Lock()
	assert.NotNil(t, store.users[userID].LastLogin)
	store.mu.Unlock()
}

func TestAuthService_RegisterRejectsWeakPassword(t *testing.T) {
	authUsecase, _ := newAuthFixture(t, 0)

	_, err := authUsecase.Register(context.Background(), usecase.RegisterInput{
		Email:    "weak@fund.test",
		FullName: "Weak Password",
		Password: "short",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrPasswordTooWeak.ErrorCode(), appErr.ErrorCode())
	assert.NotEmpty(t, appErr.Details())
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	authUsecase, _ := newAuthFixture(t, 0)

	registerAccount(t, authUsecase, "dup@fund.test", "Correct19xyB!")

	_, err := authUsecase.Register(context.Background(), usecase.RegisterInput{
		Email:    "dup@fund.test",
		FullName: "Second Account",
		Password: "Another19xyB!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_LoginFailsUniformly(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	userID := registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")

	tests := []struct {
		name  string
		setup func()
		email string
	}{
		{
			name:  "unknown email",
			setup: func() {},
			email: "nobody@fund.test",
		},
		{
			name:  "wrong password",
			setup: func() {},
			email: "avery@fund.test",
		},
		{
			name: "inactive account",
			setup: func() {
				store.mu.Lock()
				store.users[userID].IsActive = false
				store.mu.Unlock()
			},
			email: "avery@fund.test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			_, err := authUsecase.Login(ctx, usecase.LoginInput{
				Email:    tt.email,
				Password: "Wrong19xyB!pw",
			})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")
	loginOutput, err := authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	require.NoError(t, err)

	refreshOutput, err := authUsecase.Refresh(ctx, usecase.RefreshInput{
		RefreshToken: loginOutput.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshOutput.AccessToken)
	assert.NotEqual(t, loginOutput.RefreshToken, refreshOutput.RefreshToken)

	// Rotation keeps the session count flat.
	store.mu.Lock()
	assert.Len(t, store.refreshTokens, 1)
	store.mu.Unlock()

	// The consumed token is gone for good.
	_, err = authUsecase.Refresh(ctx, usecase.RefreshInput{
		RefreshToken: loginOutput.RefreshToken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)

	// The rotated token still works.
	_, err = authUsecase.Refresh(ctx, usecase.RefreshInput{
		RefreshToken: refreshOutput.RefreshToken,
	})
	assert.NoError(t, err)
}

func TestAuthService_RefreshRejectsGarbageToken(t *testing.T) {
	authUsecase, _ := newAuthFixture(t, 0)

	_, err := authUsecase.Refresh(context.Background(), usecase.RefreshInput{
		RefreshToken: "not-a-jwt",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshRejectsInactiveAccount(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	userID := registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")
	loginOutput, err := authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	require.NoError(t, err)

	store.mu.Lock()
	store.users[userID].IsActive = false
	store.mu.Unlock()

	_, err = authUsecase.Refresh(ctx, usecase.RefreshInput{
		RefreshToken: loginOutput.RefreshToken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")
	loginOutput, err := authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	require.NoError(t, err)

	require.NoError(t, authUsecase.Logout(ctx, loginOutput.RefreshToken))

	store.mu.Lock()
	assert.Empty(t, store.refreshTokens)
	store.mu.Unlock()

	// A second logout with the same token is not an error.
	assert.NoError(t, authUsecase.Logout(ctx, loginOutput.RefreshToken))
}

func TestAuthService_LogoutAll(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 0)
	ctx := context.Background()

	userID := registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")
	for range 3 {
		_, err := authUsecase.Login(ctx, usecase.LoginInput{
			Email:    "avery@fund.test",
			Password: "Correct19xyB!",
		})
		require.NoError(t, err)
	}

	store.mu.Lock()
	require.Len(t, store.refreshTokens, 3)
	store.mu.Unlock()

	require.NoError(t, authUsecase.LogoutAll(ctx, userID.String()))

	store.mu.Lock()
	assert.Empty(t, store.refreshTokens)
	store.mu.Unlock()

	err := authUsecase.LogoutAll(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthService_SessionLimit(t *testing.T) {
	authUsecase, store := newAuthFixture(t, 2)
	ctx := context.Background()

	registerAccount(t, authUsecase, "avery@fund.test", "Correct19xyB!")

	for range 2 {
		_, err := authUsecase.Login(ctx, usecase.LoginInput{
			Email:    "avery@fund.test",
			Password: "Correct19xyB!",
		})
		require.NoError(t, err)
	}

	_, err := authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)

	// Expired sessions do not count against the cap.
	store.mu.Lock()
	for _, token := range store.refreshTokens {
		token.ExpiresAt = time.Now().Add(-time.Minute)
	}
	store.mu.Unlock()

	_, err = authUsecase.Login(ctx, usecase.LoginInput{
		Email:    "avery@fund.test",
		Password: "Correct19xyB!",
	})
	assert.NoError(t, err)
}
