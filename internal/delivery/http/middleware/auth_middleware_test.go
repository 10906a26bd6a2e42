package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pensionfund/config"
	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/service"
	"pensionfund/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domainerrors.ErrUserNotFound
	}

	copied := *user

	return &copied, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, domainerrors.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, _ *entity.User) error { return nil }

func (r *stubUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, _ uuid.UUID, _ bool) error { return nil }

type authFixture struct {
	middleware   *AuthMiddleware
	repo         *stubUserRepo
	tokenService service.TokenService
	cfg          *config.Config
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "middleware-test-access-secret"
	cfg.SecretKey.Refresh = "middleware-test-refresh-secret"
	cfg.SecretKey.Issuer = "pensionfund-test"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  time.Minute * 15,
		RefreshTokenTTL: time.Hour,
	}

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	repo := &stubUserRepo{users: make(map[uuid.UUID]*entity.User)}

	return &authFixture{
		middleware:   NewAuthMiddleware(tokenService, repo),
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

func (f *authFixture) seedUser(role entity.Role, active bool) *entity.User {
	user := &entity.User{
		ID:       uuid.New(),
		Email:    "someone@example.com",
		FullName: "Some One",
		Role:     role,
		IsActive: active,
	}
	f.repo.users[user.ID] = user

	return user
}

func (f *authFixture) tokenFor(t *testing.T, user *entity.User) string {
	t.Helper()

	token, err := f.tokenService.GenerateAccessToken(user)
	require.NoError(t, err)

	return token
}

// expiredTokenFor signs a token with the fixture's secrets that is already
// past its expiry.
func (f *authFixture) expiredTokenFor(t *testing.T, user *entity.User) string {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey = f.cfg.SecretKey
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: time.Hour,
	}

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenService.GenerateAccessToken(user)
	require.NoError(t, err)

	return token
}

func newEchoContext(authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(entity.RolePensionOfficer, true)
	token := fixture.tokenFor(t, user)

	var captured *deliverycontext.Identity
	handler := fixture.middleware.Authenticate(func(c echo.Context) error {
		captured = deliverycontext.GetIdentity(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})

	c, rec := newEchoContext("Bearer " + token)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, captured)
	assert.Equal(t, user.ID, captured.UserID)
	assert.Equal(t, user.Email, captured.Email)
	assert.Equal(t, entity.RolePensionOfficer, captured.Role)
	assert.True(t, captured.HasPermission(entity.PermMembersWrite))
}

func TestAuthMiddleware_AuthenticateRejections(t *testing.T) {
	fixture := newAuthFixture(t)
	active := fixture.seedUser(entity.RolePensionOfficer, true)
	inactive := fixture.seedUser(entity.RoleMember, false)

	unknown := &entity.User{ID: uuid.New(), Email: "gone@example.com", Role: entity.RoleMember, IsActive: true}

	tests := []struct {
		name          string
		authorization string
		wantErr       error
	}{
		{
			name:          "missing header",
			authorization: "",
			wantErr:       domainerrors.ErrMissingToken,
		},
		{
			name:          "not a bearer scheme",
			authorization: "Basic " + fixture.tokenFor(t, active),
			wantErr:       domainerrors.ErrInvalidToken,
		},
		{
			name:          "garbage token",
			authorization: "Bearer not.a.jwt",
			wantErr:       domainerrors.ErrInvalidToken,
		},
		{
			name:          "token for deleted account",
			authorization: "Bearer " + fixture.tokenFor(t, unknown),
			wantErr:       domainerrors.ErrInvalidToken,
		},
		{
			name:          "token for deactivated account",
			authorization: "Bearer " + fixture.tokenFor(t, inactive),
			wantErr:       domainerrors.ErrAccountInactive,
		},
		{
			name:          "expired token",
			authorization: "Bearer " + fixture.expiredTokenFor(t, active),
			wantErr:       domainerrors.ErrTokenExpired,
		},
	}

	handler := fixture.middleware.Authenticate(okHandler)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newEchoContext(tt.authorization)

			err := handler(c)
			require.Error(t, err)

			var appErr *domainerrors.BaseError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantErr.(*domainerrors.BaseError).ErrorCode(), appErr.ErrorCode())
		})
	}
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(entity.RoleMember, true)

	handler := fixture.middleware.OptionalAuthenticate(func(c echo.Context) error {
		if deliverycontext.GetIdentity(c.Request().Context()) != nil {
			return c.NoContent(http.StatusOK)
		}

		return c.NoContent(http.StatusNoContent)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		c, rec := newEchoContext("")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		c, rec := newEchoContext("Bearer " + fixture.tokenFor(t, user))
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid token proceeds anonymously", func(t *testing.T) {
		c, rec := newEchoContext("Bearer not.a.jwt")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("expired token proceeds anonymously", func(t *testing.T) {
		c, rec := newEchoContext("Bearer " + fixture.expiredTokenFor(t, user))
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAuthMiddleware_RequireRoles(t *testing.T) {
	fixture := newAuthFixture(t)
	handler := fixture.middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin)(okHandler)

	t.Run("unauthenticated", func(t *testing.T) {
		c, _ := newEchoContext("")
		assert.ErrorIs(t, handler(c), domainerrors.ErrUnauthenticated)
	})

	t.Run("wrong role", func(t *testing.T) {
		c, _ := newEchoContext("")
		attachIdentity(c, &deliverycontext.Identity{UserID: uuid.New(), Role: entity.RoleMember})

		var appErr *domainerrors.BaseError
		require.ErrorAs(t, handler(c), &appErr)
		assert.Equal(t, domainerrors.ErrForbidden.ErrorCode(), appErr.ErrorCode())
	})

	t.Run("matching role", func(t *testing.T) {
		c, rec := newEchoContext("")
		attachIdentity(c, &deliverycontext.Identity{UserID: uuid.New(), Role: entity.RoleAdmin})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	fixture := newAuthFixture(t)
	handler := fixture.middleware.RequirePermission(entity.PermClaimsDecide)(okHandler)

	t.Run("missing permission", func(t *testing.T) {
		c, _ := newEchoContext("")
		attachIdentity(c, &deliverycontext.Identity{
			UserID:      uuid.New(),
			Role:        entity.RolePensionOfficer,
			Permissions: entity.EffectivePermissions(entity.RolePensionOfficer, nil),
		})

		var appErr *domainerrors.BaseError
		require.ErrorAs(t, handler(c), &appErr)
		assert.Equal(t, domainerrors.ErrForbidden.ErrorCode(), appErr.ErrorCode())
	})

	t.Run("extra grant suffices", func(t *testing.T) {
		c, rec := newEchoContext("")
		attachIdentity(c, &deliverycontext.Identity{
			UserID:      uuid.New(),
			Role:        entity.RolePensionOfficer,
			Permissions: entity.EffectivePermissions(entity.RolePensionOfficer, []string{entity.PermClaimsDecide}),
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthMiddleware_RequireMemberAccess(t *testing.T) {
	fixture := newAuthFixture(t)
	handler := fixture.middleware.RequireMemberAccess("id")(okHandler)

	ownMemberID := uuid.New()

	memberIdentity := func(memberID *uuid.UUID) *deliverycontext.Identity {
		return &deliverycontext.Identity{
			UserID:      uuid.New(),
			Role:        entity.RoleMember,
			MemberID:    memberID,
			Permissions: entity.EffectivePermissions(entity.RoleMember, nil),
		}
	}

	t.Run("member reaches own record", func(t *testing.T) {
		c, rec := newEchoContext("")
		c.SetParamNames("id")
		c.SetParamValues(ownMemberID.String())
		attachIdentity(c, memberIdentity(&ownMemberID))

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member blocked from another record", func(t *testing.T) {
		c, _ := newEchoContext("")
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())
		attachIdentity(c, memberIdentity(&ownMemberID))

		var appErr *domainerrors.BaseError
		require.ErrorAs(t, handler(c), &appErr)
		assert.Equal(t, domainerrors.ErrForbidden.ErrorCode(), appErr.ErrorCode())
	})

	t.Run("staff reaches any record", func(t *testing.T) {
		c, rec := newEchoContext("")
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())
		attachIdentity(c, &deliverycontext.Identity{
			UserID: uuid.New(),
			Role:   entity.RolePensionOfficer,
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed member id", func(t *testing.T) {
		c, _ := newEchoContext("")
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")
		attachIdentity(c, memberIdentity(&ownMemberID))

		var appErr *domainerrors.BaseError
		require.ErrorAs(t, handler(c), &appErr)
		assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
	})
}

func attachIdentity(c echo.Context, identity *deliverycontext.Identity) {
	ctx := deliverycontext.WithIdentity(c.Request().Context(), identity)
	c.SetRequest(c.Request().WithContext(ctx))
}
