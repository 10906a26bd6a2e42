package auth

import (
	"testing"
	"time"

	"pensionfund/config"
	"pensionfund/internal/domain/entity"
	"pensionfund/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.SecretKey.Issuer = "pensionfund-test"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  time.Minute * 15,
		RefreshTokenTTL: time.Hour * 24 * 7,
	}

	return cfg
}

func testUser() *entity.User {
	memberID := uuid.New()

	return &entity.User{
		ID:       uuid.New(),
		Email:    "officer@fund.example",
		Role:     entity.RolePensionOfficer,
		MemberID: &memberID,
		IsActive: true,
	}
}

func TestJWTService_GenerateAndParseAccessToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	user := testUser()
	accessToken, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	claims, err := jwtService.ParseAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RolePensionOfficer, claims.Role)
	assert.Equal(t, user.MemberID, claims.MemberID)
	assert.Equal(t, user.Permissions(), claims.Permissions)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "pensionfund-test", claims.Issuer)
}

func TestJWTService_GenerateAndParseRefreshToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	refreshToken, err := jwtService.GenerateRefreshToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshToken)

	claims, err := jwtService.ParseRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Empty(t, claims.Permissions)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestJWTService_RejectsCrossTypeTokens(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	accessToken, err := jwtService.GenerateAccessToken(testUser())
	require.NoError(t, err)

	// An access token must not pass refresh-token verification, and vice
	// versa, because the two are signed with different secrets.
	claims, err := jwtService.ParseRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	refreshToken, err := jwtService.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	claims, err = jwtService.ParseAccessToken(refreshToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	claims, err := jwtService.ParseAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AccessTokenTTL = -time.Minute

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	accessToken, err := jwtService.GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := jwtService.ParseAccessToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey.Access = ""
	cfg.SecretKey.Refresh = ""

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_HashTokenIsStable(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	first := jwtService.HashToken("some-token")
	second := jwtService.HashToken("some-token")
	other := jwtService.HashToken("another-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}

func TestJWTService_NewOpaqueToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	first, err := jwtService.NewOpaqueToken()
	require.NoError(t, err)
	second, err := jwtService.NewOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestJWTService_TokenDurations(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	assert.Equal(t, time.Minute*15, jwtService.AccessTokenDuration())
	assert.Equal(t, time.Hour*24*7, jwtService.RefreshTokenDuration())
}
