// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pensionfund/config"
	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/domain/service"
	"pensionfund/internal/infra/metrics"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	credentialRepo    repository.CredentialRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	metrics           *metrics.Metrics
	maxActiveSessions int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	CredentialRepo   repository.CredentialRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Metrics          *metrics.Metrics
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		credentialRepo:    params.CredentialRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		metrics:           params.Metrics,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a member account with a validated password.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if validation := srv.hasher.Validate(input.Password); !validation.IsValid {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email))

		return nil, domainerrors.ErrPasswordTooWeak.WithDetails(strings.Join(validation.Errors, "; "))
	}

	// Hash outside the transaction, bcrypt is CPU-bound.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Email:    input.Email,
		FullName: input.FullName,
		Role:     entity.RoleMember,
		IsActive: true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		credentialRepo := repoFactory.CredentialRepo()

		if _, findErr := userRepo.FindByEmail(ctx, input.Email); findErr == nil {
			return domainerrors.ErrUserAlreadyExists
		} else if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email uniqueness")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		newCredential := &entity.Credential{
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}

		if credErr := credentialRepo.Create(ctx, newCredential); credErr != nil {
			return errors.Wrap(credErr, "failed to create credential during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login verifies credentials and issues a token pair. Every failure branch
// collapses into ErrInvalidCredentials so callers cannot probe for accounts.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, srv.failLogin(ctx, input.Email, domainerrors.ErrInvalidCredentials)
		}

		return nil, srv.failLogin(ctx, input.Email, errors.Wrap(err, "failed to find user by email"))
	}

	credential, err := srv.credentialRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, srv.failLogin(ctx, input.Email, domainerrors.ErrInvalidCredentials)
		}

		return nil, srv.failLogin(ctx, input.Email, errors.Wrap(err, "failed to find credential"))
	}

	// Check password outside any transaction, bcrypt is CPU-bound.
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		return nil, srv.failLogin(ctx, input.Email, domainerrors.ErrInvalidCredentials)
	}

	if !user.IsActive {
		// Indistinguishable from a wrong password on the wire.
		return nil, srv.failLogin(ctx, input.Email, domainerrors.ErrInvalidCredentials)
	}

	accessToken, refreshTokenString, err := srv.issueTokenPair(user)
	if err != nil {
		return nil, srv.failLogin(ctx, input.Email, err)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if storeErr := srv.storeRefreshToken(ctx, repoFactory.RefreshTokenRepo(), user.ID, refreshTokenString); storeErr != nil {
			return storeErr
		}

		now := time.Now()
		if lastLoginErr := repoFactory.UserRepo().UpdateLastLogin(ctx, user.ID, now); lastLoginErr != nil {
			return errors.Wrap(lastLoginErr, "failed to update last login")
		}
		user.LastLogin = &now

		return nil
	})
	if err != nil {
		return nil, srv.failLogin(ctx, input.Email, err)
	}

	if srv.metrics != nil {
		srv.metrics.ObserveLogin("success")
	}
	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

func (srv *authService) failLogin(ctx context.Context, email string, err error) error {
	srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))
	if srv.metrics != nil {
		srv.metrics.ObserveLogin("failure")
	}

	return err
}

// Refresh exchanges a refresh token for a fresh pair. The presented token is
// consumed and replaced in the same transaction (rotation on use), so a
// replayed token fails its hash lookup.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Attempting token refresh")

	claims, err := srv.tokenService.ParseRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, srv.failRefresh(ctx, errors.Wrap(domainerrors.ErrInvalidRefreshToken, err.Error()))
	}

	var (
		user               *entity.User
		accessToken        string
		refreshTokenString string
	)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		tokenHash := srv.tokenService.HashToken(input.RefreshToken)
		stored, findErr := refreshRepo.FindByHash(ctx, tokenHash)
		if findErr != nil {
			return domainerrors.ErrInvalidRefreshToken
		}

		var userErr error
		user, userErr = userRepo.FindByID(ctx, claims.UserID)
		if userErr != nil {
			return domainerrors.ErrInvalidRefreshToken
		}
		if !user.IsActive {
			return domainerrors.ErrAccountInactive
		}

		var issueErr error
		accessToken, refreshTokenString, issueErr = srv.issueTokenPair(user)
		if issueErr != nil {
			return issueErr
		}

		// Rotation: burn the presented token, persist the replacement.
		if delErr := refreshRepo.Delete(ctx, stored.ID); delErr != nil {
			return errors.Wrap(delErr, "failed to consume refresh token")
		}

		newToken := &entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: srv.tokenService.HashToken(refreshTokenString),
			ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenDuration()),
		}
		if createErr := refreshRepo.Create(ctx, newToken); createErr != nil {
			return errors.Wrap(createErr, "failed to store rotated refresh token")
		}

		return nil
	})
	if err != nil {
		return nil, srv.failRefresh(ctx, err)
	}

	if srv.metrics != nil {
		srv.metrics.ObserveTokenRefresh("success")
	}
	srv.log(ctx).Debug("Token refresh succeeded", slog.Any("userID", user.ID))

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

func (srv *authService) failRefresh(ctx context.Context, err error) error {
	srv.log(ctx).Warn("Token refresh failed", slog.Any("error", err))
	if srv.metrics != nil {
		srv.metrics.ObserveTokenRefresh("failure")
	}

	return err
}

// Logout revokes the presented refresh token. The token is deleted by hash
// even when it no longer parses, so a corrupted token still ends its session.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	srv.log(ctx).Info("Attempting logout")

	if _, err := srv.tokenService.ParseRefreshToken(refreshToken); err != nil {
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(refreshToken)

	if err := srv.refreshTokenRepo.DeleteByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAll revokes every refresh token held by the user.
func (srv *authService) LogoutAll(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid user id")
	}

	srv.log(ctx).Info("Logging out all sessions", slog.Any("userID", id))

	if err := srv.refreshTokenRepo.DeleteByUserID(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete all refresh tokens", slog.Any("error", err), slog.Any("userID", id))

		return errors.Wrap(err, "failed to delete all refresh tokens")
	}

	return nil
}

// issueTokenPair generates an access and refresh token for the user.
func (srv *authService) issueTokenPair(user *entity.User) (string, string, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate refresh token")
	}

	return accessToken, refreshToken, nil
}

// storeRefreshToken persists the hashed refresh token, enforcing the active
// session cap when one is configured.
func (srv *authService) storeRefreshToken(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		activeSessions, err := refreshRepo.CountActiveByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenDuration()),
	}

	if err := refreshRepo.Create(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}
