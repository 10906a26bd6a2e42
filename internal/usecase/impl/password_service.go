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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// passwordService implements the PasswordUsecase interface.
type passwordService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	credentialRepo repository.CredentialRepository
	resetTokenRepo repository.ResetTokenRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	mailer         service.Mailer
	metrics        *metrics.Metrics
	tokenTTL       time.Duration
	maxPerWindow   int
	window         time.Duration
	logger         *slog.Logger
}

// PasswordServiceParams holds dependencies for passwordService, injected by Fx.
type PasswordServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	CredentialRepo repository.CredentialRepository
	ResetTokenRepo repository.ResetTokenRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	Mailer         service.Mailer
	Metrics        *metrics.Metrics
	Config         *config.Config
	Logger         *slog.Logger
}

// NewPasswordService is the constructor for passwordService.
func NewPasswordService(params PasswordServiceParams) usecase.PasswordUsecase {
	tokenTTL := time.Hour
	maxPerWindow := 3
	window := time.Hour
	if params.Config != nil && params.Config.PasswordReset != nil {
		tokenTTL = params.Config.PasswordReset.TokenTTL
		maxPerWindow = params.Config.PasswordReset.MaxPerWindow
		window = params.Config.PasswordReset.Window
	}

	return &passwordService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		credentialRepo: params.CredentialRepo,
		resetTokenRepo: params.ResetTokenRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		mailer:         params.Mailer,
		metrics:        params.Metrics,
		tokenTTL:       tokenTTL,
		maxPerWindow:   maxPerWindow,
		window:         window,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *passwordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Change verifies the current password and stores a validated new one.
func (srv *passwordService) Change(ctx context.Context, input usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Attempting password change", slog.Any("userID", input.UserID))

	credential, err := srv.credentialRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.CurrentPassword, credential.PasswordHash) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.Any("userID", input.UserID))

		return domainerrors.ErrCurrentPasswordIncorrect
	}

	newHash, err := srv.validateAndHash(input.NewPassword, credential.PasswordHash)
	if err != nil {
		return err
	}

	if err := srv.credentialRepo.UpdateHash(ctx, input.UserID, newHash); err != nil {
		return errors.Wrap(err, "failed to update password hash")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", input.UserID))

	return nil
}

// Forgot issues a reset token and mails it. Unknown addresses, inactive
// accounts and rate-limited accounts all silently succeed so the endpoint
// leaks nothing about which emails exist.
func (srv *passwordService) Forgot(ctx context.Context, email string) error {
	srv.log(ctx).Info("Password reset requested")

	if srv.metrics != nil {
		srv.metrics.ObservePasswordReset("requested")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	if !user.IsActive {
		srv.log(ctx).Debug("Reset requested for inactive account", slog.Any("userID", user.ID))

		return nil
	}

	recent, err := srv.resetTokenRepo.CountRecentByUserID(ctx, user.ID, time.Now().Add(-srv.window))
	if err != nil {
		return errors.Wrap(err, "failed to count recent reset tokens")
	}
	if recent >= srv.maxPerWindow {
		// Swallowed on purpose; the response must not reveal throttling.
		srv.log(ctx).Warn("Reset request ceiling reached", slog.Any("userID", user.ID))

		return nil
	}

	rawToken, err := srv.tokenService.NewOpaqueToken()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	resetToken := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(rawToken),
		ExpiresAt: time.Now().Add(srv.tokenTTL),
	}

	if err := srv.resetTokenRepo.Create(ctx, resetToken); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	// Mail delivery is best-effort: the token row exists, the user can retry
	// the email later without another ceiling hit.
	if mailErr := srv.mailer.SendPasswordReset(ctx, user.Email, rawToken); mailErr != nil {
		srv.log(ctx).Error("Failed to send reset mail", slog.Any("userID", user.ID), slog.Any("error", mailErr))
	}

	return nil
}

// Reset consumes a valid reset token: the new hash is stored, every
// outstanding reset token for the user is burned and all refresh-token
// sessions are revoked, atomically.
func (srv *passwordService) Reset(ctx context.Context, input usecase.ResetPasswordInput) error {
	srv.log(ctx).Info("Attempting password reset")

	tokenHash := srv.tokenService.HashToken(input.Token)

	resetToken, err := srv.resetTokenRepo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return domainerrors.ErrInvalidResetToken
		}

		return errors.Wrap(err, "failed to find reset token")
	}

	credential, err := srv.credentialRepo.FindByUserID(ctx, resetToken.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to find credential for reset")
	}

	newHash, err := srv.validateAndHash(input.NewPassword, credential.PasswordHash)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if updateErr := repoFactory.CredentialRepo().UpdateHash(ctx, resetToken.UserID, newHash); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update password hash")
		}

		// Single use plus replay prevention: all outstanding tokens go.
		if delErr := repoFactory.ResetTokenRepo().DeleteByUserID(ctx, resetToken.UserID); delErr != nil {
			return errors.Wrap(delErr, "failed to delete reset tokens")
		}

		// A reset means the old password may be compromised, so every
		// session ends with it.
		if revokeErr := repoFactory.RefreshTokenRepo().DeleteByUserID(ctx, resetToken.UserID); revokeErr != nil {
			return errors.Wrap(revokeErr, "failed to revoke sessions")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if srv.metrics != nil {
		srv.metrics.ObservePasswordReset("completed")
	}
	srv.log(ctx).Info("Password reset completed", slog.Any("userID", resetToken.UserID))

	return nil
}

// Validate runs the pure strength rules without touching state.
func (srv *passwordService) Validate(password string) service.PasswordValidation {
	return srv.hasher.Validate(password)
}

// validateAndHash applies the strength policy and the same-password rule,
// returning the new bcrypt hash.
func (srv *passwordService) validateAndHash(newPassword, currentHash string) (string, error) {
	if validation := srv.hasher.Validate(newPassword); !validation.IsValid {
		return "", domainerrors.ErrPasswordTooWeak.WithDetails(strings.Join(validation.Errors, "; "))
	}

	if srv.hasher.Check(newPassword, currentHash) {
		return "", domainerrors.ErrSamePassword
	}

	newHash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return newHash, nil
}
