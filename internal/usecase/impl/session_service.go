// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager        repository.TransactionManager
	refreshTokenRepo repository.RefreshTokenRepository
	resetTokenRepo   repository.ResetTokenRepository
	logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	txManager repository.TransactionManager,
	refreshTokenRepo repository.RefreshTokenRepository,
	resetTokenRepo repository.ResetTokenRepository,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		txManager:        txManager,
		refreshTokenRepo: refreshTokenRepo,
		resetTokenRepo:   resetTokenRepo,
		logger:           logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetActiveSessions lists the user's unexpired refresh-token sessions.
func (srv *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("userID", userID))

	tokens, err := srv.refreshTokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("error", err), slog.Any("userID", userID))

		return nil, errors.Wrap(err, "failed to find refresh tokens")
	}

	now := time.Now()
	sessions := make([]*entity.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &entity.SessionInfo{
			ID:        token.ID,
			UserID:    token.UserID,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
			IsActive:  token.ExpiresAt.After(now),
		})
	}

	return sessions, nil
}

// RevokeSession ends one session after checking ownership.
func (srv *sessionService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	srv.log(ctx).Info("Revoking session", slog.Any("userID", userID), slog.Any("sessionID", sessionID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		token, findErr := refreshRepo.FindByID(ctx, sessionID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrRefreshTokenNotFound) ||
				errors.Is(findErr, repository.ErrRefreshTokenExpired) {
				return errors.Wrap(domainerrors.ErrNotFound, "session not found")
			}

			return errors.Wrap(findErr, "failed to find session")
		}

		if token.UserID != userID {
			return errors.Wrap(domainerrors.ErrForbidden, "session does not belong to user")
		}

		if delErr := refreshRepo.Delete(ctx, sessionID); delErr != nil {
			return errors.Wrap(delErr, "failed to delete session")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to revoke session", slog.Any("error", err), slog.Any("sessionID", sessionID))

		return err
	}

	return nil
}

// RevokeAllSessions ends every session of the user.
func (srv *sessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Revoking all sessions", slog.Any("userID", userID))

	if err := srv.refreshTokenRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to revoke all sessions", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to delete refresh tokens")
	}

	return nil
}

// CleanupExpiredSessions removes expired refresh and reset tokens. Intended
// to run periodically; safe to invoke concurrently.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	refreshRemoved, err := srv.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired refresh tokens")
	}

	resetRemoved, err := srv.resetTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return refreshRemoved, errors.Wrap(err, "failed to delete expired reset tokens")
	}

	total := refreshRemoved + resetRemoved
	if total > 0 {
		srv.log(ctx).Info("Cleaned up expired sessions", slog.Int("removed", total))
	}

	return total, nil
}
