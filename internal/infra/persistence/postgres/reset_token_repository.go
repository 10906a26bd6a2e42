// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// resetTokenRepository implements the repository.ResetTokenRepository interface.
type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository is the constructor for resetTokenRepository.
func NewResetTokenRepository(db *gorm.DB) repository.ResetTokenRepository {
	return &resetTokenRepository{
		db: db,
	}
}

// Create persists a new password reset token.
func (repo *resetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	tokenM := fromResetTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create reset token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByHash retrieves a reset token by its stored hash. Expired rows are
// reported as not found so callers cannot distinguish the two cases.
func (repo *resetTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	var tokenM model.PasswordResetTokenModel

	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrResetTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find reset token by hash")
	}

	if tokenM.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrResetTokenNotFound
	}

	return toResetTokenDomain(&tokenM), nil
}

// DeleteByUserID removes every outstanding reset token for a user.
func (repo *resetTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.PasswordResetTokenModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete reset tokens by user")
	}

	return nil
}

// CountRecentByUserID counts tokens issued to a user since the given time.
// This backs the per-account request ceiling of the forgot-password flow.
func (repo *resetTokenRepository) CountRecentByUserID(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.PasswordResetTokenModel{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count recent reset tokens")
	}

	return int(count), nil
}

// DeleteExpired removes all expired reset tokens and reports how many went.
func (repo *resetTokenRepository) DeleteExpired(ctx context.Context) (int, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.PasswordResetTokenModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired reset tokens")
	}

	return int(result.RowsAffected), nil
}

// --- Mapper Functions ---

// toResetTokenDomain converts a GORM PasswordResetTokenModel to a domain entity.
func toResetTokenDomain(data *model.PasswordResetTokenModel) *entity.PasswordResetToken {
	if data == nil {
		return nil
	}

	return &entity.PasswordResetToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromResetTokenDomain converts a domain entity to a GORM PasswordResetTokenModel.
func fromResetTokenDomain(data *entity.PasswordResetToken) *model.PasswordResetTokenModel {
	if data == nil {
		return nil
	}

	return &model.PasswordResetTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
