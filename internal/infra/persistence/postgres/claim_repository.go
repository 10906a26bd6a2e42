// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// claimRepository implements the repository.ClaimRepository interface.
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository is the constructor for claimRepository.
func NewClaimRepository(db *gorm.DB) repository.ClaimRepository {
	return &claimRepository{
		db: db,
	}
}

// Create persists a newly submitted claim.
func (repo *claimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	claimM := fromClaimDomain(claim)

	if err := repo.db.WithContext(ctx).Create(claimM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrClaimNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required claim information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create claim")
	}

	claim.ID = claimM.ID
	claim.CreatedAt = claimM.CreatedAt
	claim.UpdatedAt = claimM.UpdatedAt

	return nil
}

// FindByID retrieves a claim by its unique ID.
func (repo *claimRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error) {
	var claimM model.ClaimModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&claimM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrClaimNotFound
		}

		return nil, errors.Wrap(err, "failed to find claim by ID")
	}

	return toClaimDomain(&claimM), nil
}

// List retrieves claims matching the filter, newest first, with the total
// count before pagination.
func (repo *claimRepository) List(ctx context.Context, filter repository.ClaimFilter) ([]*entity.Claim, int, error) {
	query := repo.db.WithContext(ctx).Model(&model.ClaimModel{})

	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count claims")
	}

	var claimModels []*model.ClaimModel
	if err := query.
		Order("submitted_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&claimModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list claims")
	}

	claims := make([]*entity.Claim, 0, len(claimModels))
	for _, claimM := range claimModels {
		claims = append(claims, toClaimDomain(claimM))
	}

	return claims, int(total), nil
}

// Update persists a status transition and its decision fields.
func (repo *claimRepository) Update(ctx context.Context, claim *entity.Claim) error {
	claimM := fromClaimDomain(claim)

	result := repo.db.WithContext(ctx).
		Model(&model.ClaimModel{}).
		Where("id = ?", claim.ID).
		Updates(map[string]any{
			"status":        claimM.Status,
			"decided_by":    claimM.DecidedBy,
			"decided_at":    claimM.DecidedAt,
			"decision_note": claimM.DecisionNote,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update claim")
	}

	if result.RowsAffected == 0 {
		return repository.ErrClaimNotFound
	}

	return nil
}

// CountByStatus returns the number of claims in the given status.
func (repo *claimRepository) CountByStatus(ctx context.Context, status entity.ClaimStatus) (int, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ClaimModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count claims by status")
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toClaimDomain converts a GORM ClaimModel to a domain Claim entity.
func toClaimDomain(data *model.ClaimModel) *entity.Claim {
	if data == nil {
		return nil
	}

	return &entity.Claim{
		ID:           data.ID,
		MemberID:     data.MemberID,
		Type:         entity.ClaimType(data.Type),
		Amount:       data.Amount,
		Status:       entity.ClaimStatus(data.Status),
		Reason:       data.Reason,
		DecidedBy:    data.DecidedBy,
		DecidedAt:    data.DecidedAt,
		DecisionNote: data.DecisionNote,
		SubmittedAt:  data.SubmittedAt,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromClaimDomain converts a domain Claim entity to a GORM ClaimModel.
func fromClaimDomain(data *entity.Claim) *model.ClaimModel {
	if data == nil {
		return nil
	}

	return &model.ClaimModel{
		ID:           data.ID,
		MemberID:     data.MemberID,
		Type:         string(data.Type),
		Amount:       data.Amount,
		Status:       string(data.Status),
		Reason:       data.Reason,
		DecidedBy:    data.DecidedBy,
		DecidedAt:    data.DecidedAt,
		DecisionNote: data.DecisionNote,
		SubmittedAt:  data.SubmittedAt,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
