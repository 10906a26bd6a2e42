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

// contributionRepository implements the repository.ContributionRepository interface.
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository is the constructor for contributionRepository.
func NewContributionRepository(db *gorm.DB) repository.ContributionRepository {
	return &contributionRepository{
		db: db,
	}
}

// Create persists a new contribution. Rows are immutable after this.
func (repo *contributionRepository) Create(ctx context.Context, contribution *entity.Contribution) error {
	contributionM := fromContributionDomain(contribution)

	if err := repo.db.WithContext(ctx).Create(contributionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrContributionNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required contribution information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create contribution")
	}

	contribution.ID = contributionM.ID
	contribution.CreatedAt = contributionM.CreatedAt

	return nil
}

// FindByID retrieves a contribution by its unique ID.
func (repo *contributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contribution, error) {
	var contributionM model.ContributionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&contributionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContributionNotFound
		}

		return nil, errors.Wrap(err, "failed to find contribution by ID")
	}

	return toContributionDomain(&contributionM), nil
}

// ListByMemberID retrieves a member's contributions, newest period first,
// with the total count before pagination.
func (repo *contributionRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID, offset, limit int) ([]*entity.Contribution, int, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.ContributionModel{}).
		Where("member_id = ?", memberID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count contributions")
	}

	var contributionModels []*model.ContributionModel
	if err := query.
		Order("period DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contributionModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list contributions")
	}

	contributions := make([]*entity.Contribution, 0, len(contributionModels))
	for _, contributionM := range contributionModels {
		contributions = append(contributions, toContributionDomain(contributionM))
	}

	return contributions, int(total), nil
}

// SumByMemberID returns the combined member and employer amounts for a member.
func (repo *contributionRepository) SumByMemberID(ctx context.Context, memberID uuid.UUID) (float64, error) {
	var sum float64

	if err := repo.db.WithContext(ctx).
		Model(&model.ContributionModel{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount + employer_amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum contributions by member")
	}

	return sum, nil
}

// SumAll returns the combined contribution total across the whole fund.
func (repo *contributionRepository) SumAll(ctx context.Context) (float64, error) {
	var sum float64

	if err := repo.db.WithContext(ctx).
		Model(&model.ContributionModel{}).
		Select("COALESCE(SUM(amount + employer_amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum all contributions")
	}

	return sum, nil
}

// --- Mapper Functions ---

// toContributionDomain converts a GORM ContributionModel to a domain entity.
func toContributionDomain(data *model.ContributionModel) *entity.Contribution {
	if data == nil {
		return nil
	}

	return &entity.Contribution{
		ID:             data.ID,
		MemberID:       data.MemberID,
		Amount:         data.Amount,
		EmployerAmount: data.EmployerAmount,
		Period:         data.Period,
		Source:         data.Source,
		PaidAt:         data.PaidAt,
		CreatedAt:      data.CreatedAt,
	}
}

// fromContributionDomain converts a domain entity to a GORM ContributionModel.
func fromContributionDomain(data *entity.Contribution) *model.ContributionModel {
	if data == nil {
		return nil
	}

	return &model.ContributionModel{
		ID:             data.ID,
		MemberID:       data.MemberID,
		Amount:         data.Amount,
		EmployerAmount: data.EmployerAmount,
		Period:         data.Period,
		Source:         data.Source,
		PaidAt:         data.PaidAt,
		CreatedAt:      data.CreatedAt,
	}
}
