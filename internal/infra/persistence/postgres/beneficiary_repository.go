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

// beneficiaryRepository implements the repository.BeneficiaryRepository interface.
type beneficiaryRepository struct {
	db *gorm.DB
}

// NewBeneficiaryRepository is the constructor for beneficiaryRepository.
func NewBeneficiaryRepository(db *gorm.DB) repository.BeneficiaryRepository {
	return &beneficiaryRepository{
		db: db,
	}
}

// Create persists a new beneficiary nomination.
func (repo *beneficiaryRepository) Create(ctx context.Context, beneficiary *entity.Beneficiary) error {
	beneficiaryM := fromBeneficiaryDomain(beneficiary)

	if err := repo.db.WithContext(ctx).Create(beneficiaryM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrBeneficiaryNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required beneficiary information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create beneficiary")
	}

	beneficiary.ID = beneficiaryM.ID
	beneficiary.CreatedAt = beneficiaryM.CreatedAt
	beneficiary.UpdatedAt = beneficiaryM.UpdatedAt

	return nil
}

// FindByID retrieves a beneficiary by its unique ID.
func (repo *beneficiaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Beneficiary, error) {
	var beneficiaryM model.BeneficiaryModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&beneficiaryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBeneficiaryNotFound
		}

		return nil, errors.Wrap(err, "failed to find beneficiary by ID")
	}

	return toBeneficiaryDomain(&beneficiaryM), nil
}

// ListByMemberID retrieves all beneficiaries nominated by a member.
func (repo *beneficiaryRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*entity.Beneficiary, error) {
	var beneficiaryModels []*model.BeneficiaryModel

	if err := repo.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&beneficiaryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list beneficiaries by member")
	}

	beneficiaries := make([]*entity.Beneficiary, 0, len(beneficiaryModels))
	for _, beneficiaryM := range beneficiaryModels {
		beneficiaries = append(beneficiaries, toBeneficiaryDomain(beneficiaryM))
	}

	return beneficiaries, nil
}

// SumShareByMemberID totals the allocated share percentages for a member,
// optionally excluding one beneficiary (for updates).
func (repo *beneficiaryRepository) SumShareByMemberID(ctx context.Context, memberID uuid.UUID, exclude *uuid.UUID) (int, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.BeneficiaryModel{}).
		Where("member_id = ?", memberID)

	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var sum int
	if err := query.
		Select("COALESCE(SUM(share_percent), 0)").
		Scan(&sum).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum beneficiary shares")
	}

	return sum, nil
}

// Update persists changes to an existing beneficiary nomination.
func (repo *beneficiaryRepository) Update(ctx context.Context, beneficiary *entity.Beneficiary) error {
	beneficiaryM := fromBeneficiaryDomain(beneficiary)

	result := repo.db.WithContext(ctx).
		Model(&model.BeneficiaryModel{}).
		Where("id = ?", beneficiary.ID).
		Updates(map[string]any{
			"full_name":     beneficiaryM.FullName,
			"relationship":  beneficiaryM.Relationship,
			"share_percent": beneficiaryM.SharePercent,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update beneficiary")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBeneficiaryNotFound
	}

	return nil
}

// Delete removes a beneficiary nomination.
func (repo *beneficiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BeneficiaryModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete beneficiary")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBeneficiaryNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toBeneficiaryDomain converts a GORM BeneficiaryModel to a domain entity.
func toBeneficiaryDomain(data *model.BeneficiaryModel) *entity.Beneficiary {
	if data == nil {
		return nil
	}

	return &entity.Beneficiary{
		ID:           data.ID,
		MemberID:     data.MemberID,
		FullName:     data.FullName,
		Relationship: data.Relationship,
		SharePercent: data.SharePercent,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromBeneficiaryDomain converts a domain entity to a GORM BeneficiaryModel.
func fromBeneficiaryDomain(data *entity.Beneficiary) *model.BeneficiaryModel {
	if data == nil {
		return nil
	}

	return &model.BeneficiaryModel{
		ID:           data.ID,
		MemberID:     data.MemberID,
		FullName:     data.FullName,
		Relationship: data.Relationship,
		SharePercent: data.SharePercent,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
