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

// memberRepository implements the repository.MemberRepository interface.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{
		db: db,
	}
}

// Create persists a new member record.
func (repo *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	memberM := fromMemberDomain(member)

	if err := repo.db.WithContext(ctx).Create(memberM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateMemberNumber
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required member information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create member")
	}

	member.ID = memberM.ID
	member.CreatedAt = memberM.CreatedAt
	member.UpdatedAt = memberM.UpdatedAt

	return nil
}

// FindByID retrieves a member by their unique ID.
func (repo *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var memberM model.MemberModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&memberM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member by ID")
	}

	return toMemberDomain(&memberM), nil
}

// FindByMemberNumber retrieves a member by the human-facing member number.
func (repo *memberRepository) FindByMemberNumber(ctx context.Context, number string) (*entity.Member, error) {
	var memberM model.MemberModel

	if err := repo.db.WithContext(ctx).
		Where("member_number = ?", number).
		First(&memberM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member by member number")
	}

	return toMemberDomain(&memberM), nil
}

// List retrieves members matching the filter, newest first, with the total
// count before pagination.
func (repo *memberRepository) List(ctx context.Context, filter repository.MemberFilter) ([]*entity.Member, int, error) {
	query := repo.db.WithContext(ctx).Model(&model.MemberModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Employer != "" {
		query = query.Where("employer = ?", filter.Employer)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count members")
	}

	var memberModels []*model.MemberModel
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&memberModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list members")
	}

	members := make([]*entity.Member, 0, len(memberModels))
	for _, memberM := range memberModels {
		members = append(members, toMemberDomain(memberM))
	}

	return members, int(total), nil
}

// Update persists changes to an existing member record.
func (repo *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	memberM := fromMemberDomain(member)

	result := repo.db.WithContext(ctx).
		Model(&model.MemberModel{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"user_id":       memberM.UserID,
			"full_name":     memberM.FullName,
			"date_of_birth": memberM.DateOfBirth,
			"employer":      memberM.Employer,
			"annual_salary": memberM.AnnualSalary,
			"status":        memberM.Status,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update member")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMemberNotFound
	}

	return nil
}

// CountByStatus returns the number of members in the given status.
func (repo *memberRepository) CountByStatus(ctx context.Context, status entity.MemberStatus) (int, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.MemberModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count members by status")
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toMemberDomain converts a GORM MemberModel to a domain Member entity.
func toMemberDomain(data *model.MemberModel) *entity.Member {
	if data == nil {
		return nil
	}

	return &entity.Member{
		ID:           data.ID,
		MemberNumber: data.MemberNumber,
		UserID:       data.UserID,
		FullName:     data.FullName,
		DateOfBirth:  data.DateOfBirth,
		Employer:     data.Employer,
		AnnualSalary: data.AnnualSalary,
		Status:       entity.MemberStatus(data.Status),
		EnrolledAt:   data.EnrolledAt,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromMemberDomain converts a domain Member entity to a GORM MemberModel.
func fromMemberDomain(data *entity.Member) *model.MemberModel {
	if data == nil {
		return nil
	}

	return &model.MemberModel{
		ID:           data.ID,
		MemberNumber: data.MemberNumber,
		UserID:       data.UserID,
		FullName:     data.FullName,
		DateOfBirth:  data.DateOfBirth,
		Employer:     data.Employer,
		AnnualSalary: data.AnnualSalary,
		Status:       string(data.Status),
		EnrolledAt:   data.EnrolledAt,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
