// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// beneficiaryService implements the BeneficiaryUsecase interface.
type beneficiaryService struct {
	txManager       repository.TransactionManager
	beneficiaryRepo repository.BeneficiaryRepository
	logger          *slog.Logger
}

// NewBeneficiaryService is the constructor for beneficiaryService.
func NewBeneficiaryService(
	txManager repository.TransactionManager,
	beneficiaryRepo repository.BeneficiaryRepository,
	logger *slog.Logger,
) usecase.BeneficiaryUsecase {
	return &beneficiaryService{
		txManager:       txManager,
		beneficiaryRepo: beneficiaryRepo,
		logger:          logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *beneficiaryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Add nominates a beneficiary, keeping the member's total share at or below
// 100 percent. The share check runs in the same transaction as the insert.
func (srv *beneficiaryService) Add(ctx context.Context, memberID uuid.UUID, input usecase.BeneficiaryInput) (*entity.Beneficiary, error) {
	if err := validateBeneficiaryInput(input); err != nil {
		return nil, err
	}

	var beneficiary *entity.Beneficiary

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, findErr := repoFactory.MemberRepo().FindByID(ctx, memberID); findErr != nil {
			if errors.Is(findErr, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(findErr, "failed to find member")
		}

		beneficiaryRepo := repoFactory.BeneficiaryRepo()

		allocated, sumErr := beneficiaryRepo.SumShareByMemberID(ctx, memberID, nil)
		if sumErr != nil {
			return errors.Wrap(sumErr, "failed to sum beneficiary shares")
		}
		if allocated+input.SharePercent > 100 {
			return domainerrors.ErrBeneficiaryShareExceeded
		}

		beneficiary = &entity.Beneficiary{
			MemberID:     memberID,
			FullName:     input.FullName,
			Relationship: input.Relationship,
			SharePercent: input.SharePercent,
		}

		if createErr := beneficiaryRepo.Create(ctx, beneficiary); createErr != nil {
			return errors.Wrap(createErr, "failed to create beneficiary")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add beneficiary", slog.Any("memberID", memberID), slog.Any("error", err))

		return nil, err
	}

	return beneficiary, nil
}

// List retrieves a member's beneficiaries.
func (srv *beneficiaryService) List(ctx context.Context, memberID uuid.UUID) ([]*entity.Beneficiary, error) {
	beneficiaries, err := srv.beneficiaryRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list beneficiaries")
	}

	return beneficiaries, nil
}

// Update modifies a beneficiary nomination under the same share cap.
func (srv *beneficiaryService) Update(ctx context.Context, memberID, beneficiaryID uuid.UUID, input usecase.BeneficiaryInput) (*entity.Beneficiary, error) {
	if err := validateBeneficiaryInput(input); err != nil {
		return nil, err
	}

	var beneficiary *entity.Beneficiary

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		beneficiaryRepo := repoFactory.BeneficiaryRepo()

		found, findErr := beneficiaryRepo.FindByID(ctx, beneficiaryID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrBeneficiaryNotFound) {
				return domainerrors.ErrBeneficiaryNotFound
			}

			return errors.Wrap(findErr, "failed to find beneficiary")
		}
		if found.MemberID != memberID {
			return domainerrors.ErrBeneficiaryNotFound
		}

		allocated, sumErr := beneficiaryRepo.SumShareByMemberID(ctx, memberID, &beneficiaryID)
		if sumErr != nil {
			return errors.Wrap(sumErr, "failed to sum beneficiary shares")
		}
		if allocated+input.SharePercent > 100 {
			return domainerrors.ErrBeneficiaryShareExceeded
		}

		found.FullName = input.FullName
		found.Relationship = input.Relationship
		found.SharePercent = input.SharePercent

		if updateErr := beneficiaryRepo.Update(ctx, found); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update beneficiary")
		}
		beneficiary = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return beneficiary, nil
}

// Remove deletes a beneficiary nomination.
func (srv *beneficiaryService) Remove(ctx context.Context, memberID, beneficiaryID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		beneficiaryRepo := repoFactory.BeneficiaryRepo()

		found, findErr := beneficiaryRepo.FindByID(ctx, beneficiaryID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrBeneficiaryNotFound) {
				return domainerrors.ErrBeneficiaryNotFound
			}

			return errors.Wrap(findErr, "failed to find beneficiary")
		}
		if found.MemberID != memberID {
			return domainerrors.ErrBeneficiaryNotFound
		}

		if delErr := beneficiaryRepo.Delete(ctx, beneficiaryID); delErr != nil {
			return errors.Wrap(delErr, "failed to delete beneficiary")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to remove beneficiary", slog.Any("beneficiaryID", beneficiaryID), slog.Any("error", err))

		return err
	}

	return nil
}

func validateBeneficiaryInput(input usecase.BeneficiaryInput) error {
	if input.FullName == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("full name is required")
	}
	if input.Relationship == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("relationship is required")
	}
	if input.SharePercent < 1 || input.SharePercent > 100 {
		return domainerrors.ErrValidationFailed.WrapMessage("share percent must be between 1 and 100")
	}

	return nil
}
