// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"regexp"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// periodPattern matches accounting periods like 2026-08.
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// contributionService implements the ContributionUsecase interface.
type contributionService struct {
	txManager        repository.TransactionManager
	contributionRepo repository.ContributionRepository
	logger           *slog.Logger
}

// NewContributionService is the constructor for contributionService.
func NewContributionService(
	txManager repository.TransactionManager,
	contributionRepo repository.ContributionRepository,
	logger *slog.Logger,
) usecase.ContributionUsecase {
	return &contributionService{
		txManager:        txManager,
		contributionRepo: contributionRepo,
		logger:           logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *contributionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Record persists a contribution against an active membership.
func (srv *contributionService) Record(ctx context.Context, input usecase.RecordContributionInput) (*entity.Contribution, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("amount must be positive")
	}
	if input.EmployerAmount < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("employer amount must not be negative")
	}
	if !periodPattern.MatchString(input.Period) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("period must be formatted YYYY-MM")
	}

	var contribution *entity.Contribution

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		member, findErr := repoFactory.MemberRepo().FindByID(ctx, input.MemberID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(findErr, "failed to find member")
		}

		if member.Status != entity.MemberStatusActive {
			return domainerrors.ErrConflict.WrapMessage("contributions can only be recorded for active members")
		}

		contribution = &entity.Contribution{
			MemberID:       input.MemberID,
			Amount:         input.Amount,
			EmployerAmount: input.EmployerAmount,
			Period:         input.Period,
			Source:         input.Source,
			PaidAt:         input.PaidAt,
		}

		if createErr := repoFactory.ContributionRepo().Create(ctx, contribution); createErr != nil {
			return errors.Wrap(createErr, "failed to create contribution")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to record contribution", slog.Any("memberID", input.MemberID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Contribution recorded", slog.Any("contributionID", contribution.ID), slog.Any("memberID", input.MemberID))

	return contribution, nil
}

// ListByMember retrieves a member's contributions with pagination and the
// member's lifetime total.
func (srv *contributionService) ListByMember(ctx context.Context, memberID uuid.UUID, page, perPage int) (*usecase.ContributionListOutput, error) {
	page, perPage = normalizePage(page, perPage)

	contributions, total, err := srv.contributionRepo.ListByMemberID(ctx, memberID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contributions")
	}

	totalAmount, err := srv.contributionRepo.SumByMemberID(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum contributions")
	}

	return &usecase.ContributionListOutput{
		Contributions: contributions,
		Total:         total,
		TotalAmount:   totalAmount,
		Page:          page,
		PerPage:       perPage,
	}, nil
}
