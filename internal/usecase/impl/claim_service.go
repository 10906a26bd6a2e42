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

// claimService implements the ClaimUsecase interface.
type claimService struct {
	txManager repository.TransactionManager
	claimRepo repository.ClaimRepository
	logger    *slog.Logger
}

// NewClaimService is the constructor for claimService.
func NewClaimService(
	txManager repository.TransactionManager,
	claimRepo repository.ClaimRepository,
	logger *slog.Logger,
) usecase.ClaimUsecase {
	return &claimService{
		txManager: txManager,
		claimRepo: claimRepo,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *claimService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit files a claim against an active or retired membership.
func (srv *claimService) Submit(ctx context.Context, input usecase.SubmitClaimInput) (*entity.Claim, error) {
	if !input.Type.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown claim type")
	}
	if input.Amount <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("amount must be positive")
	}

	var claim *entity.Claim

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		member, findErr := repoFactory.MemberRepo().FindByID(ctx, input.MemberID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(findErr, "failed to find member")
		}

		if member.Status == entity.MemberStatusDeactivated {
			return domainerrors.ErrConflict.WrapMessage("claims cannot be filed for deactivated members")
		}

		claim = &entity.Claim{
			MemberID:    input.MemberID,
			Type:        input.Type,
			Amount:      input.Amount,
			Status:      entity.ClaimStatusPending,
			Reason:      input.Reason,
			SubmittedAt: time.Now(),
		}

		if createErr := repoFactory.ClaimRepo().Create(ctx, claim); createErr != nil {
			return errors.Wrap(createErr, "failed to create claim")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to submit claim", slog.Any("memberID", input.MemberID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Claim submitted", slog.Any("claimID", claim.ID), slog.String("type", string(claim.Type)))

	return claim, nil
}

// Get retrieves a claim by ID.
func (srv *claimService) Get(ctx context.Context, id uuid.UUID) (*entity.Claim, error) {
	claim, err := srv.claimRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nil, domainerrors.ErrClaimNotFound
		}

		return nil, errors.Wrap(err, "failed to find claim")
	}

	return claim, nil
}

// List retrieves claims matching the filter with pagination.
func (srv *claimService) List(ctx context.Context, input usecase.ListClaimsInput) (*usecase.ClaimListOutput, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown claim status")
	}

	page, perPage := normalizePage(input.Page, input.PerPage)

	claims, total, err := srv.claimRepo.List(ctx, repository.ClaimFilter{
		MemberID: input.MemberID,
		Status:   input.Status,
		Offset:   (page - 1) * perPage,
		Limit:    perPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list claims")
	}

	return &usecase.ClaimListOutput{
		Claims:  claims,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// Decide approves or rejects a pending claim, recording the decider.
func (srv *claimService) Decide(ctx context.Context, input usecase.DecideClaimInput) (*entity.Claim, error) {
	target := entity.ClaimStatusRejected
	if input.Approve {
		target = entity.ClaimStatusApproved
	}

	claim, err := srv.transition(ctx, input.ClaimID, target, input.DecidedBy, input.Note)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Claim decided",
		slog.Any("claimID", claim.ID),
		slog.String("status", string(claim.Status)),
		slog.Any("decidedBy", input.DecidedBy))

	return claim, nil
}

// MarkPaid moves an approved claim to paid.
func (srv *claimService) MarkPaid(ctx context.Context, claimID, actorID uuid.UUID) (*entity.Claim, error) {
	claim, err := srv.transition(ctx, claimID, entity.ClaimStatusPaid, actorID, "")
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Claim paid", slog.Any("claimID", claim.ID), slog.Any("actorID", actorID))

	return claim, nil
}

// transition applies a status change inside a transaction, enforcing the
// pending -> approved|rejected, approved -> paid lifecycle.
func (srv *claimService) transition(ctx context.Context, claimID uuid.UUID, target entity.ClaimStatus, actorID uuid.UUID, note string) (*entity.Claim, error) {
	var claim *entity.Claim

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		claimRepo := repoFactory.ClaimRepo()

		found, findErr := claimRepo.FindByID(ctx, claimID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrClaimNotFound) {
				return domainerrors.ErrClaimNotFound
			}

			return errors.Wrap(findErr, "failed to find claim")
		}

		if !found.Status.CanTransitionTo(target) {
			return domainerrors.ErrClaimNotDecidable.WrapMessage(
				"cannot move claim from " + string(found.Status) + " to " + string(target))
		}

		now := time.Now()
		found.Status = target
		found.DecidedBy = &actorID
		found.DecidedAt = &now
		if note != "" {
			found.DecisionNote = note
		}

		if updateErr := claimRepo.Update(ctx, found); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update claim")
		}
		claim = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}
