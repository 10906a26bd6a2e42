// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100

	// memberNumberAttempts bounds collision retries on the random suffix.
	memberNumberAttempts = 5
)

// memberService implements the MemberUsecase interface.
type memberService struct {
	txManager  repository.TransactionManager
	memberRepo repository.MemberRepository
	logger     *slog.Logger
}

// NewMemberService is the constructor for memberService.
func NewMemberService(
	txManager repository.TransactionManager,
	memberRepo repository.MemberRepository,
	logger *slog.Logger,
) usecase.MemberUsecase {
	return &memberService{
		txManager:  txManager,
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *memberService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Enroll creates a member with a generated member number.
func (srv *memberService) Enroll(ctx context.Context, input usecase.EnrollMemberInput) (*entity.Member, error) {
	srv.log(ctx).Info("Enrolling member", slog.String("fullName", input.FullName))

	if input.FullName == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("full name is required")
	}
	if input.AnnualSalary < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("annual salary must not be negative")
	}
	if input.DateOfBirth.IsZero() || input.DateOfBirth.After(time.Now()) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("date of birth must be in the past")
	}

	member := &entity.Member{
		UserID:       input.UserID,
		FullName:     input.FullName,
		DateOfBirth:  input.DateOfBirth,
		Employer:     input.Employer,
		AnnualSalary: input.AnnualSalary,
		Status:       entity.MemberStatusActive,
		EnrolledAt:   time.Now(),
	}

	// Retry on the rare member-number collision.
	var lastErr error
	for attempt := 0; attempt < memberNumberAttempts; attempt++ {
		number, err := newMemberNumber()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate member number")
		}
		member.MemberNumber = number

		lastErr = srv.memberRepo.Create(ctx, member)
		if lastErr == nil {
			srv.log(ctx).Debug("Member enrolled", slog.Any("memberID", member.ID), slog.String("memberNumber", member.MemberNumber))

			return member, nil
		}
		if !errors.Is(lastErr, repository.ErrDuplicateMemberNumber) {
			return nil, lastErr
		}
	}

	return nil, errors.Wrap(lastErr, "failed to allocate member number")
}

// Get retrieves a member by ID.
func (srv *memberService) Get(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := srv.memberRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, domainerrors.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member")
	}

	return member, nil
}

// GetByNumber retrieves a member by the human-facing member number.
func (srv *memberService) GetByNumber(ctx context.Context, number string) (*entity.Member, error) {
	member, err := srv.memberRepo.FindByMemberNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, domainerrors.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member by number")
	}

	return member, nil
}

// List retrieves members matching the filter with pagination.
func (srv *memberService) List(ctx context.Context, input usecase.ListMembersInput) (*usecase.MemberListOutput, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown member status")
	}

	page, perPage := normalizePage(input.Page, input.PerPage)

	members, total, err := srv.memberRepo.List(ctx, repository.MemberFilter{
		Status:   input.Status,
		Employer: input.Employer,
		Offset:   (page - 1) * perPage,
		Limit:    perPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list members")
	}

	return &usecase.MemberListOutput{
		Members: members,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// Update modifies the mutable fields of a member record.
func (srv *memberService) Update(ctx context.Context, id uuid.UUID, input usecase.UpdateMemberInput) (*entity.Member, error) {
	var member *entity.Member

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		found, findErr := memberRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(findErr, "failed to find member")
		}

		if input.FullName != nil {
			if *input.FullName == "" {
				return domainerrors.ErrValidationFailed.WrapMessage("full name must not be empty")
			}
			found.FullName = *input.FullName
		}
		if input.Employer != nil {
			found.Employer = *input.Employer
		}
		if input.AnnualSalary != nil {
			if *input.AnnualSalary < 0 {
				return domainerrors.ErrValidationFailed.WrapMessage("annual salary must not be negative")
			}
			found.AnnualSalary = *input.AnnualSalary
		}

		if updateErr := memberRepo.Update(ctx, found); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update member")
		}
		member = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// ChangeStatus moves a membership through its lifecycle.
func (srv *memberService) ChangeStatus(ctx context.Context, id uuid.UUID, status entity.MemberStatus) (*entity.Member, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown member status")
	}

	var member *entity.Member

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		found, findErr := memberRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(findErr, "failed to find member")
		}

		found.Status = status
		if updateErr := memberRepo.Update(ctx, found); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update member status")
		}
		member = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Member status changed", slog.Any("memberID", id), slog.String("status", string(status)))

	return member, nil
}

// newMemberNumber builds a member number of the form PF-<year>-<6 digits>.
func newMemberNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("PF-%d-%06d", time.Now().Year(), n.Int64()), nil
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}
