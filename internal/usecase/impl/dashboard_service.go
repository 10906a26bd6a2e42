// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "pensionfund/internal/delivery/context"
	"pensionfund/internal/domain/entity"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/usecase"

	"github.com/pkg/errors"
)

// dashboardService implements the DashboardUsecase interface.
type dashboardService struct {
	memberRepo       repository.MemberRepository
	contributionRepo repository.ContributionRepository
	claimRepo        repository.ClaimRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(
	memberRepo repository.MemberRepository,
	contributionRepo repository.ContributionRepository,
	claimRepo repository.ClaimRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	logger *slog.Logger,
) usecase.DashboardUsecase {
	return &dashboardService{
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		claimRepo:        claimRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *dashboardService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Overview returns fund-wide aggregate counters. Counts are read without a
// shared snapshot; the dashboard tolerates slight skew between them.
func (srv *dashboardService) Overview(ctx context.Context) (*usecase.DashboardOverview, error) {
	srv.log(ctx).Debug("Building dashboard overview")

	overview := &usecase.DashboardOverview{}

	var err error
	if overview.ActiveMembers, err = srv.memberRepo.CountByStatus(ctx, entity.MemberStatusActive); err != nil {
		return nil, errors.Wrap(err, "failed to count active members")
	}
	if overview.SuspendedMembers, err = srv.memberRepo.CountByStatus(ctx, entity.MemberStatusSuspended); err != nil {
		return nil, errors.Wrap(err, "failed to count suspended members")
	}
	if overview.RetiredMembers, err = srv.memberRepo.CountByStatus(ctx, entity.MemberStatusRetired); err != nil {
		return nil, errors.Wrap(err, "failed to count retired members")
	}
	if overview.TotalContributions, err = srv.contributionRepo.SumAll(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to sum contributions")
	}
	if overview.PendingClaims, err = srv.claimRepo.CountByStatus(ctx, entity.ClaimStatusPending); err != nil {
		return nil, errors.Wrap(err, "failed to count pending claims")
	}
	if overview.ApprovedClaims, err = srv.claimRepo.CountByStatus(ctx, entity.ClaimStatusApproved); err != nil {
		return nil, errors.Wrap(err, "failed to count approved claims")
	}
	if overview.ActiveSessions, err = srv.refreshTokenRepo.CountActive(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to count active sessions")
	}

	return overview, nil
}
