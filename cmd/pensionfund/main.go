package main

import (
	"context"
	"log/slog"
	"os"

	"pensionfund/config"
	"pensionfund/internal/delivery"
	"pensionfund/internal/delivery/http"
	"pensionfund/internal/delivery/http/middleware"
	"pensionfund/internal/delivery/http/router/handler"
	"pensionfund/internal/delivery/worker"
	"pensionfund/internal/infra/auth"
	logs "pensionfund/internal/infra/log"
	"pensionfund/internal/infra/mail"
	"pensionfund/internal/infra/metrics"
	"pensionfund/internal/infra/persistence/postgres"
	"pensionfund/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewCredentialRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewResetTokenRepository,
			postgres.NewMemberRepository,
			postgres.NewContributionRepository,
			postgres.NewClaimRepository,
			postgres.NewBeneficiaryRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			mail.NewSMTPMailer,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewPasswordService,
			impl.NewSessionService,
			impl.NewMemberService,
			impl.NewContributionService,
			impl.NewClaimService,
			impl.NewBeneficiaryService,
			impl.NewDashboardService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewPasswordHandler,
			handler.NewSessionHandler,
			handler.NewMemberHandler,
			handler.NewContributionHandler,
			handler.NewClaimHandler,
			handler.NewBeneficiaryHandler,
			handler.NewDashboardHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
