// Package worker runs periodic maintenance jobs alongside the HTTP surface.
package worker

import (
	"context"
	"log/slog"
	"time"

	"pensionfund/config"
	"pensionfund/internal/delivery"
	"pensionfund/internal/usecase"

	"go.uber.org/fx"
)

// defaultInterval is used when no cleanup interval is configured.
const defaultInterval = time.Hour

type cleanupWorker struct {
	sessions usecase.SessionUsecase
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
}

// ServerParams holds dependencies for the cleanup worker, injected by Fx.
type ServerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Logger   *slog.Logger
	Sessions usecase.SessionUsecase
}

// NewServer creates the token-cleanup worker. Each tick removes expired
// refresh and reset tokens so the token tables do not grow without bound.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	interval := defaultInterval
	if params.Cfg.Cleanup != nil && params.Cfg.Cleanup.Interval > 0 {
		interval = params.Cfg.Cleanup.Interval
	}

	worker := &cleanupWorker{
		sessions: params.Sessions,
		logger:   params.Logger,
		interval: interval,
		done:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: worker.stop,
	})

	return worker, nil
}

// Serve runs the cleanup loop until the context ends or the worker stops.
func (w *cleanupWorker) Serve(ctx context.Context) error {
	w.logger.Info("Starting token cleanup worker", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		}
	}
}

func (w *cleanupWorker) runOnce(ctx context.Context) {
	removed, err := w.sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		w.logger.Error("Token cleanup failed", slog.Any("error", err))

		return
	}
	if removed > 0 {
		w.logger.Info("Token cleanup finished", slog.Int("removed", removed))
	}
}

func (w *cleanupWorker) stop(ctx context.Context) error {
	w.logger.Info("Stopping token cleanup worker")
	close(w.done)

	return nil
}
