package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"parq-core/internal/infra/events"
	"parq-core/internal/pkg/config"
	"parq-core/internal/usecase/orchestrator"

	"go.uber.org/fx"
)

var WorkersModule = fx.Module("workers",
	fx.Invoke(StartWorkers),
)

// StartWorkers runs the completion sweeper and the outbox relay for the
// lifetime of the app.
func StartWorkers(lc fx.Lifecycle, cfg config.Config, o *orchestrator.Orchestrator, relay *events.Relay, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				o.RunSweeper(ctx, cfg.Booking.SweepInterval)
			}()
			go func() {
				defer wg.Done()
				relay.Run(ctx, cfg.AMQP.PollInterval)
			}()
			logger.Info("background workers started",
				"sweep_interval", cfg.Booking.SweepInterval.String(),
				"outbox_poll_interval", cfg.AMQP.PollInterval.String())
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			logger.Info("background workers stopped")
			return nil
		},
	})
}
