package bootstrap

import (
	"context"
	"log/slog"

	"parq-core/internal/infra/events"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/config"
	"parq-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewPublisher,
		NewRelay,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) events.Publisher {
	var publisher events.Publisher
	if cfg.AMQP.Enabled() {
		publisher = events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	} else {
		logger.Info("RABBITMQ_URL not set, outbox events are logged only")
		publisher = events.NewLogPublisher(logger)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}

func NewRelay(cfg config.Config, uow shared.UnitOfWork, publisher events.Publisher, clk clock.Clock, logger *slog.Logger) *events.Relay {
	return events.NewRelay(uow, publisher, clk, cfg.AMQP.BatchSize, logger)
}
