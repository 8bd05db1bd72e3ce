package components

import (
	"fmt"
	"log/slog"

	"parq-core/internal/domain/cancellation"
	"parq-core/internal/domain/money"
	dompricing "parq-core/internal/domain/pricing"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/config"
	"parq-core/internal/pkg/retry"
	"parq-core/internal/usecase"
	"parq-core/internal/usecase/allocator"
	"parq-core/internal/usecase/ledger"
	"parq-core/internal/usecase/orchestrator"
	"parq-core/internal/usecase/pricing"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseServicesModule,
	usecaseOrchestratorModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewRetryPolicy,
	NewCalculator,
	NewSettings,
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		ledger.NewService,
		pricing.NewEngine,
		allocator.New,
	),
)

var usecaseOrchestratorModule = fx.Module("usecase/orchestrator",
	fx.Provide(
		fx.Annotate(
			orchestrator.NewRoleAuthorizer,
			fx.As(new(orchestrator.Authorizer)),
		),
		fx.Annotate(
			orchestrator.New,
			fx.As(fx.Self()),
			fx.As(new(orchestrator.Commands)),
		),
		fx.Annotate(
			orchestrator.NewReader,
			fx.As(new(orchestrator.Queries)),
		),
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewRetryPolicy(cfg config.Config) retry.Policy {
	return retry.OnConflict(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay)
}

func NewCalculator(cfg config.Config) (dompricing.Calculator, error) {
	fee, err := money.Parse(cfg.Pricing.PlatformFee)
	if err != nil {
		return dompricing.Calculator{}, fmt.Errorf("invalid PRICING_PLATFORM_FEE: %w", err)
	}
	return dompricing.NewCalculator(fee), nil
}

func NewSettings(cfg config.Config, policy retry.Policy, logger *slog.Logger) (orchestrator.Settings, error) {
	refunds, err := cancellation.ParsePolicy(cfg.Booking.CancellationPolicy)
	if err != nil {
		return orchestrator.Settings{}, fmt.Errorf("invalid CANCELLATION_POLICY: %w", err)
	}

	var platform *uuid.UUID
	if cfg.Pricing.PlatformAccountID != "" {
		id, err := uuid.Parse(cfg.Pricing.PlatformAccountID)
		if err != nil {
			return orchestrator.Settings{}, fmt.Errorf("invalid PLATFORM_ACCOUNT_ID: %w", err)
		}
		platform = &id
	} else if cfg.Pricing.CommissionBPS > 0 {
		logger.Warn("PLATFORM_ACCOUNT_ID not set, commission is withheld without a ledger entry")
	}

	return orchestrator.Settings{
		Cancellation:    refunds,
		CommissionBPS:   cfg.Pricing.CommissionBPS,
		PlatformAccount: platform,
		PendingTimeout:  cfg.Booking.PendingTimeout,
		IdempotencyTTL:  cfg.Booking.IdempotencyTTL,
		Retry:           policy,
	}, nil
}
