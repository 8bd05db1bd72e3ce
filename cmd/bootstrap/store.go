package bootstrap

import (
	"fmt"
	"log/slog"

	"parq-core/internal/infra/memstore"
	"parq-core/internal/infra/uow"
	"parq-core/internal/pkg/config"
	"parq-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewUnitOfWork,
	),
)

func NewUnitOfWork(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) (shared.UnitOfWork, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return uow.NewPostgresUoW(pool, logger), nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memstore.NewUnitOfWork(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
