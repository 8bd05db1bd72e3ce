package bootstrap

import (
	"parq-core/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	StoreModule,
	CacheModule,
	JWTModule,
	components.UseCaseModule,
	EventsModule,
	components.HandlerModule,
	WorkersModule,
)
