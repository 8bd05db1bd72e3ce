package components

import (
	"parq-core/internal/handler"
	"parq-core/internal/handler/api"
	"parq-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewSpotHandler,
		api.NewWalletHandler,
		api.NewCouponHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
