package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"parq-core/internal/domain/auth"
	"parq-core/internal/handler/api"
	"parq-core/internal/handler/middleware"
	"parq-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// RouterParams is everything the HTTP surface is assembled from.
type RouterParams struct {
	fx.In

	Engine         *gin.Engine
	Config         config.Config
	Logger         *middleware.Logger
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    gin.HandlerFunc `name:"rateLimiter"`
	Bookings       *api.BookingHandler
	Spots          *api.SpotHandler
	Wallets        *api.WalletHandler
	Coupons        *api.CouponHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := p.AuthMiddleware.RequireRole(auth.RoleAdmin)
	hostOrAdmin := p.AuthMiddleware.RequireRole(auth.RoleHost, auth.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(p.AuthMiddleware.RequireAuth(), p.RateLimiter)
	{
		addRoutes(apiGroup.Group("/bookings"), []route{
			{Method: http.MethodPost, Path: "/quote", Handler: p.Bookings.Quote},
			{Method: http.MethodPost, Path: "", Handler: p.Bookings.Create},
			{Method: http.MethodGet, Path: "", Handler: p.Bookings.List},
			{Method: http.MethodGet, Path: "/:id", Handler: p.Bookings.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: p.Bookings.Cancel},
			{Method: http.MethodPost, Path: "/:id/complete", Handler: p.Bookings.Complete, Mw: []gin.HandlerFunc{hostOrAdmin}},
		})

		addRoutes(apiGroup.Group("/spots"), []route{
			{Method: http.MethodPost, Path: "", Handler: p.Spots.Create, Mw: []gin.HandlerFunc{hostOrAdmin}},
			{Method: http.MethodGet, Path: "/:id", Handler: p.Spots.Get},
			{Method: http.MethodGet, Path: "/:id/availability", Handler: p.Spots.Availability},
			{Method: http.MethodPatch, Path: "/:id/capacity", Handler: p.Spots.UpdateCapacity, Mw: []gin.HandlerFunc{hostOrAdmin}},
			{Method: http.MethodPatch, Path: "/:id/active", Handler: p.Spots.SetActive, Mw: []gin.HandlerFunc{hostOrAdmin}},
		})

		// :id also accepts "me".
		addRoutes(apiGroup.Group("/wallets"), []route{
			{Method: http.MethodGet, Path: "/:id", Handler: p.Wallets.Balance},
			{Method: http.MethodGet, Path: "/:id/transactions", Handler: p.Wallets.Transactions},
			{Method: http.MethodPost, Path: "/:id/credits", Handler: p.Wallets.TopUp, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodGet, Path: "/:id/reconcile", Handler: p.Wallets.Reconcile, Mw: []gin.HandlerFunc{adminOnly}},
		})

		addRoutes(apiGroup.Group("/coupons"), []route{
			{Method: http.MethodPost, Path: "", Handler: p.Coupons.Create, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodGet, Path: "/:code", Handler: p.Coupons.Get},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
