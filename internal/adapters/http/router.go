package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/config"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	HealthHandler  *handlers.HealthHandler
	AccountHandler *handlers.AccountHandler
	QuoteHandler   *handlers.QuoteHandler

	// Tokens verifies bearer tokens when RequireToken is set.
	Tokens       ports.TokenIssuer
	RequireToken bool

	// Metrics records per-route Prometheus counters. Nil disables them.
	Metrics *metrics.Metrics

	// Timeout bounds every /api/v1 request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - request-scoped slog.Logger
//  3. Request ID and Correlation ID
//  4. OpenTelemetry - span and OTel request metrics
//  5. Trace context - trace ID onto the logger and gin context
//  6. Prometheus - per-route counters
//  7. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): health, build info and metrics, no auth or timeout
//   - /api/v1/auth: registration and login, always public
//   - /api/v1/profile, /api/v1/quotes: bearer token when RequireToken is set
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)

	serviceName := "fuel-quote-service"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.TraceContext())

	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.GinMiddleware())
	}

	engine.Use(middleware.Logging(cfg.Logger, "/-/live", "/-/ready", "/-/metrics"))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers the account and quote endpoints.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	var gate []gin.HandlerFunc
	if cfg.RequireToken && cfg.Tokens != nil {
		gate = append(gate, middleware.RequireToken(cfg.Tokens))
	}

	if cfg.AccountHandler != nil {
		cfg.AccountHandler.RegisterAuthRoutes(rg)
		cfg.AccountHandler.RegisterProfileRoutes(rg, gate...)
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg, gate...)
	}
}
