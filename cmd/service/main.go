// Package main is the entry point for the fuel quote service.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/auth"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/repository/postgres"
	"github.com/jsamuelsen/fuel-quote-service/internal/app"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain/pricing"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/config"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// repositories is the persistence backend chosen by database.driver.
type repositories struct {
	accounts ports.AccountRepository
	quotes   ports.QuoteRepository
	health   ports.HealthChecker
	close    func() error
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("database_driver", cfg.Database.Driver),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the persistence backend
	repos, err := openRepositories(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := repos.close(); closeErr != nil {
			logger.Error("closing database", slog.Any("error", closeErr))
		}
	}()

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry(ports.DefaultCheckTimeout)
	if err := healthRegistry.Register(repos.health); err != nil {
		return fmt.Errorf("registering %s health check: %w", repos.health.Name(), err)
	}

	// 7. Session tokens and password hashing
	tokens, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// 8. Application services
	promMetrics := metrics.New()

	accountService := app.NewAccountService(app.AccountServiceConfig{
		Accounts: repos.accounts,
		Hasher:   hasher,
		Tokens:   tokens,
		Metrics:  promMetrics,
		Logger:   logger,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Accounts:   repos.accounts,
		Quotes:     repos.quotes,
		Engine:     pricing.New(rateTable(&cfg.Pricing)),
		MaxGallons: cfg.Pricing.MaxGallons,
		Metrics:    promMetrics,
		Logger:     logger,
	})

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, promMetrics.Handler())

	// 10. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		HealthHandler:  healthHandler,
		AccountHandler: handlers.NewAccountHandler(accountService),
		QuoteHandler:   handlers.NewQuoteHandler(quoteService),
		Tokens:         tokens,
		RequireToken:   cfg.Auth.RequireToken,
		Metrics:        promMetrics,
		Timeout:        cfg.Server.RequestTimeout,
	})

	// 11. Start server (non-blocking)
	serverErr := server.Start()

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// openRepositories builds the repositories for cfg.Driver. The postgres driver
// migrates the schema first when cfg.Migrate is set.
func openRepositories(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*repositories, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory store; data is lost on restart")

		store := memory.NewStore()

		return &repositories{
			accounts: store,
			quotes:   store,
			health:   store,
			close:    func() error { return nil },
		}, nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(openCtx, postgres.Config{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}

		logger.Info("database migrations applied")
	}

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		accounts: postgres.NewAccountRepository(db),
		quotes:   postgres.NewQuoteRepository(db),
		health:   postgres.NewHealthChecker(db),
		close:    db.Close,
	}
}

// rateTable maps the pricing config section onto the engine's rate table.
func rateTable(cfg *config.PricingConfig) *pricing.StaticRateTable {
	return &pricing.StaticRateTable{
		Base:              cfg.BasePrice,
		HomeState:         cfg.HomeState,
		InStateFactor:     cfg.InStateFactor,
		OutOfStateFactor:  cfg.OutOfStateFactor,
		VolumeThreshold:   cfg.VolumeThreshold,
		SmallVolumeFactor: cfg.SmallVolumeFactor,
		LargeVolumeFactor: cfg.LargeVolumeFactor,
		History:           cfg.HistoryFactor,
		Profit:            cfg.ProfitFactor,
	}
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
