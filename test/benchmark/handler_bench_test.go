package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/auth"
	httpadapter "github.com/jsamuelsen/fuel-quote-service/internal/adapters/http"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/fuel-quote-service/internal/app"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain/pricing"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/config"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRouter wires the full /api/v1 surface over the in-memory store and
// registers one user.
func newRouter(b *testing.B) *gin.Engine {
	b.Helper()

	store := memory.NewStore()

	tokens, err := auth.NewJWTIssuer("benchmark-secret-value", "fuel-quote-bench", time.Hour)
	if err != nil {
		b.Fatal(err)
	}

	accounts := app.NewAccountService(app.AccountServiceConfig{
		Accounts: store,
		Hasher:   auth.NewBcryptHasher(4),
		Tokens:   tokens,
		Logger:   discardLogger(),
	})
	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Accounts: store,
		Quotes:   store,
		Logger:   discardLogger(),
	})

	router := gin.New()
	httpadapter.SetupRouter(router, httpadapter.RouterConfig{
		Logger:         discardLogger(),
		AppConfig:      &config.AppConfig{Name: "fuel-quote-bench"},
		AccountHandler: handlers.NewAccountHandler(accounts),
		QuoteHandler:   handlers.NewQuoteHandler(quotes),
		Timeout:        time.Second,
	})

	if _, err := accounts.Register(context.Background(), "bench", "benchpassword1!"); err != nil {
		b.Fatal(err)
	}

	return router
}

func quoteBody(b *testing.B) []byte {
	b.Helper()

	body, err := json.Marshal(map[string]any{
		"username":         "bench",
		"gallonsRequested": 1500,
		"deliveryAddress":  "100 Main St",
		"deliveryDate":     "2026-11-01",
		"state":            "TX",
	})
	if err != nil {
		b.Fatal(err)
	}

	return body
}

// BenchmarkPricingEngine measures the pure pricing computation.
func BenchmarkPricingEngine(b *testing.B) {
	engine := pricing.New(nil)
	req := pricing.Request{Gallons: 1500, State: "TX", HasHistory: true}

	b.ReportAllocs()

	for b.Loop() {
		_ = engine.Price(req)
	}
}

// BenchmarkPreviewQuote measures a full request through the middleware chain
// without persisting anything.
func BenchmarkPreviewQuote(b *testing.B) {
	router := newRouter(b)
	body := quoteBody(b)

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/preview", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkCreateQuote measures quote creation against the growing in-memory history.
func BenchmarkCreateQuote(b *testing.B) {
	router := newRouter(b)
	body := quoteBody(b)

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkTokenVerify measures the bearer token gate.
func BenchmarkTokenVerify(b *testing.B) {
	tokens, err := auth.NewJWTIssuer("benchmark-secret-value", "fuel-quote-bench", time.Hour)
	if err != nil {
		b.Fatal(err)
	}

	token, err := tokens.Issue("bench")
	if err != nil {
		b.Fatal(err)
	}

	router := gin.New()
	router.GET("/gated", middleware.RequireToken(tokens), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodGet, "/gated", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with registered health checks.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry(time.Second)
	_ = registry.Register(memory.NewStore())
	_ = registry.Register(&simpleHealthChecker{name: "postgres"})

	handler := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z"), nil)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req
		handler.Readiness(c)
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
