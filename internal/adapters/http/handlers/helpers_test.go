package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/auth"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/fuel-quote-service/internal/app"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

// testAPI is the full /api/v1 surface over the in-memory store.
type testAPI struct {
	router *gin.Engine
	store  *memory.Store
	tokens *auth.JWTIssuer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI(t *testing.T, requireToken bool) *testAPI {
	t.Helper()

	store := memory.NewStore()

	tokens, err := auth.NewJWTIssuer("handler-test-secret", "fuel-quote-test", time.Hour)
	require.NoError(t, err)

	return newTestAPIWith(t, store, store, tokens, requireToken)
}

func newTestAPIWith(
	t *testing.T,
	accounts ports.AccountRepository,
	quotes ports.QuoteRepository,
	tokens *auth.JWTIssuer,
	requireToken bool,
) *testAPI {
	t.Helper()

	accountSvc := app.NewAccountService(app.AccountServiceConfig{
		Accounts: accounts,
		Hasher:   auth.NewBcryptHasher(4),
		Tokens:   tokens,
		Logger:   discardLogger(),
	})
	quoteSvc := app.NewQuoteService(app.QuoteServiceConfig{
		Accounts: accounts,
		Quotes:   quotes,
		Logger:   discardLogger(),
	})

	var gate []gin.HandlerFunc
	if requireToken {
		gate = append(gate, middleware.RequireToken(tokens))
	}

	router := gin.New()
	api := router.Group("/api/v1")

	accountHandler := NewAccountHandler(accountSvc)
	accountHandler.RegisterAuthRoutes(api)
	accountHandler.RegisterProfileRoutes(api, gate...)
	NewQuoteHandler(quoteSvc).RegisterQuoteRoutes(api, gate...)

	store, _ := accounts.(*memory.Store)

	return &testAPI{router: router, store: store, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

// register creates an account through the API and returns its token.
func (a *testAPI) register(t *testing.T, username string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"password": "testpassword123@",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp["token"]
}

func profileBody(username string) map[string]string {
	return map[string]string{
		"username": username,
		"fullName": "Test User",
		"address1": "100 Main St",
		"address2": "Suite 4",
		"city":     "Houston",
		"state":    "TX",
		"zipcode":  "77001",
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func init() {
	gin.SetMode(gin.TestMode)
}
