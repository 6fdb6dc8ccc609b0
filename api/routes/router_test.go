package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "github.com/MuzPas1/fleety-mobile/internal/auth"
	"github.com/MuzPas1/fleety-mobile/internal/cart"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "fleety"

	return NewRouter(Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
		Cart:   cart.NewStore(),
	})
}

func TestRouterLiveness(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Fleety-Env"))
}

func TestRouterReadinessWithoutDeps(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code, "nil dependencies are skipped in readiness")
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/checkout/preview"},
		{http.MethodGet, "/api/v1/addresses"},
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodGet, "/api/v1/me"},
	}
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

type stubAuthService struct{}

func (stubAuthService) Register(_ context.Context, input authsvc.RegisterInput) (*authsvc.Credentials, error) {
	return &authsvc.Credentials{
		User:        &models.User{ID: uuid.New(), Email: input.Email, Name: input.Name},
		AccessToken: "access-token",
	}, nil
}

func (stubAuthService) Login(_ context.Context, input authsvc.LoginInput) (*authsvc.Credentials, error) {
	return &authsvc.Credentials{
		User:        &models.User{ID: uuid.New(), Email: input.Email},
		AccessToken: "access-token",
	}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

func (stubAuthService) Profile(context.Context, uuid.UUID) (*models.User, error) {
	return &models.User{ID: uuid.New()}, nil
}

func TestRouterRegisterWithoutRedisPassesThrough(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "fleety"

	router := NewRouter(Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
		Auth:   stubAuthService{},
		Cart:   cart.NewStore(),
	})

	body := strings.NewReader(`{"email":"diner@example.com","name":"Diner","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "reg-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "without redis the idempotency layer must pass through, not 503")
	assert.Contains(t, rec.Body.String(), "diner@example.com")
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
