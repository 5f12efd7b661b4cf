package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog/internal/apierr"
	"product-catalog/internal/auth"
	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/featureflags"
	mw "product-catalog/internal/http/middleware"
	"product-catalog/internal/logger"
)

type testServer struct {
	handler http.Handler
	offline atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.handler = newRouter(routerConfig{
		store: catalog.NewMemoryStore(catalog.DefaultSeed(time.Now())),
		authz: auth.NewAPIKey("", config.DefaultAPIKey),
		flags: func() featureflags.Snapshot {
			return featureflags.Snapshot{Offline: ts.offline.Load(), LogLevel: "info"}
		},
		maxBodyBytes: 1 << 20,
	})
	return ts
}

func (ts *testServer) get(path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Welcome(t *testing.T) {
	rec := newTestServer(t).get("/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Welcome to the Product API!", body.Message)
	assert.Equal(t, "/api/products", body.Endpoints["products"])
	assert.Equal(t, "/api/stats", body.Endpoints["statistics"])
}

func TestRouter_HealthAndReady(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = ts.get("/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestRouter_Flags(t *testing.T) {
	ts := newTestServer(t)

	var snap featureflags.Snapshot
	require.NoError(t, json.Unmarshal(ts.get("/_flags").Body.Bytes(), &snap))
	assert.Equal(t, featureflags.Snapshot{Offline: false, LogLevel: "info"}, snap)
}

func TestRouter_OfflineGate(t *testing.T) {
	ts := newTestServer(t)
	ts.offline.Store(true)

	rec := ts.get("/api/products", "x-api-key", config.DefaultAPIKey)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "service temporarily offline")

	assert.Equal(t, http.StatusOK, ts.get("/health").Code)
	assert.Equal(t, http.StatusOK, ts.get("/ready").Code)

	ts.offline.Store(false)
	assert.Equal(t, http.StatusOK, ts.get("/api/products", "x-api-key", config.DefaultAPIKey).Code)
}

func TestRouter_RequestID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/health")
	assert.Len(t, rec.Header().Get(mw.RequestIDHeader), 36)

	rec = ts.get("/api/nowhere", mw.RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(mw.RequestIDHeader))
}

func TestRouter_RouteNotFound(t *testing.T) {
	rec := newTestServer(t).get("/api/nowhere?x=1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apierr.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body.Error)
	assert.Equal(t, "The route /api/nowhere?x=1 does not exist on this server", body.Message)
}

func TestRouter_APIRequiresKey(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.get("/api/stats").Code)
	assert.Equal(t, http.StatusOK, ts.get("/api/stats", "x-api-key", config.DefaultAPIKey).Code)
}

func TestNewAuthorizer(t *testing.T) {
	apiKey, err := newAuthorizer(config.Default().Auth)
	require.NoError(t, err)
	assert.IsType(t, auth.APIKey{}, apiKey)

	_, err = newAuthorizer(config.Auth{Mode: "oauth"})
	assert.Error(t, err)
}

func TestNewAuthorizer_JWTForbidsMissingRole(t *testing.T) {
	secret := "jwt-secret"
	authz, err := newAuthorizer(config.Auth{Mode: config.AuthJWT, JWTSecret: secret, Roles: []string{"admin"}})
	require.NoError(t, err)

	sign := func(roles ...string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			Roles: roles,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "tester",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+sign("viewer"))
	assert.True(t, apierr.Is(authz.Authorize(req), apierr.KindForbidden))

	req.Header.Set("Authorization", "Bearer "+sign("admin"))
	assert.NoError(t, authz.Authorize(req))
}

func TestLoadProducts(t *testing.T) {
	now := time.Now()

	cfg := config.Default()
	products, err := loadProducts(cfg, now)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	cfg.Seed = false
	products, err = loadProducts(cfg, now)
	require.NoError(t, err)
	assert.Empty(t, products)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: k1\n  name: Kettle\n  price: 20\n  category: kitchen\n"), 0o600))
	cfg.SeedFile = path
	products, err = loadProducts(cfg, now)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kettle", products[0].Name)
}

func TestServeOptionsApply(t *testing.T) {
	cfg := config.Default()
	(&ServeOptions{Addr: ":9999", SeedFile: "x.yaml"}).apply(&cfg)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "x.yaml", cfg.SeedFile)

	(&ServeOptions{NoSeed: true}).apply(&cfg)
	assert.False(t, cfg.Seed)
	assert.Empty(t, cfg.SeedFile)
}

func TestWatchLogLevel(t *testing.T) {
	logger.SetLevel("info")
	t.Cleanup(func() { logger.SetLevel("info") })

	var level atomic.Value
	level.Store("info")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchLogLevel(ctx, 5*time.Millisecond, func() string { return level.Load().(string) })
	}()

	level.Store("debug")
	assert.Eventually(t, func() bool { return logger.GetLevel() == "debug" }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRouter_BodyLimitFromConfig(t *testing.T) {
	h := newRouter(routerConfig{
		store:        catalog.NewMemoryStore(nil),
		authz:        auth.NewAPIKey("", "k"),
		flags:        func() featureflags.Snapshot { return featureflags.Snapshot{} },
		maxBodyBytes: 8,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"longer than eight bytes"}`))
	req.Header.Set("x-api-key", "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON in request body")
}

func TestWatchLogLevel_AppliesFlagChangedBeforeStart(t *testing.T) {
	logger.SetLevel("info")
	t.Cleanup(func() { logger.SetLevel("info") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = watchLogLevel(ctx, 5*time.Millisecond, func() string { return "warn" })
	}()

	assert.Eventually(t, func() bool { return logger.GetLevel() == "warn" }, time.Second, 5*time.Millisecond)
}
