package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"product-catalog/internal/auth"
	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/featureflags"
	mw "product-catalog/internal/http/middleware"
	"product-catalog/internal/http/response"
	"product-catalog/internal/logger"
)

// healthPaths bypass the offline gate and the request log.
var healthPaths = []string{"/health", "/ready"}

type routerConfig struct {
	store        catalog.Store
	authz        auth.Authorizer
	flags        func() featureflags.Snapshot
	maxBodyBytes int64
}

// newRouter builds the full HTTP surface. The middleware wraps the router
// rather than being added with Router.Use so unmatched routes pass through it
// too.
func newRouter(rc routerConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]any{
			"message": "Welcome to the Product API!",
			"endpoints": map[string]string{
				"products":   "/api/products",
				"statistics": "/api/stats",
				"flags":      "/_flags",
			},
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if _, err := rc.store.List(r.Context()); err != nil {
			logger.Warnf("readiness check failed: %v", err)
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, rc.flags())
	}).Methods(http.MethodGet)

	catalog.NewHandler(rc.store, rc.authz, catalog.WithMaxBodyBytes(rc.maxBodyBytes)).Mount(r)

	r.NotFoundHandler = http.HandlerFunc(response.RouteNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(response.RouteNotFound)

	var h http.Handler = r
	h = mw.OfflineGate(func() bool { return rc.flags().Offline }, healthPaths...)(h)
	h = mw.Recover(h)
	h = mw.LogRequests(mw.WithSkips(healthPaths...))(h)
	h = mw.RequestID(h)
	return h
}

// newAuthorizer picks the authorization stage for cfg.Mode.
func newAuthorizer(cfg config.Auth) (auth.Authorizer, error) {
	switch cfg.Mode {
	case config.AuthAPIKey:
		return auth.NewAPIKey(cfg.Header, cfg.APIKey), nil
	case config.AuthJWT:
		return auth.JWT{Secret: []byte(cfg.JWTSecret), Roles: cfg.Roles}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// loadProducts returns the initial catalog: the seed file when one is set,
// otherwise the built-in products when seeding is on.
func loadProducts(cfg config.Config, now time.Time) ([]catalog.Product, error) {
	switch {
	case cfg.SeedFile != "":
		return catalog.LoadSeed(cfg.SeedFile, now)
	case cfg.Seed:
		return catalog.DefaultSeed(now), nil
	default:
		return nil, nil
	}
}

// watchLogLevel polls level and applies every change to the logger until ctx
// is done. The baseline is the logger's current level, so a flag flipped
// before the first poll is still applied.
func watchLogLevel(ctx context.Context, every time.Duration, level func() string) error {
	prev := logger.GetLevel()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur := level()
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}
}
