package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/featureflags"
	"product-catalog/internal/logger"
)

const flagPollInterval = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr     string
	SeedFile string
	NoSeed   bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the product-catalog HTTP API.

Settings come from defaults, then --config, then the environment
(PORT, API_KEY, AUTH_MODE, JWT_SECRET, ROLLOUT_KEY, LOG_LEVEL, LOG_FORMAT),
then the flags below. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			opts.apply(&cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address, e.g. :8080")
	cmd.Flags().StringVar(&opts.SeedFile, "seed-file", "", "YAML file with the initial products")
	cmd.Flags().BoolVar(&opts.NoSeed, "no-seed", false, "start with an empty catalog")

	return cmd
}

func (o *ServeOptions) apply(cfg *config.Config) {
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.SeedFile != "" {
		cfg.SeedFile = o.SeedFile
	}
	if o.NoSeed {
		cfg.Seed = false
		cfg.SeedFile = ""
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer logger.Sync()

	// Feature flags init (non-fatal)
	flagsCtx, cancel := context.WithTimeout(ctx, cfg.FeatureFlags.Timeout)
	flagsErr := featureflags.Init(flagsCtx, cfg.FeatureFlags.RolloutKey)
	cancel()
	defer featureflags.Shutdown()
	if flagsErr != nil {
		logger.Warnf("feature flags init warning: %v", flagsErr)
	} else {
		snap := featureflags.Current()
		logger.Infof("feature flags ready: offline=%v, logLevel=%s", snap.Offline, snap.LogLevel)
		logger.SetLevel(snap.LogLevel)
	}
	logger.Infof("log level set to %s", logger.GetLevel())

	products, err := loadProducts(cfg, time.Now())
	if err != nil {
		return err
	}
	store := catalog.NewMemoryStore(products)
	logger.Infof("catalog seeded with %d products", len(products))

	authz, err := newAuthorizer(cfg.Auth)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(routerConfig{
			store:        store,
			authz:        authz,
			flags:        featureflags.Current,
			maxBodyBytes: cfg.MaxBodyBytes,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("product-catalog listening on %s (auth=%s)", srv.Addr, cfg.Auth.Mode)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if flagsErr == nil {
		g.Go(func() error {
			return watchLogLevel(gctx, flagPollInterval, func() string { return featureflags.Current().LogLevel })
		})
	}
	return g.Wait()
}
