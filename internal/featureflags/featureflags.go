// Package featureflags exposes the remotely controlled switches of the service.
// Flags keep their defaults until Init connects to Rollout, so callers may read
// them at any time.
package featureflags

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rollout/rox-go/v5/core/model"
	"github.com/rollout/rox-go/v5/server"
)

// KeyEnv is consulted when Init is called without a key.
const KeyEnv = "ROLLOUT_KEY"

// LogLevels are the values the LogLevel flag may take.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ErrNoKey is returned by Init when no Rollout key is configured. The flags
// keep serving their defaults.
var ErrNoKey = errors.New("featureflags: no rollout key configured")

// Container is registered with Rollout.
type Container struct {
	Offline  model.Flag
	LogLevel model.RoxString
}

// Snapshot is a point-in-time read of every flag.
type Snapshot struct {
	Offline  bool   `json:"offline"`
	LogLevel string `json:"logLevel"`
}

var (
	mu    sync.Mutex
	rox   *server.Rox
	flags = &Container{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", LogLevels),
	}
)

// Init registers the flags and waits for the first configuration fetch or ctx,
// whichever comes first. An empty key falls back to $ROLLOUT_KEY.
func Init(ctx context.Context, key string) error {
	if key == "" {
		key = os.Getenv(KeyEnv)
	}
	if key == "" {
		return ErrNoKey
	}

	mu.Lock()
	defer mu.Unlock()
	if rox != nil {
		return nil
	}

	rox = server.NewRox()
	rox.Register("", flags)
	select {
	case <-rox.Setup(key, server.NewRoxOptions(server.RoxOptionsBuilder{})):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("featureflags setup: %w", ctx.Err())
	}
}

// Values returns the registered flag container.
func Values() *Container {
	return flags
}

// Current reads every flag.
func Current() Snapshot {
	return Snapshot{
		Offline:  flags.Offline.IsEnabled(nil),
		LogLevel: flags.LogLevel.GetValue(nil),
	}
}

// Offline reports whether the kill switch is on.
func Offline() bool {
	return flags.Offline.IsEnabled(nil)
}

// Shutdown stops the Rollout client if Init started one.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if rox == nil {
		return
	}
	rox.Shutdown()
	rox = nil
}
