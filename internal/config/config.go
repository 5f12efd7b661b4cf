// Package config resolves service settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AuthAPIKey = "apikey"
	AuthJWT    = "jwt"

	DefaultAPIKey = "secret-api-key-2024"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	Logging         Logging       `yaml:"logging"`
	Auth            Auth          `yaml:"auth"`
	FeatureFlags    FeatureFlags  `yaml:"featureFlags"`
	Seed            bool          `yaml:"seed"`
	SeedFile        string        `yaml:"seedFile"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" | "console"
}

type Auth struct {
	Mode      string   `yaml:"mode"` // "apikey" | "jwt"
	Header    string   `yaml:"header"`
	APIKey    string   `yaml:"apiKey"`
	JWTSecret string   `yaml:"jwtSecret"`
	Roles     []string `yaml:"roles"`
}

type FeatureFlags struct {
	RolloutKey string        `yaml:"rolloutKey"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Addr: ":3000",
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Auth: Auth{
			Mode:   AuthAPIKey,
			Header: "x-api-key",
			APIKey: DefaultAPIKey,
		},
		FeatureFlags: FeatureFlags{
			Timeout: 20 * time.Second,
		},
		Seed:            true,
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load layers the YAML file at path (if any) and the environment over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Auth.APIKey = v
	}
	if v := os.Getenv("AUTH_MODE"); v != "" {
		c.Auth.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("ROLLOUT_KEY"); v != "" {
		c.FeatureFlags.RolloutKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	switch c.Auth.Mode {
	case AuthAPIKey:
		if c.Auth.APIKey == "" {
			errs = append(errs, errors.New("auth.apiKey is empty"))
		}
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("auth.jwtSecret is required in jwt mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth.mode %q", c.Auth.Mode))
	}
	switch c.Logging.Format {
	case "json", "console", "dev":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("maxBodyBytes is negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
