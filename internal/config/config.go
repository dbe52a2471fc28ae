// Package config provides configuration loading using koanf.
// Precedence: environment (including an optional .env file) over compiled defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/aelexs/otp-relay/internal/domain"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// HTTP listener
	Port           int      `koanf:"port"`
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Upstream provider
	TwoFactor TwoFactorConfig `koanf:"twofactor"`

	// Infrastructure configurations
	AWS AWSConfig `koanf:"aws"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// TwoFactorConfig holds the 2Factor provider configuration.
type TwoFactorConfig struct {
	APIKey         domain.SecretString `koanf:"api_key"`
	APIKeySecretID string              `koanf:"api_key_secret_id"` // Secrets Manager id, used when APIKey is empty
	BaseURL        string              `koanf:"base_url"`
	Timeout        time.Duration       `koanf:"timeout"`
	CountryPrefix  string              `koanf:"country_prefix"`
	Provider       domain.ProviderKind `koanf:"provider"`
}

// AWSConfig holds AWS SDK configuration.
type AWSConfig struct {
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"` // LocalStack endpoint for development
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// sections are the env prefixes that map to nested config structs.
// Any other variable is kept flat, so LOG_LEVEL stays log_level.
var sections = []string{"twofactor_", "aws_", "otel_"}

var countryPrefixPattern = regexp.MustCompile(`^\+[0-9]{1,4}$`)

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment:    "local",
		LogLevel:       "info",
		LogFormat:      "json",
		Port:           domain.DefaultHTTPPort,
		AllowedOrigins: []string{"*"},

		TwoFactor: TwoFactorConfig{
			BaseURL:       domain.DefaultProviderURL,
			Timeout:       domain.UpstreamTimeout,
			CountryPrefix: domain.DefaultCountryPrefix,
			Provider:      domain.ProviderTwoFactor,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		OTEL: OTELConfig{
			ServiceName: "otprelay",
		},
	}
}

// LoadDotEnv loads variables from the given files (".env" when none are given)
// without overriding variables already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found, using process environment")
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest), including those read from .env
// 2. Compiled defaults (lowest)
//
// A missing API key is not a startup failure: the relay answers every call
// with a generic failure until one is configured. Invalid values are.
func Load(ctx context.Context) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Start with compiled defaults
	cfg := defaults()

	err := k.Load(env.ProviderWithValue("", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps an environment variable to its koanf path. Section variables
// are nested on their first underscore (TWOFACTOR_API_KEY -> twofactor.api_key).
// ALLOWED_ORIGINS is split on commas.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(key)
	for _, prefix := range sections {
		if strings.HasPrefix(key, prefix) {
			return strings.Replace(key, "_", ".", 1), value
		}
	}
	if key == "allowed_origins" {
		return key, splitList(value)
	}
	return key, value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validate rejects values the relay cannot run with.
func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d", domain.ErrConfigInvalid, cfg.Port)
	}
	if cfg.TwoFactor.Timeout <= 0 {
		return fmt.Errorf("%w: twofactor.timeout must be positive", domain.ErrConfigInvalid)
	}
	if !domain.IsValidProviderKind(cfg.TwoFactor.Provider) {
		return fmt.Errorf("%w: twofactor.provider %q", domain.ErrConfigInvalid, cfg.TwoFactor.Provider)
	}
	if cfg.IsProd() && cfg.TwoFactor.Provider == domain.ProviderLog {
		return fmt.Errorf("%w: twofactor.provider %q is not allowed in prod", domain.ErrConfigInvalid, cfg.TwoFactor.Provider)
	}
	if !countryPrefixPattern.MatchString(cfg.TwoFactor.CountryPrefix) {
		return fmt.Errorf("%w: twofactor.country_prefix %q", domain.ErrConfigInvalid, cfg.TwoFactor.CountryPrefix)
	}
	u, err := url.Parse(cfg.TwoFactor.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: twofactor.base_url %q", domain.ErrConfigInvalid, cfg.TwoFactor.BaseURL)
	}
	if len(cfg.AllowedOrigins) == 0 {
		return fmt.Errorf("%w: allowed_origins", domain.ErrConfigRequired)
	}
	return nil
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// HasAPIKeySource reports whether the API key is set directly or can be
// fetched from Secrets Manager.
func (c *Config) HasAPIKeySource() bool {
	return !c.TwoFactor.APIKey.IsEmpty() || c.TwoFactor.APIKeySecretID != ""
}
