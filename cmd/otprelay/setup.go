package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aelexs/otp-relay/internal/config"
	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/provider"
	"github.com/aelexs/otp-relay/internal/relay/adapter"
	"github.com/aelexs/otp-relay/internal/relay/app"
	"github.com/aelexs/otp-relay/internal/relay/port"
	"github.com/aelexs/otp-relay/internal/secrets"
	"github.com/aelexs/otp-relay/internal/server"
)

// setup is the relay's composition root. It resolves the API key, picks the
// provider, and builds the service and router.
func setup(ctx context.Context, deps server.Deps) (http.Handler, error) {
	cfg := deps.Config
	logger := deps.Logger

	// 1. API key (environment first, then Secrets Manager).
	apiKey, err := resolveAPIKey(ctx, cfg, logger, newSecretsKeySource)
	if err != nil {
		return nil, fmt.Errorf("otprelay setup: resolve api key: %w", err)
	}

	// 2. Provider.
	otpProvider := createProvider(cfg, apiKey, logger)

	// 3. Relay service.
	svc := app.NewService(app.ServiceConfig{
		Provider:      otpProvider,
		CountryPrefix: cfg.TwoFactor.CountryPrefix,
		Timeout:       cfg.TwoFactor.Timeout,
		Logger:        logger,
	})

	// 4. HTTP surface.
	router := port.NewRouter(port.RouterConfig{
		Service:        svc,
		Clock:          domain.RealClock{},
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.InfoContext(ctx, "otp relay initialized",
		slog.String("provider", string(cfg.TwoFactor.Provider)),
		slog.Bool("api_key_configured", !apiKey.IsEmpty()),
		slog.String("country_prefix", cfg.TwoFactor.CountryPrefix),
	)

	return router, nil
}

// keySourceFactory builds the Secrets Manager key source. Replaced in tests.
type keySourceFactory func(ctx context.Context, cfg *config.Config) (provider.KeySource, error)

func newSecretsKeySource(ctx context.Context, cfg *config.Config) (provider.KeySource, error) {
	client, err := secrets.NewClient(ctx, secrets.Config{
		Endpoint: cfg.AWS.Endpoint,
		Region:   cfg.AWS.Region,
		Timeout:  cfg.TwoFactor.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create secrets manager client: %w", err)
	}
	return adapter.NewSecretsManagerKeySource(client.SM, cfg.TwoFactor.APIKeySecretID), nil
}

// resolveAPIKey returns the configured key, fetching it from Secrets Manager
// when only a secret id is set. A missing key is logged, not fatal: every
// relay call then fails with a generic message. A configured secret that
// cannot be read is fatal.
func resolveAPIKey(ctx context.Context, cfg *config.Config, logger *slog.Logger, newSource keySourceFactory) (domain.SecretString, error) {
	if !cfg.HasAPIKeySource() {
		if cfg.TwoFactor.Provider == domain.ProviderTwoFactor {
			logger.WarnContext(ctx, "TWOFACTOR_API_KEY is not set; send and verify will fail until it is configured")
		}
		return "", nil
	}
	if !cfg.TwoFactor.APIKey.IsEmpty() {
		return cfg.TwoFactor.APIKey, nil
	}

	src, err := newSource(ctx, cfg)
	if err != nil {
		return "", err
	}
	key, err := src.APIKey(ctx)
	if err != nil {
		if secrets.IsResourceNotFound(err) {
			return "", fmt.Errorf("%w: secret %q does not exist: %w", domain.ErrConfigInvalid, cfg.TwoFactor.APIKeySecretID, err)
		}
		return "", err
	}
	logger.InfoContext(ctx, "loaded api key from secrets manager",
		slog.String("secret_id", cfg.TwoFactor.APIKeySecretID))
	return key, nil
}

// createProvider returns the provider selected by TWOFACTOR_PROVIDER.
// "log" is a local fake that never sends SMS.
func createProvider(cfg *config.Config, apiKey domain.SecretString, logger *slog.Logger) provider.OTPProvider {
	if cfg.TwoFactor.Provider == domain.ProviderLog {
		logger.Info("using log-only OTP provider (no SMS is sent)")
		return adapter.NewLogProvider(logger)
	}

	return adapter.NewTwoFactorClient(adapter.TwoFactorConfig{
		BaseURL: cfg.TwoFactor.BaseURL,
		APIKey:  apiKey,
		Timeout: cfg.TwoFactor.Timeout,
	})
}
