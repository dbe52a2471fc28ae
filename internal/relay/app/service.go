// Package app orchestrates the two relay flows: sending an OTP and verifying
// it. Every call returns a domain.Outcome; no error escapes to the caller.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
	"github.com/aelexs/otp-relay/internal/observability"
	"github.com/aelexs/otp-relay/internal/provider"
)

var tracer = otel.Tracer("relay/app")

var (
	otpSendTotal          metric.Int64Counter
	otpVerifyTotal        metric.Int64Counter
	upstreamFailuresTotal metric.Int64Counter
)

func init() {
	c, _ := observability.NewRelayCounters(observability.Meter("relay/app"))
	otpSendTotal, otpVerifyTotal, upstreamFailuresTotal = c.Send, c.Verify, c.UpstreamFailures
}

// Result labels for the request counters.
const (
	resultSuccess  = "success"
	resultInvalid  = "invalid_input"
	resultRejected = "rejected"
	resultFailed   = "upstream_error"
)

// ServiceConfig holds the dependencies for Service.
type ServiceConfig struct {
	Provider      provider.OTPProvider
	CountryPrefix string        // defaults to domain.DefaultCountryPrefix
	Timeout       time.Duration // defaults to domain.UpstreamTimeout
	Logger        *slog.Logger
}

// Service relays OTP send and verify requests to the provider and normalizes
// the answers into Outcomes.
type Service struct {
	provider      provider.OTPProvider
	countryPrefix string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewService creates a new Service with the given dependencies.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		provider:      cfg.Provider,
		countryPrefix: cfg.CountryPrefix,
		timeout:       cfg.Timeout,
		logger:        cfg.Logger,
	}
	if s.countryPrefix == "" {
		s.countryPrefix = domain.DefaultCountryPrefix
	}
	if s.timeout <= 0 {
		s.timeout = domain.UpstreamTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// failure describes why an upstream call did not produce a provider answer.
type failure struct {
	kind    string
	message string
}

// upstreamFailure picks the caller message for a failed provider call.
// classify handles error-status bodies; fallback covers configuration
// problems and anything unrecognised.
func upstreamFailure(err error, classify func(string) string, fallback string) failure {
	var statusErr *provider.StatusError
	switch {
	case domain.IsConfigurationError(err):
		return failure{kind: "config", message: fallback}
	case errors.As(err, &statusErr):
		return failure{kind: "status", message: classify(statusErr.Detail)}
	case domain.IsTransportError(err):
		msg, ok := errmap.TransportMessage(err)
		if !ok {
			return failure{kind: "unexpected", message: fallback}
		}
		kind := "unreachable"
		if errors.Is(err, domain.ErrUpstreamTimeout) {
			kind = "timeout"
		}
		return failure{kind: kind, message: msg}
	default:
		return failure{kind: "unexpected", message: fallback}
	}
}

// recordUpstreamFailure reports a failed provider call.
func (s *Service) recordUpstreamFailure(ctx context.Context, span trace.Span, op string, err error, f failure) {
	span.RecordError(err)
	span.SetStatus(codes.Error, f.kind)
	upstreamFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("kind", f.kind),
	))

	logger := observability.WithTraceID(ctx, s.logger)
	if f.kind == "config" {
		logger.WarnContext(ctx, "relay.provider_not_configured", "operation", op, "error", err)
		return
	}
	logger.ErrorContext(ctx, "relay.upstream_failed", "operation", op, "kind", f.kind, "error", err)
}

// rejectInput answers input that failed validation. No provider call is made.
func (s *Service) rejectInput(ctx context.Context, span trace.Span, counter metric.Int64Counter, event string, err error) domain.Outcome {
	result := resultInvalid
	if !domain.IsValidationError(err) {
		result = resultFailed
	}
	span.SetStatus(codes.Error, "invalid input")
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	observability.WithTraceID(ctx, s.logger).InfoContext(ctx, event, "error", err)
	return domain.Failed(errmap.ValidationMessage(err))
}
