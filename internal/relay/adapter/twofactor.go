package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/observability"
	"github.com/aelexs/otp-relay/internal/provider"
)

// maxResponseBytes bounds how much of a provider body is read.
const maxResponseBytes = 64 << 10

// Compile-time interface satisfaction check.
var _ provider.OTPProvider = (*TwoFactorClient)(nil)

// TwoFactorConfig holds the settings for TwoFactorClient.
type TwoFactorConfig struct {
	BaseURL string
	APIKey  domain.SecretString
	Timeout time.Duration

	// Transport overrides http.DefaultTransport. Tests point this at httptest.
	Transport http.RoundTripper
}

// TwoFactorClient calls the 2Factor SMS-OTP HTTP API.
// The API key travels in the URL path, so request URLs are never logged or
// put on spans, and *url.Error values are unwrapped before being returned.
type TwoFactorClient struct {
	baseURL string
	apiKey  domain.SecretString
	timeout time.Duration
	http    *http.Client
}

// NewTwoFactorClient creates a TwoFactorClient.
func NewTwoFactorClient(cfg TwoFactorConfig) *TwoFactorClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.UpstreamTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &TwoFactorClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout, Transport: transport},
	}
}

// SendOTP requests an auto-generated OTP for phone:
// GET {base}/{apiKey}/SMS/{phone}/AUTOGEN/OTP1.
func (c *TwoFactorClient) SendOTP(ctx context.Context, phone string) (provider.Response, error) {
	ctx, span := tracer.Start(ctx, observability.SpanProviderSend)
	defer span.End()
	span.SetAttributes(attribute.String("phone", domain.MaskPhone(phone)))

	resp, err := c.call(ctx, "SMS", phone, "AUTOGEN", "OTP1")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, fmt.Errorf("twofactor: send otp: %w", err)
	}
	span.SetAttributes(attribute.String("provider.status", resp.Status))
	return resp, nil
}

// VerifyOTP checks otp against sessionID:
// GET {base}/{apiKey}/SMS/VERIFY/{sessionID}/{otp}.
func (c *TwoFactorClient) VerifyOTP(ctx context.Context, sessionID, otp string) (provider.Response, error) {
	ctx, span := tracer.Start(ctx, observability.SpanProviderVerify)
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionID))

	resp, err := c.call(ctx, "SMS", "VERIFY", sessionID, otp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, fmt.Errorf("twofactor: verify otp: %w", err)
	}
	span.SetAttributes(attribute.String("provider.status", resp.Status))
	return resp, nil
}

// call performs one GET against the provider. segments are path-escaped.
func (c *TwoFactorClient) call(ctx context.Context, segments ...string) (provider.Response, error) {
	if c.apiKey.IsEmpty() {
		return provider.Response{}, fmt.Errorf("%w: twofactor api key", domain.ErrConfigRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(segments...), nil)
	if err != nil {
		return provider.Response{}, fmt.Errorf("build request: %w", stripURL(err))
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return provider.Response{}, classifyTransport(ctx, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return provider.Response{}, classifyTransport(ctx, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return provider.Response{}, &provider.StatusError{Code: res.StatusCode, Detail: errorDetail(body)}
	}

	// An unreadable 2xx body carries no Status, so the caller classifies it
	// as a rejection with no detail.
	var out provider.Response
	if err := json.Unmarshal(body, &out); err != nil {
		trace.SpanFromContext(ctx).AddEvent("twofactor.undecodable_body",
			trace.WithAttributes(attribute.Int("http.status_code", res.StatusCode)))
		return provider.Response{}, nil
	}
	return out, nil
}

func (c *TwoFactorClient) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteByte('/')
	b.WriteString(url.PathEscape(c.apiKey.Expose()))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// errorDetail extracts the reason from an error body: Details, then message.
func errorDetail(body []byte) string {
	var payload struct {
		Details string `json:"Details"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Details != "" {
		return payload.Details
	}
	return payload.Message
}

// classifyTransport maps a failed round trip onto the transport sentinels.
// Anything it does not recognise is returned unclassified.
func classifyTransport(ctx context.Context, err error) error {
	err = stripURL(err)

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	case errors.As(err, &dnsErr) && !dnsErr.IsTimeout:
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnreachable, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnreachable, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	default:
		return err
	}
}

// stripURL drops the *url.Error wrapper, whose message embeds the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
