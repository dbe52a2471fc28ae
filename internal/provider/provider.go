// Package provider defines the contract between the relay and the upstream
// OTP service. Implementations live in internal/relay/adapter.
package provider

import (
	"context"
	"fmt"

	"github.com/aelexs/otp-relay/internal/domain"
)

// Response is the provider's answer to a send or verify call. On a successful
// send, Details carries the session id; otherwise it carries the reason.
type Response struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

// OK reports whether the provider accepted the request.
func (r Response) OK() bool {
	return r.Status == domain.ProviderSuccess
}

// OTPProvider sends and verifies one-time passwords.
// Implementations must not retry: one call in, at most one upstream request out.
type OTPProvider interface {
	// SendOTP asks the provider to deliver an auto-generated OTP to phone,
	// which is in dialable form (country prefix included).
	SendOTP(ctx context.Context, phone string) (Response, error)

	// VerifyOTP checks otp against the session returned by SendOTP.
	VerifyOTP(ctx context.Context, sessionID, otp string) (Response, error)
}

// KeySource resolves the provider API key from an external secret store.
type KeySource interface {
	APIKey(ctx context.Context) (domain.SecretString, error)
}

// StatusError reports a non-2xx HTTP answer from the provider. Detail holds
// the reason the provider gave in its body, if any.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d", e.Code)
}

// Unwrap lets errors.Is match domain.ErrUpstreamStatus.
func (e *StatusError) Unwrap() error {
	return domain.ErrUpstreamStatus
}
