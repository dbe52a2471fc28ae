package adapter

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/provider"
)

// Compile-time interface satisfaction check.
var _ provider.OTPProvider = (*LogProvider)(nil)

// LogProvider is a fake OTPProvider that logs instead of sending SMS. It is
// stateless: sends return a random session id and verification accepts any
// well-formed code for any session. Suitable for local development.
type LogProvider struct {
	logger *slog.Logger
}

// NewLogProvider creates a LogProvider that writes OTP events to logger.
func NewLogProvider(logger *slog.Logger) *LogProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProvider{logger: logger}
}

// SendOTP logs the delivery with a masked phone number and returns a new session id.
func (p *LogProvider) SendOTP(ctx context.Context, phone string) (provider.Response, error) {
	sessionID := uuid.NewString()

	p.logger.InfoContext(ctx, "otp delivery (log-only)",
		slog.String("phone", domain.MaskPhone(phone)),
		slog.String("session_id", sessionID),
	)

	return provider.Response{Status: domain.ProviderSuccess, Details: sessionID}, nil
}

// VerifyOTP accepts any six-digit code. A malformed code is answered the way
// the real provider answers a mismatch.
func (p *LogProvider) VerifyOTP(ctx context.Context, sessionID, otp string) (provider.Response, error) {
	if _, err := domain.NewOTPCode(otp); err != nil {
		return provider.Response{Status: "Error", Details: "OTP Mismatch - invalid otp"}, nil
	}

	p.logger.InfoContext(ctx, "otp verified (log-only)", slog.String("session_id", sessionID))
	return provider.Response{Status: domain.ProviderSuccess, Details: "OTP Matched"}, nil
}
