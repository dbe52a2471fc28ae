package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
	"github.com/aelexs/otp-relay/internal/observability"
)

// VerifyOTP checks rawOTP against the provider session rawSessionID.
// The session id is validated before the code; both fail without a network call.
func (s *Service) VerifyOTP(ctx context.Context, rawSessionID, rawOTP string) domain.Outcome {
	ctx, span := tracer.Start(ctx, observability.SpanVerifyOTP)
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	sessionID, err := domain.NewSessionID(rawSessionID)
	if err != nil {
		return s.rejectInput(ctx, span, otpVerifyTotal, "relay.verify_otp_invalid_input", err)
	}
	code, err := domain.NewOTPCode(rawOTP)
	if err != nil {
		return s.rejectInput(ctx, span, otpVerifyTotal, "relay.verify_otp_invalid_input", err)
	}
	span.SetAttributes(attribute.String("session_id", sessionID.String()))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.VerifyOTP(callCtx, sessionID.String(), code.String())
	if err != nil {
		f := upstreamFailure(err, errmap.ClassifyVerifyError, errmap.MsgVerifyUnexpected)
		s.recordUpstreamFailure(ctx, span, "verify", err, f)
		otpVerifyTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultFailed)))
		return domain.Failed(f.message)
	}

	if !resp.OK() {
		span.RecordError(fmt.Errorf("%w: status %q", domain.ErrProviderRejected, resp.Status))
		span.SetStatus(codes.Error, "provider rejected")
		otpVerifyTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultRejected)))
		logger.WarnContext(ctx, "relay.verify_otp_rejected",
			"session_id", sessionID.String(), "provider_status", resp.Status, "provider_detail", resp.Details)
		return domain.Failed(errmap.ClassifyVerifyError(resp.Details))
	}

	otpVerifyTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultSuccess)))
	logger.InfoContext(ctx, "relay.otp_verified", "session_id", sessionID.String())

	return domain.Succeeded(domain.Payload{Message: errmap.MsgOTPVerified})
}
