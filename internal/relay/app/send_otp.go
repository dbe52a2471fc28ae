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

// SendOTP validates rawPhone, asks the provider to send an OTP to it and
// returns the session id on success.
//
// Steps:
//  1. Normalize the phone; invalid input fails without a network call.
//  2. Call the provider with the prefixed number, bounded by the timeout.
//  3. Map the answer: Success carries the session id, anything else a
//     classified message.
func (s *Service) SendOTP(ctx context.Context, rawPhone string) domain.Outcome {
	ctx, span := tracer.Start(ctx, observability.SpanSendOTP)
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	// 1. Validate input.
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return s.rejectInput(ctx, span, otpSendTotal, "relay.send_otp_invalid_input", err)
	}
	dialable := phone.WithPrefix(s.countryPrefix)
	span.SetAttributes(attribute.String("phone", phone.Masked()))

	// 2. Single bounded provider call.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.SendOTP(callCtx, dialable)
	if err != nil {
		f := upstreamFailure(err, errmap.ClassifySendError, errmap.MsgSendUnexpected)
		s.recordUpstreamFailure(ctx, span, "send", err, f)
		otpSendTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultFailed)))
		return domain.Failed(f.message)
	}

	// 3. Interpret the provider answer.
	if !resp.OK() {
		span.RecordError(fmt.Errorf("%w: status %q", domain.ErrProviderRejected, resp.Status))
		span.SetStatus(codes.Error, "provider rejected")
		otpSendTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultRejected)))
		logger.WarnContext(ctx, "relay.send_otp_rejected",
			"phone", phone.Masked(), "provider_status", resp.Status, "provider_detail", resp.Details)
		return domain.Failed(errmap.ClassifySendError(resp.Details))
	}
	if resp.Details == "" {
		span.SetStatus(codes.Error, "missing session id")
		otpSendTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultFailed)))
		logger.ErrorContext(ctx, "relay.send_otp_missing_session", "phone", phone.Masked())
		return domain.Failed(errmap.MsgSendUnexpected)
	}

	otpSendTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultSuccess)))
	logger.InfoContext(ctx, "relay.otp_sent", "phone", phone.Masked(), "session_id", resp.Details)

	return domain.Succeeded(domain.Payload{
		SessionID: resp.Details,
		Phone:     dialable,
		Message:   errmap.MsgOTPSent,
	})
}
