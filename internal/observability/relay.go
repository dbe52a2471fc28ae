package observability

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
)

// Span names emitted by the relay.
const (
	SpanSendOTP        = "relay.send_otp"
	SpanVerifyOTP      = "relay.verify_otp"
	SpanProviderSend   = "twofactor.send_otp"
	SpanProviderVerify = "twofactor.verify_otp"
)

// Metric names emitted by the relay.
const (
	MetricOTPSend          = "relay_otp_send_total"
	MetricOTPVerify        = "relay_otp_verify_total"
	MetricUpstreamFailures = "relay_upstream_failures_total"
)

// RelayCounters are the request and failure counters of the relay service.
// Send and Verify carry a "result" attribute; UpstreamFailures carries
// "operation" and "kind".
type RelayCounters struct {
	Send             metric.Int64Counter
	Verify           metric.Int64Counter
	UpstreamFailures metric.Int64Counter
}

// NewRelayCounters registers the relay counters on m. Instruments that fail
// to register are still usable no-ops; the joined error reports them.
func NewRelayCounters(m metric.Meter) (RelayCounters, error) {
	send, errSend := m.Int64Counter(MetricOTPSend,
		metric.WithDescription("Total OTP send requests by result"))
	verify, errVerify := m.Int64Counter(MetricOTPVerify,
		metric.WithDescription("Total OTP verify requests by result"))
	failures, errFailures := m.Int64Counter(MetricUpstreamFailures,
		metric.WithDescription("Total failed upstream calls by kind"))

	return RelayCounters{
		Send:             send,
		Verify:           verify,
		UpstreamFailures: failures,
	}, errors.Join(errSend, errVerify, errFailures)
}
