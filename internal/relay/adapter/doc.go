// Package adapter contains the OTPProvider implementations and the secret
// store lookup used by the relay.
package adapter

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("relay/adapter")
