package domain

import "time"

// Relay limits. These are compiled defaults that can be overridden via configuration.
const (
	// Upstream provider
	UpstreamTimeout      = 10 * time.Second // Bound on a single outbound call
	DefaultCountryPrefix = "+91"            // Prepended to the ten national digits
	DefaultProviderURL   = "https://2factor.in/API/V1"
	ProviderSuccess      = "Success" // Literal Status marker for a successful provider call

	// HTTP boundary
	MaxRequestBodyBytes = 10 << 20 // 10 MB
	DefaultHTTPPort     = 3001

	// Graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second // Max time to drain connections on shutdown
	ShutdownDrainDelay      = 2 * time.Second  // Time for load balancers to notice 503s
	ShutdownHTTPTimeout     = 10 * time.Second
	ShutdownOTELTimeout     = 5 * time.Second
)

// ProviderKind selects the upstream provider implementation.
type ProviderKind string

const (
	ProviderTwoFactor ProviderKind = "twofactor"
	ProviderLog       ProviderKind = "log"
)

// IsValidProviderKind checks if a provider kind is supported.
func IsValidProviderKind(k ProviderKind) bool {
	return k == ProviderTwoFactor || k == ProviderLog
}
