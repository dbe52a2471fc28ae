package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// Validation errors: malformed caller input, detected before any network call.
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrInvalidOTPFormat   = errors.New("invalid OTP format")
	ErrSessionIDRequired  = errors.New("session ID is required")

	// Provider rejection: the upstream answered with a non-success status.
	ErrProviderRejected = errors.New("provider rejected request")

	// Transport errors: the upstream could not be reached or did not answer in time.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamStatus      = errors.New("upstream returned error status")

	// HTTP boundary errors
	ErrNotFound         = errors.New("resource not found")
	ErrPayloadTooLarge  = errors.New("request body too large")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInternal         = errors.New("internal error")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
	ErrConfigInvalid  = errors.New("invalid configuration value")
)

// validationErrors enumerates the errors raised by input validation.
var validationErrors = []error{
	ErrInvalidInput,
	ErrInvalidPhoneNumber,
	ErrInvalidOTPFormat,
	ErrSessionIDRequired,
}

// IsValidationError returns true if the error was raised by input validation.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTransportError returns true if the upstream call failed below the
// application protocol (DNS, refused connection, timeout, error status).
func IsTransportError(err error) bool {
	return errors.Is(err, ErrUpstreamUnreachable) ||
		errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamStatus)
}

// IsConfigurationError returns true if the error stems from missing or bad configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfigRequired) || errors.Is(err, ErrConfigInvalid)
}
