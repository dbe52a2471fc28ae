package errmap

import (
	"errors"

	"github.com/aelexs/otp-relay/internal/domain"
)

// User-facing messages. These strings are part of the caller contract.
const (
	// Validation
	MsgInvalidPhoneInput  = "Invalid phone number format. Please enter a valid 10-digit number."
	MsgSessionIDRequired  = "Session ID is required for verification."
	MsgInvalidOTPInput    = "Please enter a valid 6-digit OTP code."
	MsgPhoneRequired      = "Phone number is required"
	MsgSessionRequired    = "Session ID is required"
	MsgOTPRequired        = "OTP code is required"
	MsgSessionAndOTPReq   = "Session ID and OTP are required"
	MsgInvalidRequestBody = "Invalid request body"

	// Transport
	MsgNetworkError   = "Network error. Please check your internet connection and try again."
	MsgRequestTimeout = "Request timeout. Please try again."

	// Fallbacks
	MsgSendFailed       = "Failed to send OTP"
	MsgSendUnexpected   = domain.GenericFailureMessage
	MsgVerifyUnexpected = "An unexpected error occurred during verification. Please try again."

	// Success
	MsgOTPSent     = "OTP sent successfully to your phone number."
	MsgOTPVerified = "OTP verified successfully."
)

// errMessage maps a domain error to the message shown to the caller.
type errMessage struct {
	err     error
	message string
}

// validationMessages is ordered: first match wins.
var validationMessages = []errMessage{
	{domain.ErrInvalidPhoneNumber, MsgInvalidPhoneInput},
	{domain.ErrSessionIDRequired, MsgSessionIDRequired},
	{domain.ErrInvalidOTPFormat, MsgInvalidOTPInput},
}

// transportMessages is ordered: a timeout wins over unreachable when both are wrapped.
var transportMessages = []errMessage{
	{domain.ErrUpstreamTimeout, MsgRequestTimeout},
	{domain.ErrUpstreamUnreachable, MsgNetworkError},
}

// ValidationMessage returns the caller message for a validation error.
// Unknown errors yield MsgInvalidRequestBody.
func ValidationMessage(err error) string {
	if msg, ok := lookup(validationMessages, err); ok {
		return msg
	}
	return MsgInvalidRequestBody
}

// TransportMessage returns the caller message for a timeout or unreachable
// upstream. ok is false for any other error so the caller can pick a fallback.
func TransportMessage(err error) (msg string, ok bool) {
	return lookup(transportMessages, err)
}

func lookup(table []errMessage, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, m := range table {
		if errors.Is(err, m.err) {
			return m.message, true
		}
	}
	return "", false
}
