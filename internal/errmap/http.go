// Package errmap translates domain errors and upstream provider text into
// what the HTTP boundary returns: status codes and user-facing messages.
// Every table here is ordered and evaluated first-match-wins.
package errmap

import (
	"errors"
	"net/http"

	"github.com/aelexs/otp-relay/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/message mapping.
type httpMapping struct {
	err        error
	statusCode int
	message    string
}

// httpMappings covers faults raised by the HTTP boundary itself (unknown
// routes, unreadable bodies). Relay operations never reach this table: they
// always produce an Outcome, mapped by StatusForOutcome.
var httpMappings = []httpMapping{
	{domain.ErrNotFound, http.StatusNotFound, "Endpoint not found"},
	{domain.ErrMethodNotAllowed, http.StatusNotFound, "Endpoint not found"},
	{domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "Request entity too large"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid request body"},
	{domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "Invalid request body"},
	{domain.ErrInvalidOTPFormat, http.StatusBadRequest, "Invalid request body"},
	{domain.ErrSessionIDRequired, http.StatusBadRequest, "Invalid request body"},
}

// ToHTTPError converts a domain error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Message: m.message}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Message: "Internal server error"}
}

// StatusForOutcome derives the transport status for a relay outcome.
// Success is 200; every failure is 400, whatever caused it.
func StatusForOutcome(o domain.Outcome) int {
	if o.IsSuccess() {
		return http.StatusOK
	}
	return http.StatusBadRequest
}
