package errmap_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
		wantMessage    string
	}{
		{"nil error", nil, http.StatusOK, ""},
		{"ErrNotFound", domain.ErrNotFound, http.StatusNotFound, "Endpoint not found"},
		{"ErrMethodNotAllowed hides as not found", domain.ErrMethodNotAllowed, http.StatusNotFound, "Endpoint not found"},
		{"ErrPayloadTooLarge", fmt.Errorf("decode: %w", domain.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge, "Request entity too large"},
		{"ErrInvalidInput", domain.ErrInvalidInput, http.StatusBadRequest, "Invalid request body"},
		{"ErrInvalidPhoneNumber", domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "Invalid request body"},
		{"wrapped ErrInvalidInput", fmt.Errorf("decode: %w", domain.ErrInvalidInput), http.StatusBadRequest, "Invalid request body"},

		// Unknown errors map to Internal and hide their text
		{"unknown error", errors.New("nil pointer dereference"), http.StatusInternalServerError, "Internal server error"},
		{"config error", domain.ErrConfigRequired, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errmap.ToHTTPError(tt.err)
			assert.Equal(t, tt.wantStatusCode, got.StatusCode)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestHTTPErrorImplementsError(t *testing.T) {
	httpErr := errmap.ToHTTPError(domain.ErrNotFound)
	var err error = httpErr
	assert.NotEmpty(t, err.Error())
}

func TestStatusForOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome domain.Outcome
		want    int
	}{
		{"send success", domain.Succeeded(domain.Payload{SessionID: "sess_abc"}), http.StatusOK},
		{"verify success", domain.Succeeded(domain.Payload{Message: "OTP verified successfully."}), http.StatusOK},
		{"validation failure", domain.Failed(errmap.MsgInvalidPhoneInput), http.StatusBadRequest},
		{"provider rejection", domain.Failed(errmap.MsgVerifySessionNotFound), http.StatusBadRequest},
		{"transport failure", domain.Failed(errmap.MsgRequestTimeout), http.StatusBadRequest},
		{"configuration failure", domain.Failed(""), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errmap.StatusForOutcome(tt.outcome))
		})
	}
}
