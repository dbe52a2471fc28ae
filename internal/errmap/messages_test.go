package errmap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
)

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"phone", fmt.Errorf("normalize: %w", domain.ErrInvalidPhoneNumber), errmap.MsgInvalidPhoneInput},
		{"session", domain.ErrSessionIDRequired, errmap.MsgSessionIDRequired},
		{"otp", fmt.Errorf("otp: %w", domain.ErrInvalidOTPFormat), errmap.MsgInvalidOTPInput},
		{"generic invalid input", domain.ErrInvalidInput, errmap.MsgInvalidRequestBody},
		{"nil", nil, errmap.MsgInvalidRequestBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errmap.ValidationMessage(tt.err))
		})
	}
}

func TestTransportMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{"timeout", domain.ErrUpstreamTimeout, errmap.MsgRequestTimeout, true},
		{"unreachable", fmt.Errorf("dial: %w", domain.ErrUpstreamUnreachable), errmap.MsgNetworkError, true},
		{"timeout wins when both are wrapped", errors.Join(domain.ErrUpstreamUnreachable, domain.ErrUpstreamTimeout), errmap.MsgRequestTimeout, true},
		{"status error is not handled here", domain.ErrUpstreamStatus, "", false},
		{"unknown", errors.New("tls: bad certificate"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := errmap.TransportMessage(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
