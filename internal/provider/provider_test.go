package provider_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_OK(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"exact success marker", "Success", true},
		{"error status", "Error", false},
		{"lowercase is not success", "success", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, provider.Response{Status: tt.status}.OK())
		})
	}
}

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("send otp: %w", &provider.StatusError{Code: 400, Detail: "Invalid Phone Number"})

	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.True(t, domain.IsTransportError(err))
	assert.Contains(t, err.Error(), "HTTP 400")

	var se *provider.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Invalid Phone Number", se.Detail)
}
