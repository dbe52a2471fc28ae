package adapter

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogProvider_SendOTP(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	p := NewLogProvider(slog.New(slog.NewTextHandler(&buf, nil)))

	// Act
	resp, err := p.SendOTP(context.Background(), "+919876543210")

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.OK())
	_, parseErr := uuid.Parse(resp.Details)
	assert.NoError(t, parseErr, "session id should be a uuid")

	output := buf.String()
	assert.Contains(t, output, "otp delivery (log-only)")
	assert.Contains(t, output, "***3210")
	assert.NotContains(t, output, "+919876543210")
}

func TestLogProvider_VerifyOTP(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		otp       string
		wantOK    bool
	}{
		{name: "any session with a well-formed code", sessionID: "any-session", otp: "123456", wantOK: true},
		{name: "leading zeros", sessionID: "sess_abc", otp: "000123", wantOK: true},
		{name: "letter inside the code", sessionID: "sess_abc", otp: "12E456", wantOK: false},
		{name: "short code", sessionID: "sess_abc", otp: "12345", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			p := NewLogProvider(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

			// Act
			resp, err := p.VerifyOTP(context.Background(), tt.sessionID, tt.otp)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, resp.OK())
			if !tt.wantOK {
				assert.Contains(t, resp.Details, "invalid otp")
			}
		})
	}
}

func TestLogProvider_IsStateless(t *testing.T) {
	// Arrange
	p := NewLogProvider(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	sent, err := p.SendOTP(context.Background(), "+919876543210")
	require.NoError(t, err)

	// Act
	first, err := p.VerifyOTP(context.Background(), sent.Details, "123456")
	require.NoError(t, err)
	second, err := p.VerifyOTP(context.Background(), sent.Details, "654321")
	require.NoError(t, err)

	// Assert
	assert.True(t, first.OK())
	assert.True(t, second.OK(), "verification does not consume the session")
}
