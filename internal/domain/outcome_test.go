package domain_test

import (
	"testing"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	t.Run("success carries payload and no message", func(t *testing.T) {
		o := domain.Succeeded(domain.Payload{SessionID: "sess_abc", Phone: "+919876543210"})

		assert.True(t, o.IsSuccess())
		assert.Equal(t, "sess_abc", o.Payload().SessionID)
		assert.Equal(t, "+919876543210", o.Payload().Phone)
		assert.Empty(t, o.FailureMessage())
	})

	t.Run("failure carries message and no payload", func(t *testing.T) {
		o := domain.Failed("Request timeout. Please try again.")

		assert.False(t, o.IsSuccess())
		assert.Equal(t, "Request timeout. Please try again.", o.FailureMessage())
		assert.Equal(t, domain.Payload{}, o.Payload())
	})

	t.Run("empty failure message falls back to generic", func(t *testing.T) {
		o := domain.Failed("")

		assert.False(t, o.IsSuccess())
		assert.Equal(t, domain.GenericFailureMessage, o.FailureMessage())
	})

	t.Run("zero value is a failure with no message", func(t *testing.T) {
		var o domain.Outcome

		assert.False(t, o.IsSuccess())
	})
}
