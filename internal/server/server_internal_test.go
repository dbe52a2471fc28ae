package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/otp-relay/internal/config"
)

func TestServiceName(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{name: "configured name wins", configured: "otprelay-eu", want: "otprelay-eu"},
		{name: "empty falls back to process name", configured: "", want: "otprelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{OTEL: config.OTELConfig{ServiceName: tt.configured}}

			got := serviceName(cfg, Params{Name: "otprelay"})

			assert.Equal(t, tt.want, got)
		})
	}
}
