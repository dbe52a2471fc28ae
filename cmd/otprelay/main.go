// Package main is the entrypoint for the OTP relay.
// The relay forwards send/verify requests to the 2Factor SMS-OTP API and
// answers with one normalized JSON contract.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aelexs/otp-relay/internal/config"
	"github.com/aelexs/otp-relay/internal/server"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:           "otprelay",
		Version:        version,
		PortFromConfig: func(cfg *config.Config) int { return cfg.Port },
		Setup:          setup,
	}, nil)
}
