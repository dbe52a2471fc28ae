// Package secrets provides the AWS Secrets Manager client factory.
// The provider API key can be kept in Secrets Manager instead of the
// environment; adapter.SecretsManagerKeySource consumes the client built here.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// Config holds Secrets Manager connection parameters.
type Config struct {
	// Endpoint overrides the default AWS endpoint.
	// Set to a LocalStack URL (e.g. "http://localhost:4566") for local development.
	// When empty, the default AWS endpoint resolver is used.
	Endpoint string

	// Region is the AWS region for the client (e.g. "ap-south-1").
	Region string

	// Timeout is the HTTP client timeout for Secrets Manager requests.
	Timeout time.Duration
}

// Client wraps the AWS Secrets Manager SDK client.
type Client struct {
	// SM is the underlying AWS Secrets Manager SDK client.
	SM *secretsmanager.Client
}

// NewClient creates a Secrets Manager client configured from cfg.
// When cfg.Endpoint is non-empty, static test credentials and BaseEndpoint
// are set for LocalStack compatibility.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		opts = append(opts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("test", "test", ""),
			),
		)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	if cfg.Timeout > 0 {
		awsCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	var smOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		smOpts = append(smOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &Client{
		SM: secretsmanager.NewFromConfig(awsCfg, smOpts...),
	}, nil
}

// IsResourceNotFound reports whether err is a Secrets Manager
// ResourceNotFoundException (the secret id does not exist).
func IsResourceNotFound(err error) bool {
	var rnf *types.ResourceNotFoundException
	return errors.As(err, &rnf)
}
