package secrets_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/otp-relay/internal/secrets"
)

func TestNewClientWithEndpoint(t *testing.T) {
	ctx := context.Background()

	client, err := secrets.NewClient(ctx, secrets.Config{
		Endpoint: "http://localhost:4566",
		Region:   "ap-south-1",
		Timeout:  5 * time.Second,
	})

	require.NoError(t, err)
	require.NotNil(t, client)
	require.NotNil(t, client.SM)
}

func TestNewClientWithDefaultEndpoint(t *testing.T) {
	ctx := context.Background()

	client, err := secrets.NewClient(ctx, secrets.Config{
		Region:  "ap-south-1",
		Timeout: 5 * time.Second,
	})

	require.NoError(t, err)
	require.NotNil(t, client)
	require.NotNil(t, client.SM)
}

func TestIsResourceNotFound(t *testing.T) {
	rnf := &types.ResourceNotFoundException{Message: aws.String("Secrets Manager can't find the specified secret.")}

	assert.True(t, secrets.IsResourceNotFound(rnf))
	assert.True(t, secrets.IsResourceNotFound(fmt.Errorf("fetch: %w", rnf)))
	assert.False(t, secrets.IsResourceNotFound(errors.New("AccessDeniedException")))
	assert.False(t, secrets.IsResourceNotFound(nil))
}
