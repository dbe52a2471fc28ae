package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/otp-relay/internal/domain"
)

// smClientStub is a configurable stub for the smClient interface.
type smClientStub struct {
	secret *string
	err    error
	gotID  string
}

func (s *smClientStub) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	s.gotID = aws.ToString(params.SecretId)
	if s.err != nil {
		return nil, s.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: s.secret}, nil
}

func TestSecretsManagerKeySource_APIKey(t *testing.T) {
	tests := []struct {
		name    string
		secret  *string
		want    string
		wantErr error
	}{
		{name: "bare key", secret: aws.String("2f-key"), want: "2f-key"},
		{name: "bare key with whitespace", secret: aws.String(" 2f-key\n"), want: "2f-key"},
		{name: "JSON object", secret: aws.String(`{"api_key":"2f-json-key"}`), want: "2f-json-key"},
		{name: "JSON without api_key", secret: aws.String(`{"other":"x"}`), wantErr: domain.ErrConfigInvalid},
		{name: "malformed JSON", secret: aws.String(`{"api_key":`), wantErr: domain.ErrConfigInvalid},
		{name: "empty string", secret: aws.String(""), wantErr: domain.ErrConfigInvalid},
		{name: "binary secret", secret: nil, wantErr: domain.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			stub := &smClientStub{secret: tt.secret}
			src := NewSecretsManagerKeySource(stub, "otp/2factor")

			// Act
			key, err := src.APIKey(context.Background())

			// Assert
			assert.Equal(t, "otp/2factor", stub.gotID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key.Expose())
		})
	}
}

func TestSecretsManagerKeySource_FetchError(t *testing.T) {
	// Arrange
	fetchErr := errors.New("AccessDeniedException")
	src := NewSecretsManagerKeySource(&smClientStub{err: fetchErr}, "otp/2factor")

	// Act
	_, err := src.APIKey(context.Background())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "otp/2factor")
}

func TestSecretsManagerKeySource_NoSecretID(t *testing.T) {
	// Arrange
	stub := &smClientStub{secret: aws.String("unused")}
	src := NewSecretsManagerKeySource(stub, "")

	// Act
	_, err := src.APIKey(context.Background())

	// Assert
	assert.ErrorIs(t, err, domain.ErrConfigRequired)
	assert.Empty(t, stub.gotID, "no call without a secret id")
}
