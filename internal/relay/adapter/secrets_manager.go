package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/provider"
)

// smClient is the narrow consumer-defined interface for Secrets Manager operations.
type smClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Compile-time check: SecretsManagerKeySource implements provider.KeySource.
var _ provider.KeySource = (*SecretsManagerKeySource)(nil)

// apiKeyField is read when the secret is a JSON object.
const apiKeyField = "api_key"

// SecretsManagerKeySource reads the provider API key from AWS Secrets Manager.
// The secret may be the bare key or a JSON object with an "api_key" field.
type SecretsManagerKeySource struct {
	sm       smClient
	secretID string
}

// NewSecretsManagerKeySource creates a key source for the given secret id.
func NewSecretsManagerKeySource(sm smClient, secretID string) *SecretsManagerKeySource {
	return &SecretsManagerKeySource{sm: sm, secretID: secretID}
}

// APIKey fetches and parses the secret. It is called once at startup.
func (s *SecretsManagerKeySource) APIKey(ctx context.Context) (domain.SecretString, error) {
	ctx, span := tracer.Start(ctx, "secretsmanager.get_api_key")
	defer span.End()

	if s.secretID == "" {
		return "", fmt.Errorf("%w: twofactor.api_key_secret_id", domain.ErrConfigRequired)
	}

	out, err := s.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("fetching API key %q from Secrets Manager: %w", s.secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("%w: secret %q has no secret string", domain.ErrConfigInvalid, s.secretID)
	}

	key, err := parseAPIKey(*out.SecretString)
	if err != nil {
		return "", fmt.Errorf("parsing secret %q: %w", s.secretID, err)
	}
	return domain.SecretString(key), nil
}

func parseAPIKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var fields map[string]string
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return "", fmt.Errorf("%w: malformed JSON secret", domain.ErrConfigInvalid)
		}
		raw = strings.TrimSpace(fields[apiKeyField])
	}
	if raw == "" {
		return "", fmt.Errorf("%w: empty API key", domain.ErrConfigInvalid)
	}
	return raw, nil
}
