package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient reads secrets from AWS Secrets Manager and caches
// them for the life of the process.
type SecretsManagerClient struct {
	client secretsAPI
	cache  map[string]string
	mu     sync.RWMutex
}

var _ SecretGetter = (*SecretsManagerClient)(nil)

func NewSecretsManagerClient(cfg aws.Config) *SecretsManagerClient {
	return newSecretsManagerClient(secretsmanager.NewFromConfig(cfg))
}

func newSecretsManagerClient(api secretsAPI) *SecretsManagerClient {
	return &SecretsManagerClient{client: api, cache: make(map[string]string)}
}

func (s *SecretsManagerClient) GetSecret(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(id)})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", id, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", id)
	}

	s.mu.Lock()
	s.cache[id] = *out.SecretString
	s.mu.Unlock()
	return *out.SecretString, nil
}
