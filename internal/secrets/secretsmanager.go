package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Client is the subset of the Secrets Manager API the handler needs.
type Client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Handler struct {
	client Client
}

func NewHandler(awsConfig aws.Config) *Handler {
	client := secretsmanager.NewFromConfig(awsConfig)
	return &Handler{client: client}
}

func NewHandlerWithClient(client Client) *Handler {
	return &Handler{client: client}
}

func (s *Handler) GetValue(ctx context.Context, secretName string) (string, error) {
	value, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(value.SecretString), nil
}

// GetSecretValueFromEnvReference reads the secret whose name is stored in
// the envVarName variable.
func (s *Handler) GetSecretValueFromEnvReference(ctx context.Context, lookup func(string) string, envVarName string) (string, error) {
	envVarValue := lookup(envVarName)
	if envVarValue == "" {
		return "", fmt.Errorf("%s environment variable not set", envVarName)
	}

	value, err := s.GetValue(ctx, envVarValue)
	if err != nil {
		return "", fmt.Errorf("could not get secret: %w", err)
	}

	if value == "" {
		return "", fmt.Errorf("empty value fetched from secrets manager")
	}
	return value, nil
}
