package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/fruitdb/etl/internal/secrets"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

const (
	EnvMongoURISecretName         = "MONGO_URI_SECRET_ASM_NAME"
	EnvPostgresPasswordSecretName = "POSTGRES_PASSWORD_SECRET_ASM_NAME"

	EnvPostgresPort          = "POSTGRES_PORT"
	EnvPostgresSSLMode       = "POSTGRES_SSLMODE"
	EnvTolerateConnectErrors = "ETL_TOLERATE_CONNECT_ERRORS"
)

type Builder struct {
	IncludeSecrets bool
	IncludeDotEnv  bool

	DotEnvFiles    []string
	Lookup         func(string) string
	AWSConfig      aws.Config
	SecretsHandler *secrets.Handler
}

func NewBuilder(options ...func(*Builder)) *Builder {
	configBuilder := &Builder{Lookup: os.Getenv}
	for _, option := range options {
		option(configBuilder)
	}
	return configBuilder
}

// WithSecrets resolves *_SECRET_ASM_NAME references through Secrets Manager.
func WithSecrets() func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeSecrets = true
	}
}

// WithDotEnv loads the given files (".env" when none) into the process
// environment. Variables that are already set are left alone.
func WithDotEnv(files ...string) func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeDotEnv = true
		builder.DotEnvFiles = files
	}
}

func WithLookup(lookup func(string) string) func(*Builder) {
	return func(builder *Builder) {
		builder.Lookup = lookup
	}
}

func WithSecretsHandler(handler *secrets.Handler) func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeSecrets = true
		builder.SecretsHandler = handler
	}
}

func (b *Builder) LoadDotEnv() {
	if !b.IncludeDotEnv {
		return
	}
	if err := godotenv.Load(b.DotEnvFiles...); err != nil {
		// a missing file is normal outside local development
		slog.Info("No .env file loaded", "error", err)
	}
}

func (b *Builder) SetupAWS(ctx context.Context) error {
	var err error
	b.AWSConfig, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(b.Lookup("AWS_REGION")))
	return err
}

func (b *Builder) SetupSecrets(ctx context.Context) error {
	if b.SecretsHandler != nil {
		return nil
	}
	if err := b.SetupAWS(ctx); err != nil {
		return fmt.Errorf("could not load AWS configuration: %w", err)
	}
	b.SecretsHandler = secrets.NewHandler(b.AWSConfig)
	return nil
}

// ResolveSecrets fills the environment tier from Secrets Manager for every
// setting whose plain variable is empty and whose secret reference is set.
func (b *Builder) ResolveSecrets(ctx context.Context, env Settings) (Settings, error) {
	if !b.IncludeSecrets {
		return env, nil
	}

	refs := []struct {
		plain  string
		secret string
		target *string
	}{
		{EnvMongoURI, EnvMongoURISecretName, &env.MongoURI},
		{EnvPostgresPassword, EnvPostgresPasswordSecretName, &env.PostgresPassword},
	}

	for _, ref := range refs {
		if b.Lookup(ref.plain) != "" || b.Lookup(ref.secret) == "" {
			continue
		}
		if err := b.SetupSecrets(ctx); err != nil {
			return env, err
		}
		value, err := b.SecretsHandler.GetSecretValueFromEnvReference(ctx, b.Lookup, ref.secret)
		if err != nil {
			return env, fmt.Errorf("could not resolve %s: %w", ref.secret, err)
		}
		*ref.target = value
	}
	return env, nil
}

func (b *Builder) getEnv(key, def string) string {
	if v := b.Lookup(key); v != "" {
		return v
	}
	return def
}

func (b *Builder) getEnvBool(key string, def bool) bool {
	if v := b.Lookup(key); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed
		}
		slog.Error("Ignoring invalid boolean", "key", key, "value", v)
	}
	return def
}

func (b *Builder) BuildConfig(ctx context.Context, xraySegmentName string) (config *Config, err error) {
	if err = xray.Configure(xray.Config{ServiceVersion: "1.0.0"}); err != nil {
		return nil, fmt.Errorf("could not configure X-Ray: %w", err)
	}

	// Cold start runs outside any Lambda request, so the segment is explicit.
	ctx, segment := xray.BeginSegment(ctx, xraySegmentName)
	defer func() { segment.Close(err) }()

	b.LoadDotEnv()

	env := FromEnvironment(b.Lookup, Defaults())
	if env, err = b.ResolveSecrets(ctx, env); err != nil {
		return nil, err
	}

	config = &Config{
		Environment:           env,
		PostgresPort:          b.getEnv(EnvPostgresPort, "5432"),
		PostgresSSLMode:       b.getEnv(EnvPostgresSSLMode, "disable"),
		TolerateConnectErrors: b.getEnvBool(EnvTolerateConnectErrors, false),
	}
	return config, nil
}
