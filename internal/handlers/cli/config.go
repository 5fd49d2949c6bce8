package cli

import (
	"fmt"

	"github.com/gabapcia/driftwatch/internal/pkg/validation"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable the indexer reads, e.g.
// INDEXER_SOLANA_RPC_URL.
const envPrefix = "indexer"

// Config carries the environment-sourced settings. Environment variables
// take precedence over command-line flags; flags only fill fields the
// environment left empty.
type Config struct {
	// SolanaRPCURL is the JSON-RPC endpoint of the Solana node to index
	// from. Falls back to the --rpc flag when unset.
	SolanaRPCURL string `envconfig:"SOLANA_RPC_URL" validate:"omitempty,url"`

	// DBConnStr is the MongoDB connection string. When empty, events and
	// cursors are kept in process memory and lost on exit.
	DBConnStr string `envconfig:"DB_CONN_STR"`

	// DBName is the MongoDB database holding the accounts and event
	// collections.
	DBName string `envconfig:"DB_NAME" default:"drift" validate:"required"`

	// RedisAddr enables the cursor cache when set, e.g. "localhost:6379".
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	// PageSize overrides the --page-size flag when set.
	PageSize int `envconfig:"PAGE_SIZE" validate:"omitempty,gt=0"`

	// LogLevel is the minimum level emitted by the logger.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// OtelEnabled turns on the OpenTelemetry pipelines. The OTLP exporter
	// endpoint is taken from the standard OTEL_* environment variables.
	OtelEnabled bool `envconfig:"OTEL_ENABLED" default:"false"`
}

// LoadConfig reads the configuration from the environment. Validation runs
// later, after flags had their chance to fill the gaps.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// validate checks the merged configuration right before the indexer starts.
// The RPC URL is required but only here, since the --rpc flag may have
// filled it after LoadConfig.
func (c Config) validate() error {
	if c.SolanaRPCURL == "" {
		return fmt.Errorf("%w: solana rpc url is not set", validation.ErrValidation)
	}

	return validation.Validate(c)
}
