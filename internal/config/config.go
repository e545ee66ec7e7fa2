package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names an optional YAML file layered between the defaults and
// the environment.
const ConfigFileEnv = "LEDGER_CONFIG_FILE"

type Config struct {
	PostgresAddress  string `koanf:"postgres_address"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUsername string `koanf:"postgres_username"`
	PostgresPassword string `koanf:"postgres_password"`

	HTTPPort       string `koanf:"http_port"`
	LogLevel       string `koanf:"log_level"`
	MigrationsPath string `koanf:"migrations_path"`

	CommitMaxAttempts    int           `koanf:"commit_max_attempts"`
	CommitRetryBaseDelay time.Duration `koanf:"commit_retry_base_delay"`
	ReferenceCurrency    string        `koanf:"reference_currency"`
}

// In all cases the default behavior should be for the docker compose setup.
var defaults = map[string]any{
	"postgres_address":        "localhost",
	"postgres_port":           "5433",
	"postgres_db":             "postgres",
	"postgres_username":       "postgres",
	"postgres_password":       "testpassword",
	"http_port":               "9446",
	"log_level":               "info",
	"migrations_path":         "file://migrations",
	"commit_max_attempts":     5,
	"commit_retry_base_delay": "10ms",
	"reference_currency":      "USD",
}

// ProcessEnvironmentVariables loads defaults, then the optional config file,
// then POSTGRES_* and LEDGER_* environment variables. Later sources win.
func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	err := k.Load(env.ProviderWithValue("POSTGRES_", ".", envKey("")), nil)
	if err != nil {
		return nil, fmt.Errorf("load postgres env: %w", err)
	}

	err = k.Load(env.ProviderWithValue("LEDGER_", ".", envKey("LEDGER_")), nil)
	if err != nil {
		return nil, fmt.Errorf("load ledger env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CommitMaxAttempts < 1 {
		return nil, fmt.Errorf("commit_max_attempts must be at least 1, got %d", cfg.CommitMaxAttempts)
	}
	if cfg.CommitRetryBaseDelay < 0 {
		return nil, fmt.Errorf("commit_retry_base_delay must not be negative")
	}

	return &cfg, nil
}

// envKey maps an environment variable onto a config key. Empty variables are
// skipped so they never clear a default.
func envKey(trimPrefix string) func(key, value string) (string, any) {
	return func(key, value string) (string, any) {
		if len(value) == 0 {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, trimPrefix)), value
	}
}

func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}
