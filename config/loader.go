package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "CLASSBOARD"

// Load reads the configuration. configFile and envFile may be empty,
// in which case standard locations are searched; a missing file is not
// an error. Defaults and validation are applied before returning.
func Load(configFile, envFile string) (*Config, error) {
	v := viper.New()

	if configFile == "" {
		configFile = findFirst(
			"./config.yml",
			"./config/config.yml",
			"./cmd/server/config.yml",
		)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	// .env values become process env vars, so AutomaticEnv picks them
	// up below; real environment variables still win.
	if envFile == "" {
		envFile = findFirst("./.env", "./config/.env")
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnvKeys registers the nested keys so AutomaticEnv can resolve
// them without a config file present.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"name", "environment", "key_bits",
		"logging.level", "logging.format", "logging.output",
		"server.host", "server.port", "server.read_timeout",
		"server.write_timeout", "server.idle_timeout", "server.max_body_size",
		"database.dsn", "database.auto_migrate", "database.log_level",
		"database.max_open_conns", "database.max_idle_conns", "database.max_retries",
		"token.secret", "token.ttl", "token.issuer",
		"password.algorithm", "password.bcrypt_cost", "password.min_length",
		"telemetry.enabled", "telemetry.endpoint", "telemetry.insecure",
		"telemetry.sample_rate", "telemetry.interval",
		"llm.base_url", "llm.model", "llm.temperature", "llm.timeout",
	} {
		_ = v.BindEnv(key)
	}
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
