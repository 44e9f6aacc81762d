package config

import (
	"fmt"

	"github.com/skillsenselab/classboard/auth/password"
	"github.com/skillsenselab/classboard/auth/token"
	"github.com/skillsenselab/classboard/database"
	"github.com/skillsenselab/classboard/llm/ollama"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/observability"
	"github.com/skillsenselab/classboard/server"
)

// Config is the application configuration tree.
type Config struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`

	Logging   logger.Config        `mapstructure:"logging"`
	Server    server.Config        `mapstructure:"server"`
	Database  database.Config      `mapstructure:"database"`
	Token     token.Config         `mapstructure:"token"`
	Password  password.Config      `mapstructure:"password"`
	Telemetry observability.Config `mapstructure:"telemetry"`
	LLM       ollama.Config        `mapstructure:"llm"`

	// KeyBits is the RSA modulus size for the transport keypair.
	KeyBits int `mapstructure:"key_bits"`
}

// ApplyDefaults fills zero-valued fields across the tree.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "classboard"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks the tree for invalid values.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return nil
}
