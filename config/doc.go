// Package config loads the application configuration.
//
// Precedence, lowest to highest: struct defaults, config.yml,
// variables from a .env file, then real environment variables with the
// CLASSBOARD_ prefix. Nested keys map to underscores, e.g.
// CLASSBOARD_DATABASE_DSN sets database.dsn and
// CLASSBOARD_TOKEN_SECRET sets token.secret.
package config
