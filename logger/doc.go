// Package logger provides structured logging for the classboard backend
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "classboard").WithComponent("credential")
//	log.Info("user registered", logger.Fields("email", email))
package logger
