// Command server runs the classboard backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/classboard/auth"
	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/auth/keyexchange"
	"github.com/skillsenselab/classboard/auth/password"
	"github.com/skillsenselab/classboard/auth/token"
	"github.com/skillsenselab/classboard/authz"
	"github.com/skillsenselab/classboard/config"
	"github.com/skillsenselab/classboard/courses"
	"github.com/skillsenselab/classboard/dashboard"
	"github.com/skillsenselab/classboard/database"
	"github.com/skillsenselab/classboard/llm/ollama"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/observability"
	"github.com/skillsenselab/classboard/quiz"
	"github.com/skillsenselab/classboard/server"
	"github.com/skillsenselab/classboard/server/endpoint"
	"github.com/skillsenselab/classboard/server/middleware"
	"github.com/skillsenselab/classboard/users"
	"github.com/skillsenselab/classboard/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	if err := run(*configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("starting", logger.Fields(
		"version", version.Short(),
		"environment", cfg.Environment,
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Init(ctx, cfg.Telemetry, cfg.Name, version.Get().Version, cfg.Environment, log)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(&users.User{}, &courses.Course{}, &courses.Class{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Auth core.
	keyOpts := []keyexchange.Option{}
	if cfg.KeyBits > 0 {
		keyOpts = append(keyOpts, keyexchange.WithBits(cfg.KeyBits))
	}
	keys, err := keyexchange.New(keyOpts...)
	if err != nil {
		return fmt.Errorf("generating RSA keypair: %w", err)
	}
	tokens, err := token.NewService(&cfg.Token)
	if err != nil {
		return fmt.Errorf("configuring token service: %w", err)
	}
	hasher := password.NewHasher(cfg.Password)

	// Stores and services.
	userStore := users.NewGormStore(db)
	courseStore := courses.NewGormStore(db)
	creds := credential.NewService(userStore, hasher, keys, tokens, log)
	llmProvider := ollama.New(cfg.LLM)
	quizzes := quiz.NewService(llmProvider, log)
	boards := dashboard.NewService(userStore, courseStore, log)

	// HTTP server.
	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(log,
		middleware.Authenticate(tokens, log),
		middleware.Authorize(routePolicy()),
	)

	engine := srv.GinEngine()
	engine.GET("/health", endpoint.Health(cfg.Name, endpoint.Check{Name: "database", Ping: db.PingContext}))
	engine.GET("/info", endpoint.Info(cfg.Name))

	auth.NewHandler(creds, keys, log).Register(engine)
	users.NewHandler(userStore, creds, log).Register(engine)
	courses.NewHandler(courseStore, log).Register(engine)
	quiz.NewHandler(quizzes).Register(engine)
	dashboard.NewHandler(boards).Register(engine)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// routePolicy is the access table for the HTTP surface. Paths not
// listed are open; /health and /info stay public on purpose.
func routePolicy() *authz.Policy {
	return authz.New(
		authz.Rule{Method: "*", Pattern: "/api/auth/**", Roles: []string{authz.Public}},
		authz.Rule{Method: "*", Pattern: "/api/admin/**", Roles: []string{credential.RoleAdmin}},
		authz.Rule{Method: "*", Pattern: "/api/users/me", Roles: []string{authz.Authenticated}},
		authz.Rule{Method: "GET", Pattern: "/api/courses/**", Roles: []string{authz.Authenticated}},
		authz.Rule{Method: "POST", Pattern: "/api/courses/**", Roles: []string{credential.RoleAdmin}},
		authz.Rule{Method: "PUT", Pattern: "/api/courses/**", Roles: []string{credential.RoleAdmin}},
		authz.Rule{Method: "DELETE", Pattern: "/api/courses/**", Roles: []string{credential.RoleAdmin}},
		authz.Rule{Method: "POST", Pattern: "/api/quiz/generate", Roles: []string{authz.Authenticated}},
	)
}
