package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/admin"
	"github.com/madhvi-n/postify/pkg/postify/api"
	graph "github.com/madhvi-n/postify/pkg/postify/graph/neo4j"
	"github.com/madhvi-n/postify/pkg/postify/repo/memory"
	repopg "github.com/madhvi-n/postify/pkg/postify/repo/postgres"
	"github.com/madhvi-n/postify/pkg/postify/repo/sqlite"
)

const insecureJWTSecret = "change-me"

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		DBSchema:           "postify",
		SQLitePath:         "postify.db",
		AutoMigrate:        true,
		JWTSecret:          insecureJWTSecret,
		Neo4jDatabase:      "neo4j",
		LogLevel:           "info",
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the postify service.
// Field tags drive cleanenv for both environment variables and YAML files.
type ServerConfig struct {
	Port        string `yaml:"port" env:"PORT" env-default:"8080"`
	Environment string `yaml:"environment" env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration
	DatabaseType string `yaml:"database_type" env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres", "sqlite"
	DatabaseURL  string `yaml:"database_url" env:"DATABASE_URL"`
	DBSchema     string `yaml:"db_schema" env:"DB_SCHEMA" env-default:"postify"` // Postgres schema to use
	SQLitePath   string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"postify.db"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`

	// Authentication
	JWTSecret         string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"change-me"`
	AdminAPIKeySHA256 string `yaml:"admin_api_key_sha256" env:"ADMIN_API_KEY_SHA256"`

	// Follow graph mirror, disabled when the URI is empty
	Neo4jURI      string `yaml:"neo4j_uri" env:"NEO4J_URI"`
	Neo4jUsername string `yaml:"neo4j_username" env:"NEO4J_USERNAME"`
	Neo4jPassword string `yaml:"neo4j_password" env:"NEO4J_PASSWORD"`
	Neo4jDatabase string `yaml:"neo4j_database" env:"NEO4J_DATABASE" env-default:"neo4j"`

	// Server options
	LogLevel           string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	EnableEventLogging bool   `yaml:"enable_event_logging" env:"ENABLE_EVENT_LOGGING" env-default:"true"`
	EnableTracing      bool   `yaml:"enable_tracing" env:"ENABLE_TRACING" env-default:"false"`
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required when using sqlite")
		}
	default:
		return errors.New("database_type must be 'memory', 'postgres' or 'sqlite'")
	}

	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.IsProduction() && c.JWTSecret == insecureJWTSecret {
		return errors.New("jwt_secret must be changed in production")
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel returns the configured log level.
func (c *ServerConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// JWTAuth returns the HS256 token verifier for the configured secret.
func (c *ServerConfig) JWTAuth() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil)
}

// Components holds everything built from a ServerConfig.
type Components struct {
	Service    postify.Service
	Admin      admin.AdminService
	Repository postify.Repository
	// Identity resolves callers for both the service and the HTTP handlers.
	Identity postify.Identity
	// Graph is nil unless a Neo4j URI is configured.
	Graph *graph.FollowGraphSink

	closers []func()
}

// Close releases pools and drivers in reverse order of creation.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build creates the repository, event sinks and services described by the
// configuration. Callers must Close the result.
func (c *ServerConfig) Build(ctx context.Context, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}
	comps := &Components{}

	repo, err := c.buildRepository(ctx, comps)
	if err != nil {
		comps.Close()
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	comps.Repository = repo
	comps.Identity = api.JWTIdentity{}

	options := []postify.Option{
		postify.WithRepository(repo),
		postify.WithIdentity(comps.Identity),
		postify.WithLogger(logger),
	}

	var sinks []postify.EventSink
	if c.EnableEventLogging {
		sinks = append(sinks, postify.NewLoggingEventSink(logger))
	}
	if c.Neo4jURI != "" {
		sink, err := c.buildGraphSink(ctx, comps)
		if err != nil {
			comps.Close()
			return nil, fmt.Errorf("failed to build follow graph: %w", err)
		}
		comps.Graph = sink
		sinks = append(sinks, sink)
	}
	adminOptions := []admin.Option{admin.WithLogger(logger)}
	if len(sinks) > 0 {
		sink := postify.NewMultiEventSink(sinks...)
		options = append(options, postify.WithEventSink(sink))
		adminOptions = append(adminOptions, admin.WithEventSink(sink))
	}
	comps.Admin = admin.New(repo, adminOptions...)

	if c.EnableTracing {
		options = append(options, postify.WithDefaultTracer(), postify.WithDefaultMeter())
	}

	svc, err := postify.New(options...)
	if err != nil {
		comps.Close()
		return nil, err
	}
	comps.Service = svc
	return comps, nil
}

// BuildService creates a Service instance from the server configuration.
// The returned func releases its resources.
func (c *ServerConfig) BuildService(ctx context.Context) (postify.Service, func(), error) {
	comps, err := c.Build(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return comps.Service, comps.Close, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, comps *Components) (postify.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil

	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		comps.closers = append(comps.closers, pool.Close)
		repo := repopg.NewWithPool(pool)
		if c.AutoMigrate {
			if c.DBSchema != "" {
				if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{c.DBSchema}.Sanitize()); err != nil {
					return nil, fmt.Errorf("failed to create schema: %w", err)
				}
			}
			if err := repo.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil

	case "sqlite":
		repo, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, err
		}
		comps.closers = append(comps.closers, func() { _ = repo.Close() })
		if c.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildGraphSink(ctx context.Context, comps *Components) (*graph.FollowGraphSink, error) {
	runner, err := graph.NewExecutorRunner(c.Neo4jURI, c.Neo4jUsername, c.Neo4jPassword, c.Neo4jDatabase)
	if err != nil {
		return nil, err
	}
	comps.closers = append(comps.closers, func() { _ = runner.Close(context.Background()) })

	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := runner.Verify(verifyCtx); err != nil {
		return nil, fmt.Errorf("neo4j unreachable: %w", err)
	}
	return graph.NewFollowGraphSink(runner), nil
}

// newPool opens a pgx pool whose sessions use schema as search_path.
func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres with the given schema as search_path.
func PingPostgres(ctx context.Context, databaseURL, schema string) error {
	pool, err := newPool(ctx, databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
