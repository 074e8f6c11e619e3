package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhvi-n/postify/pkg/postify"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "postify", cfg.DBSchema)
	assert.True(t, cfg.EnableEventLogging)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "INFO", cfg.SlogLevel().String())
}

func TestLoad_Options(t *testing.T) {
	cfg, err := Load(
		WithPort("9090"),
		WithDatabase("sqlite", "/tmp/postify-test.db"),
		WithLogLevel("debug"),
		WithJWTSecret("not-the-default"),
		WithEnvironment("production"),
	)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "/tmp/postify-test.db", cfg.SQLitePath)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"unknown database", []Option{func(c *ServerConfig) error { c.DatabaseType = "mongo"; return nil }}},
		{"postgres without url", []Option{func(c *ServerConfig) error { c.DatabaseType = "postgres"; return nil }}},
		{"default secret in production", []Option{WithEnvironment("production")}},
		{"empty secret", []Option{func(c *ServerConfig) error { c.JWTSecret = ""; return nil }}},
		{"bad log level", []Option{func(c *ServerConfig) error { c.LogLevel = "loud"; return nil }}},
		{"empty port option", []Option{WithPort("")}},
		{"postgres option without url", []Option{WithDatabase("postgres", "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ENABLE_EVENT_LOGGING", "false")

	cfg, err := Load(WithEnv())
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, path, cfg.SQLitePath)
	assert.Equal(t, "WARN", cfg.SlogLevel().String())
	assert.False(t, cfg.EnableEventLogging)
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postify.yaml")
	content := "admin_api_key_sha256: abc123\ndatabase_url: postgres://localhost/postify\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.AdminAPIKeySHA256)
	assert.Equal(t, "postgres://localhost/postify", cfg.DatabaseURL)

	_, err = Load(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestBuild_Memory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	comps, err := cfg.Build(context.Background(), nil)
	require.NoError(t, err)
	defer comps.Close()

	assert.NotNil(t, comps.Service)
	assert.NotNil(t, comps.Admin)
	assert.Nil(t, comps.Graph)

	// the core service resolves callers set through the context fallback
	user := &postify.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	require.NoError(t, comps.Repository.CreateUser(context.Background(), user))
	ctx := postify.WithPrincipal(context.Background(), user.ID)
	post, err := comps.Service.CreatePost(ctx, postify.CreatePostRequest{Title: "Built", Content: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "built", post.Slug)
}

func TestBuild_SQLite(t *testing.T) {
	cfg, err := Load(
		WithDatabase("sqlite", filepath.Join(t.TempDir(), "postify.db")),
		WithEventLogging(false),
		WithTracing(true),
	)
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestJWTAuth(t *testing.T) {
	cfg, err := Load(WithJWTSecret("test-secret"))
	require.NoError(t, err)

	auth := cfg.JWTAuth()
	_, token, err := auth.Encode(map[string]interface{}{"sub": "someone"})
	require.NoError(t, err)
	decoded, err := auth.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "someone", decoded.Subject())
}
