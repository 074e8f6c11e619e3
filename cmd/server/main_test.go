package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhvi-n/postify/pkg/postify/config"
)

func setupServerTest(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.Load(config.WithEventLogging(false))
	require.NoError(t, err)
	comps, err := cfg.Build(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(comps.Close)
	return newHandler(cfg, comps)
}

func TestHealth(t *testing.T) {
	handler := setupServerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestAPIMountedUnderVersionPrefix(t *testing.T) {
	handler := setupServerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		strings.NewReader(`{"username":"alice","email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"token"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// admin routes are absent without a configured key
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
