package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(context.Context) error { return nil }

func serve(c *Checker, path string) *httptest.ResponseRecorder {
	e := echo.New()
	c.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		rec := serve(NewChecker(PingFunc(healthy), PingFunc(healthy), "1.2.3"), "/api/v1/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.Contains(t, status.Checks, "database")
		assert.Contains(t, status.Checks, "redis")
	})

	t.Run("redis is optional", func(t *testing.T) {
		rec := serve(NewChecker(PingFunc(healthy), nil, "dev"), "/api/v1/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.NotContains(t, status.Checks, "redis")
	})

	t.Run("failing dependency", func(t *testing.T) {
		down := PingFunc(func(context.Context) error { return errors.New("connection refused") })
		rec := serve(NewChecker(PingFunc(healthy), down, "dev"), "/api/v1/health")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "connection refused", status.Checks["redis"].Message)
	})

	t.Run("no database", func(t *testing.T) {
		rec := serve(NewChecker(nil, nil, "dev"), "/api/v1/health")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLiveAndReady(t *testing.T) {
	c := NewChecker(PingFunc(healthy), nil, "dev")

	assert.Equal(t, http.StatusOK, serve(c, "/api/v1/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(c, "/api/v1/health/ready").Code)

	c.SetReady(true)
	assert.Equal(t, http.StatusOK, serve(c, "/api/v1/health/ready").Code)
}
