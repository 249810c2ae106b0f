package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func getHealth(t *testing.T, h *SystemHandler) (int, bool, HealthResponse) {
	t.Helper()
	r := gin.New()
	r.GET("/health", h.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Success, body.Data
}

func TestHealth(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		status, ok, resp := getHealth(t, NewSystemHandler("backoffice", "1.2.3", up, up))
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, ok)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, map[string]string{"database": "ok", "cache": "ok"}, resp.Checks)
	})

	t.Run("cache is optional", func(t *testing.T) {
		status, _, resp := getHealth(t, NewSystemHandler("backoffice", "dev", up, nil))
		assert.Equal(t, http.StatusOK, status)
		assert.NotContains(t, resp.Checks, "cache")
	})

	t.Run("database down", func(t *testing.T) {
		status, ok, resp := getHealth(t, NewSystemHandler("backoffice", "dev", down, up))
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.False(t, ok)
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["database"])
		assert.Equal(t, "ok", resp.Checks["cache"])
	})
}
