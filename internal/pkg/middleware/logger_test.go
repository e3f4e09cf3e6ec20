package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetd/internal/pkg/logger"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

func TestLoggerMiddleware_EmitsRequestFields(t *testing.T) {
	appLogger, err := logger.NewAppLogger(models.LoggerConfig{Level: "info"})
	require.NoError(t, err)

	var buf bytes.Buffer
	appLogger.SetOutput(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set("X-Request-ID", "req-123")
	c.Set("user_id", "U001")

	handler := LoggerMiddleware(appLogger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "U001", entry["user_id"])
	assert.Equal(t, http.MethodGet, entry["method"])
	assert.Equal(t, "/vehicles", entry["path"])
	assert.Equal(t, "Request processed", entry["message"])
}

func TestLoggerMiddleware_AnonymousUser(t *testing.T) {
	appLogger, err := logger.NewAppLogger(models.LoggerConfig{Level: "info"})
	require.NoError(t, err)

	var buf bytes.Buffer
	appLogger.SetOutput(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoggerMiddleware(appLogger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "anonymous", entry["user_id"])
}
