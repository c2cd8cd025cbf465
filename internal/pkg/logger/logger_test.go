package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fleet.log")

	l, err := NewZapLogger(ZapConfig{Level: "debug", FilePath: path, Service: "busfleet-test"}, nil)
	require.NoError(t, err)

	l.Info("vehicle moved", String("vehicle_id", "BUS-1"), Float64("lat", 9.03))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"vehicle_id":"BUS-1"`)
	assert.Contains(t, string(data), `"service":"busfleet-test"`)
	assert.Equal(t, path, l.GetFilePath())
}

func TestNewZapLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := NewZapLogger(ZapConfig{Level: "loud"}, nil)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
}

func TestGlobalLogger(t *testing.T) {
	nop := NewNopLogger()
	SetGlobalLogger(nop)
	assert.Same(t, nop, GetGlobalLogger())

	assert.NotPanics(t, func() {
		Info("info", Int("n", 1))
		Warn("warn", Bool("ok", true))
		Error("error", Err(errors.New("boom")))
		InfoCtx(context.Background(), "ctx", Duration("d", time.Second))
		ErrorCtx(context.Background(), "ctx error")
	})
}

func TestZapEchoMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(ZapEchoMiddleware(NewNopLogger()))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
