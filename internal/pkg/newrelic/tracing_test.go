package newrelic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNewRelic_Disabled(t *testing.T) {
	assert.Nil(t, InitNewRelic(&models.Config{}))
}

func TestHelpersWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	SetTransactionName(nil, "x")
	NoticeTransactionError(nil, errors.New("x"))

	called := false
	require.NoError(t, WithSegment(ctx, "seg", func() error { called = true; return nil }))
	assert.True(t, called)

	req := httptest.NewRequest(http.MethodGet, "http://sms.local/send", nil)
	resp, err := InstrumentHTTPRequest(ctx, req, func() (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusAccepted}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestBackgroundTask_NilApp(t *testing.T) {
	boom := errors.New("boom")
	task := BackgroundTask(nil, "position", func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, task(context.Background()), boom)
}

func TestTraceHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := TraceHandler("GetVehicle", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
