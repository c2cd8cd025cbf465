package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/busfleet/internal/pkg/jwt"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtConfig = models.JWTConfig{Secret: "secret", Expiration: 10, Issuer: "busfleet"}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPanicRecovery(t *testing.T) {
	e := echo.New()
	e.Use(PanicRecoveryWithZapMiddleware(logger.NewNopLogger()))
	e.GET("/panic", func(c echo.Context) error { panic("tick overrun") })
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := serve(e, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "req-1")

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Panics(t, func() { PanicRecoveryWithZapMiddleware(nil) })
}

func TestJWTAuthMiddleware(t *testing.T) {
	e := echo.New()
	g := e.Group("", JWTAuthMiddleware(jwtConfig))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"id": c.Get("user_id"), "role": c.Get("user_role")})
	})
	g.GET("/ops", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole(models.RoleOperator))

	token, _, err := jwtpkg.GenerateToken("P-1", models.RolePassenger, jwtConfig)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + token, http.StatusOK},
		{"wrong role", "/ops", "Bearer " + token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"P-1","role":"passenger"}`, rec.Body.String())
			}
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	e := echo.New()
	e.POST("/internal", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, ValidateAPIKey("ops-key", ""))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"valid", "ops-key", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			assert.Equal(t, tt.status, serve(e, req).Code)
		})
	}
}
