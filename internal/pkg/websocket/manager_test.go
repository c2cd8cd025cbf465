package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/busfleet/internal/pkg/jwt"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = models.JWTConfig{Secret: "ws-secret", Expiration: 5}

func startServer(t *testing.T, m *Manager) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return m.HandleConnection(c, func(client *models.WebSocketClient) error {
			for {
				if _, _, err := client.Conn.ReadMessage(); err != nil {
					return nil
				}
			}
		})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID, role string) *websocket.Conn {
	t.Helper()
	token, _, err := jwtpkg.GenerateToken(userID, role, cfg)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestManager_NotifyAndBroadcast(t *testing.T) {
	m := NewManager(cfg)
	srv := startServer(t, m)

	passenger := dial(t, srv, "P-1", models.RolePassenger)
	operator := dial(t, srv, "OPS-1", models.RoleOperator)
	require.Eventually(t, func() bool { return m.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	assert.True(t, m.NotifyClient("P-1", "notification", map[string]string{"title": "Bus arriving"}))
	msg := readEvent(t, passenger)
	assert.Equal(t, "notification", msg.Event)
	assert.JSONEq(t, `{"title":"Bus arriving"}`, string(msg.Data))

	assert.False(t, m.NotifyClient("P-404", "notification", nil))

	assert.Equal(t, 1, m.Broadcast("fleet_snapshot", []string{"BUS-1"}, models.RoleOperator))
	msg = readEvent(t, operator)
	assert.Equal(t, "fleet_snapshot", msg.Event)

	assert.Equal(t, 2, m.Broadcast("emergency_alert", "evacuate"))
}

func TestManager_RejectsUnauthenticated(t *testing.T) {
	m := NewManager(cfg)
	srv := startServer(t, m)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=bad", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManager_RemoveOnDisconnect(t *testing.T) {
	m := NewManager(cfg)
	srv := startServer(t, m)

	conn := dial(t, srv, "P-2", models.RolePassenger)
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return m.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}
