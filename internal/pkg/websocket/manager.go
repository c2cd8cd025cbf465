package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/constants"
	jwtpkg "github.com/piresc/busfleet/internal/pkg/jwt"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/metrics"
	"github.com/piresc/busfleet/internal/pkg/models"
)

// Manager manages WebSocket connections and client state
type Manager struct {
	sync.RWMutex
	clients  map[string]*models.WebSocketClient
	cfg      models.JWTConfig
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager(jwtConfig models.JWTConfig) *Manager {
	return &Manager{
		clients: make(map[string]*models.WebSocketClient),
		cfg:     jwtConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates, upgrades and registers the client for the
// lifetime of handleClient
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*models.WebSocketClient) error) error {
	client, err := m.authenticateClient(c)
	if err != nil {
		return err
	}

	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	client.Conn = ws
	m.AddClient(client)
	defer m.RemoveClient(client)

	return handleClient(client)
}

// authenticateClient accepts a bearer header or, for browsers, a token query parameter
func (m *Manager) authenticateClient(c echo.Context) (*models.WebSocketClient, error) {
	token := c.QueryParam("token")
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}
		token = parts[1]
	}
	if token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}

	claims, err := jwtpkg.ValidateToken(token, m.cfg.Secret)
	if err != nil {
		logger.Warn("Token validation failed", logger.Err(err))
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return &models.WebSocketClient{UserID: claims.UserID, Role: claims.Role}, nil
}

// AddClient registers a client, replacing any earlier connection of the same user
func (m *Manager) AddClient(client *models.WebSocketClient) {
	m.Lock()
	defer m.Unlock()
	m.clients[client.UserID] = client
	metrics.WebSocketClients.Set(float64(len(m.clients)))
}

// RemoveClient unregisters client unless it has already been replaced
func (m *Manager) RemoveClient(client *models.WebSocketClient) {
	m.Lock()
	defer m.Unlock()
	if current, ok := m.clients[client.UserID]; ok && current == client {
		delete(m.clients, client.UserID)
	}
	metrics.WebSocketClients.Set(float64(len(m.clients)))
}

// GetClient returns a client by ID
func (m *Manager) GetClient(userID string) (*models.WebSocketClient, bool) {
	m.RLock()
	defer m.RUnlock()
	client, exists := m.clients[userID]
	return client, exists
}

// ClientCount returns the number of connected clients
func (m *Manager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

func encode(event string, data interface{}) (models.WSMessage, error) {
	rawData, err := json.Marshal(data)
	if err != nil {
		return models.WSMessage{}, fmt.Errorf("error marshaling message data: %w", err)
	}
	return models.WSMessage{Event: event, Data: rawData}, nil
}

// SendMessage writes one event to client
func (m *Manager) SendMessage(client *models.WebSocketClient, event string, data interface{}) error {
	if client == nil || client.Conn == nil {
		return nil
	}
	msg, err := encode(event, data)
	if err != nil {
		return err
	}
	return client.WriteJSON(msg)
}

// SendErrorMessage sends an error event to client
func (m *Manager) SendErrorMessage(client *models.WebSocketClient, code string, message string) error {
	return m.SendMessage(client, constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// NotifyClient sends event to userID and reports whether the user was connected
func (m *Manager) NotifyClient(userID string, event string, data interface{}) bool {
	client, exists := m.GetClient(userID)
	if !exists {
		return false
	}

	if err := m.SendMessage(client, event, data); err != nil {
		logger.Warn("Error sending message to client",
			logger.String("user_id", userID),
			logger.Err(err))
		return false
	}
	return true
}

// Broadcast sends event to every client whose role is in roles, or to everyone
// when roles is empty. It returns the number of successful deliveries.
func (m *Manager) Broadcast(event string, data interface{}, roles ...string) int {
	msg, err := encode(event, data)
	if err != nil {
		logger.Error("Failed to encode broadcast", logger.String("event", event), logger.Err(err))
		return 0
	}

	m.RLock()
	targets := make([]*models.WebSocketClient, 0, len(m.clients))
	for _, client := range m.clients {
		if matchesRole(client.Role, roles) {
			targets = append(targets, client)
		}
	}
	m.RUnlock()

	delivered := 0
	for _, client := range targets {
		if client.Conn == nil {
			continue
		}
		if err := client.WriteJSON(msg); err != nil {
			logger.Debug("Broadcast write failed",
				logger.String("user_id", client.UserID),
				logger.Err(err))
			continue
		}
		delivered++
	}
	return delivered
}

func matchesRole(role string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
