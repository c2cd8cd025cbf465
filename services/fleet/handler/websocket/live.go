package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	wspkg "github.com/piresc/busfleet/internal/pkg/websocket"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/fleet"
)

// DriverLocation is the payload of a location_update event
type DriverLocation struct {
	VehicleID string `json:"vehicle_id"`
	models.LocationUpdateRequest
}

// LiveHandler streams fleet snapshots to websocket clients and accepts
// location reports from drivers
type LiveHandler struct {
	manager *wspkg.Manager
	fleetUC fleet.FleetUC
}

// NewLiveHandler creates a new live fleet websocket handler
func NewLiveHandler(manager *wspkg.Manager, fleetUC fleet.FleetUC) *LiveHandler {
	return &LiveHandler{
		manager: manager,
		fleetUC: fleetUC,
	}
}

// HandleWebSocket upgrades the request and serves the client until it disconnects
func (h *LiveHandler) HandleWebSocket(c echo.Context) error {
	return h.manager.HandleConnection(c, h.serveClient)
}

func (h *LiveHandler) serveClient(client *models.WebSocketClient) error {
	ctx := context.Background()
	active, err := h.fleetUC.ListVehicles(ctx, models.VehicleStatusActive)
	if err == nil {
		_ = h.manager.SendMessage(client, constants.EventFleetSnapshot, models.FleetSnapshot{
			Vehicles:    active,
			GeneratedAt: models.Now(),
		})
	}

	for {
		_, msg, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error",
					logger.String("user_id", client.UserID),
					logger.Err(err))
			}
			return nil
		}

		if err := h.handleMessage(ctx, client, msg); err != nil {
			logger.Warn("Error handling websocket message",
				logger.String("user_id", client.UserID),
				logger.Err(err))
		}
	}
}

func (h *LiveHandler) handleMessage(ctx context.Context, client *models.WebSocketClient, msg []byte) error {
	var wsMsg models.WSMessage
	if err := json.Unmarshal(msg, &wsMsg); err != nil {
		return h.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid message format")
	}

	switch wsMsg.Event {
	case constants.EventPing:
		return h.manager.SendMessage(client, constants.EventPong, nil)
	case constants.EventLocationUpdate:
		return h.handleLocationUpdate(ctx, client, wsMsg.Data)
	default:
		return h.manager.SendErrorMessage(client, constants.ErrorUnknownEvent, "Unknown event type")
	}
}

func (h *LiveHandler) handleLocationUpdate(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) error {
	if client.Role != models.RoleDriver {
		return h.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Only drivers may report locations")
	}

	var report DriverLocation
	if err := json.Unmarshal(data, &report); err != nil || report.VehicleID == "" {
		return h.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid location format")
	}

	vehicle, err := h.fleetUC.UpdateLocation(ctx, report.VehicleID, &report.LocationUpdateRequest)
	if err != nil {
		code := constants.ErrorValidationFailed
		if utils.ErrorStatus(err) >= 500 {
			code = constants.ErrorInternalError
		}
		return h.manager.SendErrorMessage(client, code, err.Error())
	}
	return h.manager.SendMessage(client, constants.EventVehicleUpdated, vehicle)
}

// InitBusConsumers forwards fleet, reservation and alert topics from the bus
// to connected clients and delivers per-user push messages. The returned func
// removes every subscription.
func (h *LiveHandler) InitBusConsumers(sub bus.Subscriber) (func(), error) {
	var unsubs []func()
	unsubscribeAll := func() {
		for _, u := range unsubs {
			u()
		}
	}

	forwards := []struct {
		topic string
		event string
		roles []string
	}{
		{constants.TopicFleetSnapshot, constants.EventFleetSnapshot, nil},
		{constants.TopicVehicleStatus, constants.EventVehicleUpdated, []string{models.RoleOperator}},
		{constants.TopicReservationUpdated, constants.EventReservationUpdated, []string{models.RoleOperator}},
		{constants.TopicEmergencyAlert, constants.EventEmergencyAlert, []string{models.RoleOperator, models.RoleDriver}},
	}
	for _, f := range forwards {
		f := f
		unsub, err := sub.Subscribe(f.topic, func(ctx context.Context, data []byte) error {
			h.manager.Broadcast(f.event, json.RawMessage(data), f.roles...)
			return nil
		})
		if err != nil {
			unsubscribeAll()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", f.topic, err)
		}
		unsubs = append(unsubs, unsub)
	}

	unsub, err := sub.Subscribe(constants.TopicNotificationPush, h.deliverPush)
	if err != nil {
		unsubscribeAll()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", constants.TopicNotificationPush, err)
	}
	unsubs = append(unsubs, unsub)

	logger.Info("Fleet websocket consumers initialized", logger.Int("topics", len(forwards)+1))
	return unsubscribeAll, nil
}

// deliverPush writes a push message to its recipient when connected here
func (h *LiveHandler) deliverPush(ctx context.Context, data []byte) error {
	var msg models.PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("Discarding malformed push message", logger.Err(err))
		return nil
	}
	if !h.manager.NotifyClient(msg.UserID, constants.EventNotification, msg.Payload) {
		logger.Debug("Push recipient not connected", logger.String("user_id", msg.UserID))
	}
	return nil
}
