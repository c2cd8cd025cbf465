package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	wspkg "github.com/piresc/busfleet/internal/pkg/websocket"
	"github.com/piresc/busfleet/services/fleet"
	httpHandler "github.com/piresc/busfleet/services/fleet/handler/http"
	wsHandler "github.com/piresc/busfleet/services/fleet/handler/websocket"
)

// Handler combines the HTTP and websocket handlers of the fleet service
type Handler struct {
	fleetHTTP *httpHandler.FleetHandler
	fleetLive *wsHandler.LiveHandler
	cfg       *models.Config
}

// NewHandler creates a new combined fleet handler
func NewHandler(fleetUC fleet.FleetUC, manager *wspkg.Manager, cfg *models.Config) *Handler {
	return &Handler{
		fleetHTTP: httpHandler.NewFleetHandler(fleetUC),
		fleetLive: wsHandler.NewLiveHandler(manager, fleetUC),
		cfg:       cfg,
	}
}

// RegisterRoutes registers the fleet API routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Public read routes
	v1 := e.Group("/v1")
	v1.GET("/vehicles", h.fleetHTTP.ListVehicles)
	v1.GET("/vehicles/stats", h.fleetHTTP.GetStats)
	v1.GET("/vehicles/nearby", h.fleetHTTP.FindNearby)
	v1.GET("/vehicles/:vehicleID", h.fleetHTTP.GetVehicle)
	v1.GET("/vehicles/:vehicleID/history", h.fleetHTTP.GetHistory)

	// Driver routes (JWT authentication)
	v1.PUT("/vehicles/:vehicleID/location", h.fleetHTTP.UpdateLocation,
		middleware.JWTAuthMiddleware(h.cfg.JWT),
		middleware.RequireRole(models.RoleDriver))

	// Operations routes (API key authentication)
	internal := e.Group("/internal", middleware.ValidateAPIKey(h.cfg.APIKey.Operations))
	internal.POST("/vehicles", h.fleetHTTP.RegisterVehicle)
	internal.PUT("/vehicles/:vehicleID/status", h.fleetHTTP.UpdateStatus)

	// Live fleet (JWT via header or ?token=)
	e.GET("/ws", h.fleetLive.HandleWebSocket)
}

// InitBusConsumers initializes the bus subscriptions feeding websocket clients
func (h *Handler) InitBusConsumers(sub bus.Subscriber) (func(), error) {
	return h.fleetLive.InitBusConsumers(sub)
}
