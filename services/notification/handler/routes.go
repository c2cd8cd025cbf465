package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/notification"
	httpHandler "github.com/piresc/busfleet/services/notification/handler/http"
)

// Handler exposes the notification HTTP API
type Handler struct {
	alertHTTP *httpHandler.AlertHandler
	cfg       *models.Config
}

// NewHandler creates a new notification handler
func NewHandler(notificationUC notification.NotificationUC, cfg *models.Config) *Handler {
	return &Handler{
		alertHTTP: httpHandler.NewAlertHandler(notificationUC),
		cfg:       cfg,
	}
}

// RegisterRoutes registers the dispatch routes (API key authentication)
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	alerts := e.Group("/internal/alerts", middleware.ValidateAPIKey(h.cfg.APIKey.Dispatch))
	alerts.POST("/emergency", h.alertHTTP.EmergencyAlert)
}
