package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/notification"
)

// AlertHandler handles operator alert requests
type AlertHandler struct {
	notificationUC notification.NotificationUC
}

// NewAlertHandler creates a new alert HTTP handler
func NewAlertHandler(notificationUC notification.NotificationUC) *AlertHandler {
	return &AlertHandler{
		notificationUC: notificationUC,
	}
}

// EmergencyAlert notifies every passenger with an active reservation on a vehicle
func (h *AlertHandler) EmergencyAlert(c echo.Context) error {
	var req models.EmergencyAlertRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind emergency alert request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}
	middleware.SetVehicleID(c, req.VehicleID)

	result, err := h.notificationUC.EmergencyAlert(c.Request().Context(), &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Emergency alert sent", result)
}
