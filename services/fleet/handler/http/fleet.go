package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/fleet"
)

// FleetHandler handles HTTP requests for fleet operations
type FleetHandler struct {
	fleetUC fleet.FleetUC
}

// NewFleetHandler creates a new fleet HTTP handler
func NewFleetHandler(fleetUC fleet.FleetUC) *FleetHandler {
	return &FleetHandler{
		fleetUC: fleetUC,
	}
}

// ListVehicles returns the fleet, optionally filtered by ?status=
func (h *FleetHandler) ListVehicles(c echo.Context) error {
	status := models.VehicleStatus(c.QueryParam("status"))

	vehicles, err := h.fleetUC.ListVehicles(c.Request().Context(), status)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}

// GetVehicle returns one vehicle
func (h *FleetHandler) GetVehicle(c echo.Context) error {
	vehicleID := c.Param("vehicleID")
	middleware.SetVehicleID(c, vehicleID)

	vehicle, err := h.fleetUC.GetVehicle(c.Request().Context(), vehicleID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// GetHistory returns the recent position history of a vehicle
func (h *FleetHandler) GetHistory(c echo.Context) error {
	vehicleID := c.Param("vehicleID")
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return utils.BadRequestResponse(c, "limit must be a non-negative integer")
		}
		limit = n
	}

	history, err := h.fleetUC.GetHistory(c.Request().Context(), vehicleID, limit)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", history)
}

// GetStats returns vehicle counts by status
func (h *FleetHandler) GetStats(c echo.Context) error {
	stats, err := h.fleetUC.GetStats(c.Request().Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fleet statistics retrieved successfully", stats)
}

// FindNearby returns vehicles around ?lat=&lon= within ?radius_km= (default 1km)
func (h *FleetHandler) FindNearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "invalid lat")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "invalid lon")
	}
	radius := 1.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			return utils.BadRequestResponse(c, "invalid radius_km")
		}
	}

	nearby, err := h.fleetUC.FindNearby(c.Request().Context(),
		models.Position{Latitude: lat, Longitude: lon}, radius)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Nearby vehicles retrieved successfully", nearby)
}

// UpdateLocation accepts a position report from a driver
func (h *FleetHandler) UpdateLocation(c echo.Context) error {
	vehicleID := c.Param("vehicleID")
	middleware.SetVehicleID(c, vehicleID)

	var req models.LocationUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind location update", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}

	vehicle, err := h.fleetUC.UpdateLocation(c.Request().Context(), vehicleID, &req)
	if err != nil {
		logger.Warn("Location update rejected",
			logger.String("vehicle_id", vehicleID),
			logger.Err(err))
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Location updated successfully", vehicle)
}

// RegisterVehicle adds a vehicle to the fleet
func (h *FleetHandler) RegisterVehicle(c echo.Context) error {
	var req models.RegisterVehicleRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	vehicle, err := h.fleetUC.RegisterVehicle(c.Request().Context(), &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Vehicle registered successfully", vehicle)
}

// UpdateStatus changes the operational status of a vehicle
func (h *FleetHandler) UpdateStatus(c echo.Context) error {
	vehicleID := c.Param("vehicleID")
	middleware.SetVehicleID(c, vehicleID)

	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	vehicle, err := h.fleetUC.UpdateStatus(c.Request().Context(), vehicleID, req.Status)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Status updated successfully", vehicle)
}
