package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/reservation"
	httpHandler "github.com/piresc/busfleet/services/reservation/handler/http"
)

// Handler exposes the reservation HTTP API
type Handler struct {
	reservationHTTP *httpHandler.ReservationHandler
	cfg             *models.Config
	reserveLimiter  echo.MiddlewareFunc
}

// NewHandler creates a new reservation handler. reserveLimiter may be nil.
func NewHandler(reservationUC reservation.ReservationUC, cfg *models.Config, reserveLimiter echo.MiddlewareFunc) *Handler {
	return &Handler{
		reservationHTTP: httpHandler.NewReservationHandler(reservationUC),
		cfg:             cfg,
		reserveLimiter:  reserveLimiter,
	}
}

// RegisterRoutes registers the reservation API routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Public availability lookup
	e.GET("/v1/vehicles/:vehicleID/availability", h.reservationHTTP.Availability)

	// Passenger routes (JWT authentication)
	jwt := middleware.JWTAuthMiddleware(h.cfg.JWT)
	reservations := e.Group("/v1/reservations", jwt)
	if h.reserveLimiter != nil {
		reservations.POST("", h.reservationHTTP.Reserve, h.reserveLimiter)
	} else {
		reservations.POST("", h.reservationHTTP.Reserve)
	}
	reservations.GET("/:reservationID", h.reservationHTTP.GetReservation)
	reservations.POST("/:reservationID/pay", h.reservationHTTP.Pay)
	reservations.POST("/:reservationID/cancel", h.reservationHTTP.Cancel)
	reservations.POST("/checkin", h.reservationHTTP.CheckIn,
		middleware.RequireRole(models.RoleDriver, models.RoleOperator))
	e.GET("/v1/passengers/:passengerID/reservations", h.reservationHTTP.ListByPassenger, jwt)

	// Payment processor callback and operations routes (API key authentication)
	apiKey := middleware.ValidateAPIKey(h.cfg.APIKey.Operations)
	e.POST("/v1/reservations/:reservationID/confirm", h.reservationHTTP.Confirm, apiKey)
	internal := e.Group("/internal/reservations", apiKey)
	internal.POST("/:reservationID/complete", h.reservationHTTP.Complete)
	internal.POST("/:reservationID/no-show", h.reservationHTTP.MarkNoShow)
}
