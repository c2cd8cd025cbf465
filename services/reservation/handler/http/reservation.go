package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/reservation"
)

// ReservationHandler handles HTTP requests for reservations
type ReservationHandler struct {
	reservationUC reservation.ReservationUC
}

// NewReservationHandler creates a new reservation HTTP handler
func NewReservationHandler(reservationUC reservation.ReservationUC) *ReservationHandler {
	return &ReservationHandler{
		reservationUC: reservationUC,
	}
}

func callerIsPassenger(c echo.Context) (string, bool) {
	role, _ := c.Get("user_role").(string)
	userID, _ := c.Get("user_id").(string)
	return userID, role == models.RolePassenger
}

// Reserve creates a PENDING reservation. Passengers always reserve for themselves.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req models.ReserveRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind reservation request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}
	if userID, ok := callerIsPassenger(c); ok {
		req.PassengerID = userID
	}
	middleware.SetUserID(c, req.PassengerID)
	middleware.SetVehicleID(c, req.VehicleID)

	r, err := h.reservationUC.Reserve(c.Request().Context(), &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Reservation created successfully", r)
}

// GetReservation returns one reservation
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	r, err := h.reservationUC.GetReservation(c.Request().Context(), reservationID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if userID, ok := callerIsPassenger(c); ok && r.PassengerID != userID {
		return utils.ForbiddenResponse(c, "reservation belongs to another passenger")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Reservation retrieved successfully", r)
}

// Confirm applies a payment outcome reported by the processor
func (h *ReservationHandler) Confirm(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	var outcome models.PaymentOutcome
	if err := c.Bind(&outcome); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	r, err := h.reservationUC.Confirm(c.Request().Context(), reservationID, outcome)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment outcome applied", r)
}

// Pay charges the passenger for a PENDING reservation
func (h *ReservationHandler) Pay(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	var req models.PayRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	r, err := h.reservationUC.Pay(c.Request().Context(), reservationID, &req)
	if err != nil {
		logger.Warn("Payment failed",
			logger.String("reservation_id", reservationID),
			logger.Err(err))
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment completed successfully", r)
}

// Cancel cancels a reservation, refunding it when it was paid
func (h *ReservationHandler) Cancel(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	var req models.CancelRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	r, err := h.reservationUC.Cancel(c.Request().Context(), reservationID, req.Reason)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Reservation cancelled successfully", r)
}

// CheckIn boards the holder of a confirmation code
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	var req models.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}
	if req.ConfirmationCode == "" {
		return utils.BadRequestResponse(c, "confirmation_code is required")
	}

	r, err := h.reservationUC.CheckIn(c.Request().Context(), req.ConfirmationCode)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Passenger checked in successfully", r)
}

// Complete closes a boarded trip
func (h *ReservationHandler) Complete(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	r, err := h.reservationUC.Complete(c.Request().Context(), reservationID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip completed successfully", r)
}

// MarkNoShow records a confirmed passenger who never boarded
func (h *ReservationHandler) MarkNoShow(c echo.Context) error {
	reservationID := c.Param("reservationID")
	middleware.SetReservationID(c, reservationID)

	r, err := h.reservationUC.MarkNoShow(c.Request().Context(), reservationID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Reservation marked as no-show", r)
}

// ListByPassenger returns a passenger's reservations, latest departure first
func (h *ReservationHandler) ListByPassenger(c echo.Context) error {
	passengerID := c.Param("passengerID")
	if userID, ok := callerIsPassenger(c); ok && passengerID != userID {
		return utils.ForbiddenResponse(c, "cannot list another passenger's reservations")
	}
	middleware.SetUserID(c, passengerID)

	reservations, err := h.reservationUC.ListByPassenger(c.Request().Context(), passengerID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Reservations retrieved successfully", reservations)
}

// Availability reports free seats of a vehicle for ?slot= (RFC 3339)
func (h *ReservationHandler) Availability(c echo.Context) error {
	vehicleID := c.Param("vehicleID")
	middleware.SetVehicleID(c, vehicleID)

	slot, err := time.Parse(time.RFC3339, c.QueryParam("slot"))
	if err != nil {
		return utils.BadRequestResponse(c, "slot must be an RFC 3339 timestamp")
	}

	availability, err := h.reservationUC.Availability(c.Request().Context(), vehicleID, slot)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Availability retrieved successfully", availability)
}
