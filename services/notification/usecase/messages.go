package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/busfleet/internal/pkg/eta"
	"github.com/piresc/busfleet/internal/pkg/models"
)

const slotLayout = "Jan 2 15:04"

func arrivalKey(reservationID string) string {
	return "arrival:" + reservationID
}

func delayKey(reservationID string) string {
	return "delay:" + reservationID
}

func lifecycleKey(kind models.NotificationKind, reservationID string) string {
	return strings.ToLower(string(kind)) + ":" + reservationID
}

func emergencyKey(vehicleID, passengerID string, issuedAt time.Time) string {
	return fmt.Sprintf("emergency:%s:%s:%d", vehicleID, passengerID, issuedAt.UnixNano())
}

func newEvent(key string, kind models.NotificationKind, recipientID string, at time.Time) *models.NotificationEvent {
	return &models.NotificationEvent{
		ID:          uuid.New().String(),
		Key:         key,
		RecipientID: recipientID,
		Kind:        kind,
		CreatedAt:   at,
	}
}

func vehicleLabel(v models.VehicleState) string {
	if v.Number != "" {
		return v.Number
	}
	return v.ID
}

func arrivalEvent(key string, v models.VehicleState, r *models.Reservation, stop models.Stop, e eta.Estimate, at time.Time) *models.NotificationEvent {
	minutes := int(math.Ceil(e.Minutes()))
	event := newEvent(key, models.NotificationBusArrival, r.PassengerID, at)
	event.VehicleID = v.ID
	event.ReservationID = r.ID
	event.StopName = stop.Name
	event.EstimatedMinutes = minutes
	event.Title = "Your bus is arriving"
	event.Message = fmt.Sprintf("Bus %s is %.1f km from %s, about %d min away.",
		vehicleLabel(v), e.DistanceKm, stop.Name, minutes)
	return event
}

func delayEvent(v models.VehicleState, r *models.Reservation, at time.Time) *models.NotificationEvent {
	event := newEvent(delayKey(r.ID), models.NotificationDelayAlert, r.PassengerID, at)
	event.VehicleID = v.ID
	event.ReservationID = r.ID
	event.StopName = r.BoardingStop
	event.Title = "Bus delayed"
	event.Message = fmt.Sprintf("Bus %s for your %s departure is running late.",
		vehicleLabel(v), r.Slot.Format(slotLayout))
	return event
}

func emergencyEvent(req *models.EmergencyAlertRequest, passengerID string, issuedAt time.Time) *models.NotificationEvent {
	event := newEvent(emergencyKey(req.VehicleID, passengerID, issuedAt), models.NotificationEmergency, passengerID, issuedAt)
	event.VehicleID = req.VehicleID
	event.Title = "Emergency alert"
	event.Message = req.Message
	return event
}

func lifecycleEvent(kind models.NotificationKind, r *models.Reservation, at time.Time) *models.NotificationEvent {
	event := newEvent(lifecycleKey(kind, r.ID), kind, r.PassengerID, at)
	event.VehicleID = r.VehicleID
	event.ReservationID = r.ID
	event.StopName = r.BoardingStop
	event.Title, event.Message = lifecycleText(kind, r)
	return event
}

func amountOf(r *models.Reservation) float64 {
	if r.Payment == nil {
		return 0
	}
	return r.Payment.Amount
}

func lifecycleText(kind models.NotificationKind, r *models.Reservation) (string, string) {
	slot := r.Slot.Format(slotLayout)
	switch kind {
	case models.NotificationReservationConfirmation:
		return "Seat reserved", fmt.Sprintf("Seat %d is held for the %s departure from %s. Confirmation code %s.",
			r.SeatNumber, slot, r.BoardingStop, r.ConfirmationCode)
	case models.NotificationPaymentSuccess:
		receipt := ""
		if r.Payment != nil {
			receipt = r.Payment.ReceiptNumber
		}
		return "Payment received", fmt.Sprintf("Payment of %.2f ETB received, receipt %s. Seat %d on %s is confirmed.",
			amountOf(r), receipt, r.SeatNumber, slot)
	case models.NotificationPaymentFailure:
		return "Payment failed", fmt.Sprintf("Payment for reservation %s failed and the seat was released.",
			r.ConfirmationCode)
	case models.NotificationReservationCancelled:
		msg := fmt.Sprintf("Reservation %s for %s was cancelled.", r.ConfirmationCode, slot)
		if r.CancelReason != "" {
			msg += " Reason: " + r.CancelReason + "."
		}
		return "Reservation cancelled", msg
	case models.NotificationRefundProcessed:
		ref := ""
		if r.Payment != nil {
			ref = r.Payment.RefundConfirmation
		}
		return "Refund processed", fmt.Sprintf("Refund of %.2f ETB processed, reference %s.", amountOf(r), ref)
	default:
		return strings.ReplaceAll(string(kind), "_", " "), fmt.Sprintf("Update on reservation %s.", r.ConfirmationCode)
	}
}

func smsText(e *models.NotificationEvent) string {
	return e.Title + ": " + e.Message
}
