package models

import (
	"fmt"
	"time"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusBoarding  ReservationStatus = "BOARDING"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
	ReservationStatusRefunded  ReservationStatus = "REFUNDED"
)

// HoldsSeat reports whether a reservation in this status counts against capacity
func (s ReservationStatus) HoldsSeat() bool {
	return s != ReservationStatusCancelled
}

// SlotKey identifies a (vehicle, departure slot) pair, the unit of seat accounting
type SlotKey struct {
	VehicleID string
	Slot      time.Time
}

// NewSlotKey normalizes the slot to the minute in UTC
func NewSlotKey(vehicleID string, slot time.Time) SlotKey {
	return SlotKey{VehicleID: vehicleID, Slot: NormalizeSlot(slot)}
}

// String renders the key for lock maps and logs
func (k SlotKey) String() string {
	return fmt.Sprintf("%s@%s", k.VehicleID, k.Slot.Format(time.RFC3339))
}

// NormalizeSlot truncates a departure time to a discrete slot
func NormalizeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// Reservation is a passenger's seat on a vehicle for a departure slot
type Reservation struct {
	ID               string            `json:"id" db:"id"`
	PassengerID      string            `json:"passenger_id" db:"passenger_id"`
	VehicleID        string            `json:"vehicle_id" db:"vehicle_id"`
	Slot             time.Time         `json:"slot" db:"slot"`
	BoardingStop     string            `json:"boarding_stop" db:"boarding_stop"`
	AlightingStop    string            `json:"alighting_stop" db:"alighting_stop"`
	SeatNumber       int               `json:"seat_number" db:"seat_number"`
	Status           ReservationStatus `json:"status" db:"status"`
	ConfirmationCode string            `json:"confirmation_code" db:"confirmation_code"`
	QRCode           string            `json:"qr_code" db:"qr_code"`
	Payment          *PaymentInfo      `json:"payment,omitempty"`
	CancelReason     string            `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// Key returns the slot key the reservation is accounted under
func (r *Reservation) Key() SlotKey {
	return NewSlotKey(r.VehicleID, r.Slot)
}

// Clone returns a deep copy so callers never share ledger memory
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	if r.Payment != nil {
		p := *r.Payment
		c.Payment = &p
	}
	return &c
}

// ReserveRequest is the input of an admission decision
type ReserveRequest struct {
	PassengerID   string    `json:"passenger_id" validate:"required"`
	VehicleID     string    `json:"vehicle_id" validate:"required"`
	Slot          time.Time `json:"slot" validate:"required"`
	BoardingStop  string    `json:"boarding_stop" validate:"required"`
	AlightingStop string    `json:"alighting_stop" validate:"required"`
}

// CancelRequest carries the reason for a cancellation
type CancelRequest struct {
	Reason string `json:"reason"`
}

// CheckInRequest is presented at boarding
type CheckInRequest struct {
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// Availability reports seat usage for a slot
type Availability struct {
	VehicleID string    `json:"vehicle_id"`
	Slot      time.Time `json:"slot"`
	Capacity  int       `json:"capacity"`
	Reserved  int       `json:"reserved"`
	Available int       `json:"available"`
}
