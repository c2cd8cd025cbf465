package reservation

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/busfleet/services/reservation ReservationRepo

// ReservationRepo defines the durable storage of reservations
type ReservationRepo interface {
	// SaveReservation inserts or replaces the full reservation record
	SaveReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	// ListReservations returns reservations in any of statuses, or all when statuses is empty
	ListReservations(ctx context.Context, statuses []models.ReservationStatus) ([]*models.Reservation, error)
}

// Ledger is the in-memory index the admission decisions are made against.
// Implementations hand out copies; callers never share ledger memory.
type Ledger interface {
	Put(reservation *models.Reservation)
	Get(id string) (*models.Reservation, error)
	GetByCode(code string) (*models.Reservation, error)
	CodeTaken(code string) bool
	// Active returns the reservations holding a seat in the slot, by seat number
	Active(key models.SlotKey) []*models.Reservation
	// ByVehicle returns the vehicle's reservations in any of statuses
	ByVehicle(vehicleID string, statuses ...models.ReservationStatus) []*models.Reservation
	// ByPassenger returns the passenger's reservations, latest slot first
	ByPassenger(passengerID string) []*models.Reservation
}
