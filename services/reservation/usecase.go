package reservation

import (
	"context"
	"time"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/busfleet/services/reservation ReservationUC

// ReservationUC defines the admission and reservation lifecycle operations
type ReservationUC interface {
	Reserve(ctx context.Context, req *models.ReserveRequest) (*models.Reservation, error)
	Confirm(ctx context.Context, reservationID string, outcome models.PaymentOutcome) (*models.Reservation, error)
	Pay(ctx context.Context, reservationID string, req *models.PayRequest) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID, reason string) (*models.Reservation, error)
	CheckIn(ctx context.Context, confirmationCode string) (*models.Reservation, error)
	Complete(ctx context.Context, reservationID string) (*models.Reservation, error)
	MarkNoShow(ctx context.Context, reservationID string) (*models.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]*models.Reservation, error)
	Availability(ctx context.Context, vehicleID string, slot time.Time) (*models.Availability, error)
	Load(ctx context.Context) (int, error)
}
