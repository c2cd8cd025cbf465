package reservation

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/busfleet/services/reservation PaymentGW,ReservationEventsGW,LifecycleNotifier

// PaymentGW defines the payment processor operations
type PaymentGW interface {
	// Charge takes amount from the passenger and returns the processor transaction id
	Charge(ctx context.Context, amount float64, method models.PaymentMethod, reference string) (string, error)
	// Refund returns a previous charge and yields the refund confirmation
	Refund(ctx context.Context, transactionID string, amount float64) (string, error)
}

// ReservationEventsGW announces reservation changes on the bus
type ReservationEventsGW interface {
	PublishReservationUpdated(ctx context.Context, reservation *models.Reservation) error
}

// LifecycleNotifier tells the passenger about a reservation transition.
// Delivery failures are handled by the notifier and never reach the caller.
type LifecycleNotifier interface {
	NotifyReservation(ctx context.Context, kind models.NotificationKind, reservation *models.Reservation)
}
