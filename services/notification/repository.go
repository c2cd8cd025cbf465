package notification

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/busfleet/services/notification NotificationRepo

// NotificationRepo defines the storage of notification events and passenger contacts
type NotificationRepo interface {
	// SaveNotification upserts the event by its logical key
	SaveNotification(ctx context.Context, event *models.NotificationEvent) error
	GetPassenger(ctx context.Context, id string) (*models.Passenger, error)
}

// ReservationSource lists the reservations held on a vehicle
type ReservationSource interface {
	ByVehicle(vehicleID string, statuses ...models.ReservationStatus) []*models.Reservation
}

// StopCatalog resolves boarding stop names to coordinates
type StopCatalog interface {
	Lookup(name string) (models.Stop, bool)
}
