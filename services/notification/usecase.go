package notification

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/busfleet/services/notification NotificationUC

// NotificationUC defines the notification dispatcher
type NotificationUC interface {
	// OnStateChange evaluates arrival and delay triggers for a committed vehicle change
	OnStateChange(ctx context.Context, change models.VehicleStateChange)
	// NotifyReservation sends a lifecycle message for r, at most once per kind
	NotifyReservation(ctx context.Context, kind models.NotificationKind, r *models.Reservation)
	EmergencyAlert(ctx context.Context, req *models.EmergencyAlertRequest) (*models.EmergencyAlertResult, error)
}
