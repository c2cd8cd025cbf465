package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/notification"
)

type alertGW struct {
	publisher bus.Publisher
}

// NewAlertGW creates a gateway broadcasting emergency alerts on the bus
func NewAlertGW(publisher bus.Publisher) notification.AlertGW {
	return &alertGW{publisher: publisher}
}

// PublishEmergencyAlert broadcasts the alert to operators and drivers
func (g *alertGW) PublishEmergencyAlert(ctx context.Context, alert *models.EmergencyAlertResult) error {
	if err := g.publisher.Publish(ctx, constants.TopicEmergencyAlert, alert); err != nil {
		return fmt.Errorf("failed to publish emergency alert for %s: %w", alert.VehicleID, err)
	}
	return nil
}
