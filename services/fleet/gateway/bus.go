package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/fleet"
)

type fleetGW struct {
	publisher bus.Publisher
}

// NewFleetGW creates a fleet gateway publishing on the message bus
func NewFleetGW(publisher bus.Publisher) fleet.FleetGW {
	return &fleetGW{
		publisher: publisher,
	}
}

// PublishSnapshot publishes the active fleet on the snapshot topic
func (g *fleetGW) PublishSnapshot(ctx context.Context, snapshot models.FleetSnapshot) error {
	if err := g.publisher.Publish(ctx, constants.TopicFleetSnapshot, snapshot); err != nil {
		return fmt.Errorf("failed to publish fleet snapshot: %w", err)
	}
	return nil
}

// PublishVehicleUpdated publishes a vehicle change, and status changes on their own topic
func (g *fleetGW) PublishVehicleUpdated(ctx context.Context, change models.VehicleStateChange) error {
	if err := g.publisher.Publish(ctx, constants.TopicVehicleUpdated, change); err != nil {
		return fmt.Errorf("failed to publish vehicle update: %w", err)
	}
	if change.Previous.Status != change.Current.Status {
		if err := g.publisher.Publish(ctx, constants.TopicVehicleStatus, change); err != nil {
			return fmt.Errorf("failed to publish vehicle status: %w", err)
		}
	}
	return nil
}
