package fleet

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/busfleet/services/fleet FleetGW

// FleetGW defines the outbound event surface of the fleet service
type FleetGW interface {
	// PublishSnapshot broadcasts the active fleet to snapshot subscribers
	PublishSnapshot(ctx context.Context, snapshot models.FleetSnapshot) error
	// PublishVehicleUpdated announces a single vehicle state change
	PublishVehicleUpdated(ctx context.Context, change models.VehicleStateChange) error
}
