package fleet

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/busfleet/services/fleet FleetUC

// FleetUC defines the fleet business operations
type FleetUC interface {
	// Vehicle registry
	RegisterVehicle(ctx context.Context, req *models.RegisterVehicleRequest) (*models.VehicleState, error)
	GetVehicle(ctx context.Context, vehicleID string) (*models.VehicleState, error)
	ListVehicles(ctx context.Context, status models.VehicleStatus) ([]models.VehicleState, error)
	GetHistory(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error)
	GetStats(ctx context.Context) (*models.FleetStats, error)

	// Live state changes
	UpdateLocation(ctx context.Context, vehicleID string, req *models.LocationUpdateRequest) (*models.VehicleState, error)
	UpdateStatus(ctx context.Context, vehicleID string, status models.VehicleStatus) (*models.VehicleState, error)
	AdjustOccupancy(ctx context.Context, vehicleID string, delta int) (*models.VehicleState, error)

	// Queries on the live cache
	FindNearby(ctx context.Context, center models.Position, radiusKm float64) ([]models.NearbyVehicle, error)

	// BroadcastFleetSnapshot publishes every ACTIVE vehicle
	BroadcastFleetSnapshot(ctx context.Context) error
	// HandleStateChange propagates a committed change to the cache and the bus
	HandleStateChange(ctx context.Context, change models.VehicleStateChange)
}
