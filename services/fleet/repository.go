package fleet

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/busfleet/services/fleet FleetRepo,FleetCache

// FleetRepo defines the durable storage of vehicles and their position history
type FleetRepo interface {
	LoadVehicles(ctx context.Context) ([]models.VehicleState, error)
	SaveVehicle(ctx context.Context, vehicle models.VehicleState) error
	AppendPosition(ctx context.Context, record models.PositionRecord) error
}

// FleetCache defines the live geo cache used for nearby queries and dashboards
type FleetCache interface {
	CacheVehicle(ctx context.Context, vehicle models.VehicleState) error
	RemoveVehicle(ctx context.Context, vehicleID string) error
	FindNearby(ctx context.Context, center models.Position, radiusKm float64) ([]models.NearbyVehicle, error)
}
