package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/database"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
)

const (
	// stateTTL expires vehicles that stop reporting
	stateTTL = constants.KeyVehicleStateTTL * time.Second
)

// FleetCache keeps the live fleet in Redis: a geo set for radius queries and a
// hash per vehicle for dashboards
type FleetCache struct {
	redisClient *database.RedisClient
}

// NewFleetCache creates a new Redis backed fleet cache
func NewFleetCache(redisClient *database.RedisClient) *FleetCache {
	return &FleetCache{redisClient: redisClient}
}

// CacheVehicle stores the vehicle position and a snapshot of its state
func (c *FleetCache) CacheVehicle(ctx context.Context, vehicle models.VehicleState) error {
	if err := c.redisClient.GeoAdd(ctx, constants.KeyVehicleGeo,
		vehicle.Position.Longitude, vehicle.Position.Latitude, vehicle.ID); err != nil {
		return fmt.Errorf("failed to cache vehicle position: %w", err)
	}

	stateKey := fmt.Sprintf(constants.KeyVehicleState, vehicle.ID)
	fields := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(vehicle.Position.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(vehicle.Position.Longitude, 'f', -1, 64),
		constants.FieldSpeed:     strconv.FormatFloat(vehicle.SpeedKph, 'f', 1, 64),
		constants.FieldStatus:    string(vehicle.Status),
		constants.FieldOccupancy: strconv.Itoa(vehicle.Occupancy),
		constants.FieldGeohash:   utils.EncodePosition(vehicle.Position, 7),
		constants.FieldTimestamp: strconv.FormatInt(vehicle.LastUpdated.Unix(), 10),
	}
	if err := c.redisClient.HSet(ctx, stateKey, fields, stateTTL); err != nil {
		return fmt.Errorf("failed to cache vehicle state: %w", err)
	}
	return nil
}

// RemoveVehicle drops a vehicle from radius queries
func (c *FleetCache) RemoveVehicle(ctx context.Context, vehicleID string) error {
	if err := c.redisClient.GeoRemove(ctx, constants.KeyVehicleGeo, vehicleID); err != nil {
		return fmt.Errorf("failed to remove vehicle from geo set: %w", err)
	}
	return c.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyVehicleState, vehicleID))
}

// FindNearby returns the cached vehicles within radiusKm of center, nearest first
func (c *FleetCache) FindNearby(ctx context.Context, center models.Position, radiusKm float64) ([]models.NearbyVehicle, error) {
	locations, err := c.redisClient.GeoRadius(ctx, constants.KeyVehicleGeo,
		center.Longitude, center.Latitude, radiusKm, "km")
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby vehicles: %w", err)
	}

	nearby := make([]models.NearbyVehicle, 0, len(locations))
	for _, loc := range locations {
		nearby = append(nearby, models.NearbyVehicle{
			VehicleID:  loc.Name,
			Position:   models.Position{Latitude: loc.Latitude, Longitude: loc.Longitude},
			DistanceKm: loc.Dist,
		})
	}
	return nearby, nil
}
