package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/database"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/fleet/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*repository.FleetCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewFleetCache(&database.RedisClient{Client: client}), mr
}

func TestFleetCache_CacheAndFindNearby(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	near := models.VehicleState{ID: "bus-1", Status: models.VehicleStatusActive,
		Position: models.Position{Latitude: 9.031, Longitude: 38.741}, Occupancy: 4, LastUpdated: time.Now()}
	far := models.VehicleState{ID: "bus-2", Status: models.VehicleStatusActive,
		Position: models.Position{Latitude: 9.07, Longitude: 38.78}, LastUpdated: time.Now()}

	require.NoError(t, cache.CacheVehicle(ctx, near))
	require.NoError(t, cache.CacheVehicle(ctx, far))

	nearby, err := cache.FindNearby(ctx, models.Position{Latitude: 9.03, Longitude: 38.74}, 1)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "bus-1", nearby[0].VehicleID)
	assert.Less(t, nearby[0].DistanceKm, 1.0)

	stateKey := fmt.Sprintf(constants.KeyVehicleState, "bus-1")
	assert.Equal(t, "ACTIVE", mr.HGet(stateKey, constants.FieldStatus))
	assert.Equal(t, "4", mr.HGet(stateKey, constants.FieldOccupancy))
	assert.True(t, mr.TTL(stateKey) > 0)
}

func TestFleetCache_RemoveVehicle(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	v := models.VehicleState{ID: "bus-1", Position: models.Position{Latitude: 9.03, Longitude: 38.74}}
	require.NoError(t, cache.CacheVehicle(ctx, v))

	require.NoError(t, cache.RemoveVehicle(ctx, "bus-1"))

	nearby, err := cache.FindNearby(ctx, v.Position, 5)
	require.NoError(t, err)
	assert.Empty(t, nearby)
	assert.False(t, mr.Exists(fmt.Sprintf(constants.KeyVehicleState, "bus-1")))
}

func TestFleetCache_ConnectionError(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	err := cache.CacheVehicle(context.Background(), models.VehicleState{ID: "bus-1"})

	assert.Error(t, err)
}
