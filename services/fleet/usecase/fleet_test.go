package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/fleet/mocks"
	"github.com/piresc/busfleet/services/fleet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBox = models.BoundingBox{Center: models.Position{Latitude: 9.03, Longitude: 38.74}, HalfWidth: 0.05}

func setupUC(t *testing.T) (*FleetUC, *store.Store, *mocks.MockFleetCache, *mocks.MockFleetGW) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	fleetStore := store.New(nil, testBox, 10)
	cache := mocks.NewMockFleetCache(ctrl)
	gw := mocks.NewMockFleetGW(ctrl)
	uc := NewFleetUC(fleetStore, cache, gw)
	return uc, fleetStore, cache, gw
}

func register(t *testing.T, uc *FleetUC, id string, status models.VehicleStatus) {
	t.Helper()
	pos := testBox.Center
	_, err := uc.RegisterVehicle(context.Background(), &models.RegisterVehicleRequest{
		ID: id, Number: "aa-" + id, Capacity: 2, Status: status, Position: &pos,
	})
	require.NoError(t, err)
}

func TestRegisterVehicle_Success(t *testing.T) {
	uc, _, _, _ := setupUC(t)

	v, err := uc.RegisterVehicle(context.Background(), &models.RegisterVehicleRequest{Number: " aa-101 ", Capacity: 40})

	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "AA-101", v.Number)
	assert.Equal(t, models.VehicleStatusInactive, v.Status)
}

func TestRegisterVehicle_Invalid(t *testing.T) {
	uc, _, _, _ := setupUC(t)

	tests := []*models.RegisterVehicleRequest{
		{Number: "AA-1", Capacity: 0},
		{Capacity: 10},
		{Number: "AA-1", Capacity: 10, Status: "PARKED"},
	}
	for _, req := range tests {
		_, err := uc.RegisterVehicle(context.Background(), req)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "%+v", req)
	}
}

func TestUpdateLocation(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)

	v, err := uc.UpdateLocation(context.Background(), "bus-1",
		&models.LocationUpdateRequest{Latitude: 9.04, Longitude: 38.75, SpeedKph: 28})

	require.NoError(t, err)
	assert.Equal(t, models.Position{Latitude: 9.04, Longitude: 38.75}, v.Position)
	assert.Equal(t, 28.0, v.SpeedKph)
}

func TestUpdateLocation_NextStop(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)

	v, err := uc.UpdateLocation(context.Background(), "bus-1",
		&models.LocationUpdateRequest{Latitude: 9.04, Longitude: 38.75, SpeedKph: 28, NextStop: "Meskel Square"})
	require.NoError(t, err)
	assert.Equal(t, "Meskel Square", v.NextStop)

	v, err = uc.UpdateLocation(context.Background(), "bus-1",
		&models.LocationUpdateRequest{Latitude: 9.041, Longitude: 38.75, SpeedKph: 28})
	require.NoError(t, err)
	assert.Equal(t, "Meskel Square", v.NextStop)
}

func TestUpdateLocation_Errors(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)

	_, err := uc.UpdateLocation(context.Background(), "missing", &models.LocationUpdateRequest{Latitude: 9.03, Longitude: 38.74})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = uc.UpdateLocation(context.Background(), "bus-1", &models.LocationUpdateRequest{Latitude: 120, Longitude: 38.74})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = uc.UpdateLocation(context.Background(), "bus-1", &models.LocationUpdateRequest{Latitude: 8.5, Longitude: 38.74})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
}

func TestUpdateStatus(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)

	v, err := uc.UpdateStatus(context.Background(), "bus-1", models.VehicleStatusDelayed)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusDelayed, v.Status)

	_, err = uc.UpdateStatus(context.Background(), "bus-1", "LOST")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestAdjustOccupancy_Bounds(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)

	v, err := uc.AdjustOccupancy(context.Background(), "bus-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Occupancy)

	_, err = uc.AdjustOccupancy(context.Background(), "bus-1", 1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))

	_, err = uc.AdjustOccupancy(context.Background(), "bus-1", -3)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
}

func TestListVehiclesAndStats(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)
	register(t, uc, "bus-2", models.VehicleStatusActive)
	register(t, uc, "bus-3", models.VehicleStatusMaintenance)

	all, err := uc.ListVehicles(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := uc.ListVehicles(context.Background(), models.VehicleStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	stats, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.VehicleStatusActive])
	assert.Equal(t, 1, stats.ByStatus[models.VehicleStatusMaintenance])
}

func TestGetHistory_DefaultLimit(t *testing.T) {
	uc, _, _, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)
	for i := 0; i < 3; i++ {
		_, err := uc.AdjustOccupancy(context.Background(), "bus-1", 0)
		require.NoError(t, err)
	}

	history, err := uc.GetHistory(context.Background(), "bus-1", 0)

	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestBroadcastFleetSnapshot_OnlyActive(t *testing.T) {
	uc, _, _, gw := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)
	register(t, uc, "bus-2", models.VehicleStatusWaiting)
	fixed := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	gw.EXPECT().PublishSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshot models.FleetSnapshot) error {
			require.Len(t, snapshot.Vehicles, 1)
			assert.Equal(t, "bus-1", snapshot.Vehicles[0].ID)
			assert.Equal(t, fixed, snapshot.GeneratedAt)
			return nil
		})

	assert.NoError(t, uc.BroadcastFleetSnapshot(context.Background()))
}

func TestBroadcastFleetSnapshot_PublishError(t *testing.T) {
	uc, _, _, gw := setupUC(t)
	gw.EXPECT().PublishSnapshot(gomock.Any(), gomock.Any()).Return(assert.AnError)

	assert.ErrorIs(t, uc.BroadcastFleetSnapshot(context.Background()), assert.AnError)
}

func TestHandleStateChange(t *testing.T) {
	uc, _, cache, gw := setupUC(t)
	active := models.VehicleState{ID: "bus-1", Status: models.VehicleStatusActive}
	waiting := models.VehicleState{ID: "bus-1", Status: models.VehicleStatusWaiting}

	gomock.InOrder(
		cache.EXPECT().CacheVehicle(gomock.Any(), active).Return(nil),
		gw.EXPECT().PublishVehicleUpdated(gomock.Any(), gomock.Any()).Return(nil),
		cache.EXPECT().RemoveVehicle(gomock.Any(), "bus-1").Return(assert.AnError),
		gw.EXPECT().PublishVehicleUpdated(gomock.Any(), gomock.Any()).Return(assert.AnError),
	)

	uc.HandleStateChange(context.Background(), models.VehicleStateChange{Previous: active, Current: active, Source: models.ChangeSourceTicker})
	uc.HandleStateChange(context.Background(), models.VehicleStateChange{Previous: active, Current: waiting, Source: models.ChangeSourceStatus})
}

func TestFindNearby_FromCache(t *testing.T) {
	uc, _, cache, _ := setupUC(t)
	want := []models.NearbyVehicle{{VehicleID: "bus-1", DistanceKm: 0.3}}
	cache.EXPECT().FindNearby(gomock.Any(), testBox.Center, 1.0).Return(want, nil)

	got, err := uc.FindNearby(context.Background(), testBox.Center, 1)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindNearby_FallsBackToStore(t *testing.T) {
	uc, _, cache, _ := setupUC(t)
	register(t, uc, "bus-1", models.VehicleStatusActive)
	register(t, uc, "bus-2", models.VehicleStatusInactive)
	cache.EXPECT().FindNearby(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))

	got, err := uc.FindNearby(context.Background(), testBox.Center, 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bus-1", got[0].VehicleID)

	_, err = uc.FindNearby(context.Background(), testBox.Center, 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
