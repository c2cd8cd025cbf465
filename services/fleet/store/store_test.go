package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/fleet"
	"github.com/piresc/busfleet/services/fleet/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBox   = models.BoundingBox{Center: models.Position{Latitude: 9.03, Longitude: 38.74}, HalfWidth: 0.05}
	fixedTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedTime }

func newVehicle(id string) models.VehicleState {
	return models.VehicleState{
		ID:       id,
		Number:   "AA-" + id,
		Status:   models.VehicleStatusActive,
		Position: testBox.Center,
		Capacity: 40,
	}
}

func newTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := New(nil, testBox, 5, WithClock(fixedClock))
	for _, id := range ids {
		_, err := s.Register(context.Background(), newVehicle(id))
		require.NoError(t, err)
	}
	return s
}

func move(dLat float64) fleet.Mutation {
	return func(v models.VehicleState) (models.VehicleState, error) {
		v.Position.Latitude += dLat
		return v, nil
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_RegisterDuplicate(t *testing.T) {
	s := newTestStore(t, "bus-1")

	_, err := s.Register(context.Background(), newVehicle("bus-1"))

	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStore_RegisterDefaultsToInactive(t *testing.T) {
	s := newTestStore(t)
	v := newVehicle("bus-1")
	v.Status = ""

	got, err := s.Register(context.Background(), v)

	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusInactive, got.Status)
	assert.Equal(t, fixedTime, got.LastUpdated)
}

func TestStore_RegisterRejectsPositionOutsideBox(t *testing.T) {
	s := newTestStore(t)
	v := newVehicle("bus-1")
	v.Position = models.Position{Latitude: 12, Longitude: 40}

	_, err := s.Register(context.Background(), v)

	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	_, err = s.Get("bus-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_UnplacedVehicleAcceptsUpdates(t *testing.T) {
	s := newTestStore(t)
	v := newVehicle("bus-1")
	v.Position = models.Position{}
	_, err := s.Register(context.Background(), v)
	require.NoError(t, err)

	got, err := s.Update(context.Background(), "bus-1", models.ChangeSourceOccupancy,
		func(v models.VehicleState) (models.VehicleState, error) {
			v.Occupancy = 3
			return v, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Occupancy)
	assert.Equal(t, models.Position{}, got.Position)
}

func TestStore_UpdateAppliesMutation(t *testing.T) {
	s := newTestStore(t, "bus-1")

	got, err := s.Update(context.Background(), "bus-1", models.ChangeSourceTicker, move(0.001))

	require.NoError(t, err)
	assert.InDelta(t, 9.031, got.Position.Latitude, 1e-9)
	stored, _ := s.Get("bus-1")
	assert.Equal(t, got, stored)

	history, err := s.History("bus-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, got.Position, history[0].Position)
	assert.Len(t, history[0].Geohash, geohashPrecision)
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update(context.Background(), "missing", models.ChangeSourceTicker, move(0.001))

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_UpdateRejectsInvalidState(t *testing.T) {
	tests := []struct {
		name     string
		mutation fleet.Mutation
	}{
		{
			name: "occupancy above capacity",
			mutation: func(v models.VehicleState) (models.VehicleState, error) {
				v.Occupancy = v.Capacity + 1
				return v, nil
			},
		},
		{
			name: "negative occupancy",
			mutation: func(v models.VehicleState) (models.VehicleState, error) {
				v.Occupancy = -1
				return v, nil
			},
		},
		{
			name: "capacity changed",
			mutation: func(v models.VehicleState) (models.VehicleState, error) {
				v.Capacity = 100
				return v, nil
			},
		},
		{
			name:     "position outside box",
			mutation: move(1),
		},
		{
			name: "unknown status",
			mutation: func(v models.VehicleState) (models.VehicleState, error) {
				v.Status = "FLYING"
				return v, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, "bus-1")
			before, _ := s.Get("bus-1")

			_, err := s.Update(context.Background(), "bus-1", models.ChangeSourceTicker, tt.mutation)

			assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
			after, _ := s.Get("bus-1")
			assert.Equal(t, before, after)
		})
	}
}

func TestStore_UpdateNoChange(t *testing.T) {
	s := newTestStore(t, "bus-1")
	var events int
	s.OnChange(func(ctx context.Context, change models.VehicleStateChange) { events++ })

	got, err := s.Update(context.Background(), "bus-1", models.ChangeSourceTicker,
		func(v models.VehicleState) (models.VehicleState, error) { return v, fleet.ErrNoChange })

	require.NoError(t, err)
	assert.Equal(t, "bus-1", got.ID)
	assert.Zero(t, events)
	history, _ := s.History("bus-1", 0)
	assert.Empty(t, history)
}

func TestStore_HistoryIsBounded(t *testing.T) {
	s := newTestStore(t, "bus-1")

	for i := 0; i < 8; i++ {
		_, err := s.Update(context.Background(), "bus-1", models.ChangeSourceTicker, move(0.001))
		require.NoError(t, err)
	}

	history, err := s.History("bus-1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 5)
	assert.InDelta(t, 9.038, history[4].Position.Latitude, 1e-9)

	recent, _ := s.History("bus-1", 2)
	assert.Equal(t, history[3:], recent)
}

func TestStore_ListenersSeeCommitOrder(t *testing.T) {
	s := newTestStore(t, "bus-1")
	var (
		mu      sync.Mutex
		changes []models.VehicleStateChange
	)
	s.OnChange(func(ctx context.Context, change models.VehicleStateChange) {
		mu.Lock()
		changes = append(changes, change)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(context.Background(), "bus-1", models.ChangeSourceOccupancy,
				func(v models.VehicleState) (models.VehicleState, error) {
					v.Occupancy++
					return v, nil
				})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, changes, 20)
	for i, change := range changes {
		assert.Equal(t, i, change.Previous.Occupancy)
		assert.Equal(t, i+1, change.Current.Occupancy)
		assert.Equal(t, models.ChangeSourceOccupancy, change.Source)
	}
}

func TestStore_ConcurrentUpdatesKeepOccupancyInBounds(t *testing.T) {
	s := newTestStore(t, "bus-1", "bus-2")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, id := range []string{"bus-1", "bus-2"} {
			wg.Add(1)
			go func(id string, up bool) {
				defer wg.Done()
				_, _ = s.Update(context.Background(), id, models.ChangeSourceOccupancy,
					func(v models.VehicleState) (models.VehicleState, error) {
						if up {
							v.Occupancy++
						} else {
							v.Occupancy--
						}
						return v, nil
					})
			}(id, i%3 != 0)
		}
	}
	wg.Wait()

	for _, v := range s.List() {
		assert.GreaterOrEqual(t, v.Occupancy, 0)
		assert.LessOrEqual(t, v.Occupancy, v.Capacity)
	}
}

func TestStore_ListByStatus(t *testing.T) {
	s := newTestStore(t, "bus-2", "bus-1")
	_, err := s.Update(context.Background(), "bus-2", models.ChangeSourceStatus,
		func(v models.VehicleState) (models.VehicleState, error) {
			v.Status = models.VehicleStatusWaiting
			return v, nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"bus-1", "bus-2"}, ids(s.List()))
	assert.Equal(t, []string{"bus-1"}, ids(s.ListByStatus(models.VehicleStatusActive)))
	assert.Equal(t, []string{"bus-2"}, ids(s.ListByStatus(models.VehicleStatusWaiting)))
}

func ids(vs []models.VehicleState) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestStore_PersistFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockFleetRepo(ctrl)
	repo.EXPECT().LoadVehicles(gomock.Any()).Return([]models.VehicleState{newVehicle("bus-1")}, nil)

	s := New(repo, testBox, 10, WithClock(fixedClock))
	n, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	before, _ := s.Get("bus-1")

	gomock.InOrder(
		repo.EXPECT().SaveVehicle(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().AppendPosition(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		repo.EXPECT().SaveVehicle(gomock.Any(), before).Return(nil),
	)

	_, err = s.Update(context.Background(), "bus-1", models.ChangeSourceTicker, move(0.001))

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
	after, _ := s.Get("bus-1")
	assert.Equal(t, before, after)
	history, _ := s.History("bus-1", 0)
	assert.Empty(t, history)
}

func TestStore_PersistsBeforeCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockFleetRepo(ctrl)
	repo.EXPECT().SaveVehicle(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().AppendPosition(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.PositionRecord) error {
			assert.Equal(t, "bus-1", rec.VehicleID)
			assert.Equal(t, fixedTime, rec.RecordedAt)
			return nil
		})

	s := New(repo, testBox, 10, WithClock(fixedClock))
	_, err := s.Register(context.Background(), newVehicle("bus-1"))
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "bus-1", models.ChangeSourceLocationUpdate, move(0.002))
	require.NoError(t, err)
}

func TestStore_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockFleetRepo(ctrl)
	repo.EXPECT().LoadVehicles(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := New(repo, testBox, 10).Load(context.Background())

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
}
