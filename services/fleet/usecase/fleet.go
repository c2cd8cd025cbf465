package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/metrics"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/fleet"
)

const defaultHistoryLimit = 50

var validate = validator.New()

// FleetUC implements the fleet use case interface
type FleetUC struct {
	store fleet.Store
	cache fleet.FleetCache
	gw    fleet.FleetGW
	now   models.Clock
}

// NewFleetUC creates a new fleet use case. cache may be nil, in which case
// nearby queries are answered from the store.
func NewFleetUC(store fleet.Store, cache fleet.FleetCache, gw fleet.FleetGW) *FleetUC {
	return &FleetUC{
		store: store,
		cache: cache,
		gw:    gw,
		now:   models.Now,
	}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
}

// RegisterVehicle adds a vehicle to the fleet
func (uc *FleetUC) RegisterVehicle(ctx context.Context, req *models.RegisterVehicleRequest) (*models.VehicleState, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, invalidInput(fmt.Errorf("unknown status %q", req.Status))
	}

	vehicle := models.VehicleState{
		ID:       req.ID,
		Number:   strings.ToUpper(strings.TrimSpace(req.Number)),
		RouteID:  req.RouteID,
		Status:   req.Status,
		Capacity: req.Capacity,
	}
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	if req.Position != nil {
		vehicle.Position = *req.Position
	}

	registered, err := uc.store.Register(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Vehicle registered",
		logger.String("vehicle_id", registered.ID),
		logger.String("number", registered.Number),
		logger.Int("capacity", registered.Capacity))
	return &registered, nil
}

// GetVehicle returns the current state of a vehicle
func (uc *FleetUC) GetVehicle(ctx context.Context, vehicleID string) (*models.VehicleState, error) {
	v, err := uc.store.Get(vehicleID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVehicles returns the fleet, optionally filtered by status
func (uc *FleetUC) ListVehicles(ctx context.Context, status models.VehicleStatus) ([]models.VehicleState, error) {
	if status == "" {
		return uc.store.List(), nil
	}
	if !status.Valid() {
		return nil, invalidInput(fmt.Errorf("unknown status %q", status))
	}
	return uc.store.ListByStatus(status), nil
}

// GetHistory returns the most recent position records of a vehicle
func (uc *FleetUC) GetHistory(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return uc.store.History(vehicleID, limit)
}

// GetStats counts the fleet by status
func (uc *FleetUC) GetStats(ctx context.Context) (*models.FleetStats, error) {
	vehicles := uc.store.List()
	stats := &models.FleetStats{
		Total:    len(vehicles),
		ByStatus: make(map[models.VehicleStatus]int),
	}
	for _, v := range vehicles {
		stats.ByStatus[v.Status]++
	}
	return stats, nil
}

// UpdateLocation applies a reported position inside the vehicle's critical section
func (uc *FleetUC) UpdateLocation(ctx context.Context, vehicleID string, req *models.LocationUpdateRequest) (*models.VehicleState, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	updated, err := uc.store.Update(ctx, vehicleID, models.ChangeSourceLocationUpdate,
		func(v models.VehicleState) (models.VehicleState, error) {
			v.Position = models.Position{Latitude: req.Latitude, Longitude: req.Longitude}
			v.SpeedKph = req.SpeedKph
			if req.NextStop != "" {
				v.NextStop = req.NextStop
			}
			return v, nil
		})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus sets the operational status of a vehicle
func (uc *FleetUC) UpdateStatus(ctx context.Context, vehicleID string, status models.VehicleStatus) (*models.VehicleState, error) {
	if !status.Valid() {
		return nil, invalidInput(fmt.Errorf("unknown status %q", status))
	}

	updated, err := uc.store.Update(ctx, vehicleID, models.ChangeSourceStatus,
		func(v models.VehicleState) (models.VehicleState, error) {
			if v.Status == status {
				return v, fleet.ErrNoChange
			}
			v.Status = status
			return v, nil
		})
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Vehicle status updated",
		logger.String("vehicle_id", vehicleID),
		logger.String("status", string(updated.Status)))
	return &updated, nil
}

// AdjustOccupancy changes the number of passengers on board by delta
func (uc *FleetUC) AdjustOccupancy(ctx context.Context, vehicleID string, delta int) (*models.VehicleState, error) {
	updated, err := uc.store.Update(ctx, vehicleID, models.ChangeSourceOccupancy,
		func(v models.VehicleState) (models.VehicleState, error) {
			v.Occupancy += delta
			return v, nil
		})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindNearby returns vehicles within radiusKm of center, nearest first
func (uc *FleetUC) FindNearby(ctx context.Context, center models.Position, radiusKm float64) ([]models.NearbyVehicle, error) {
	if radiusKm <= 0 {
		return nil, invalidInput(fmt.Errorf("radius must be positive"))
	}
	if uc.cache != nil {
		nearby, err := uc.cache.FindNearby(ctx, center, radiusKm)
		if err == nil {
			return nearby, nil
		}
		logger.WarnCtx(ctx, "Fleet cache unavailable, scanning store", logger.Err(err))
	}

	var nearby []models.NearbyVehicle
	for _, v := range uc.store.ListByStatus(models.VehicleStatusActive) {
		d := utils.DistanceKm(center, v.Position)
		if d <= radiusKm {
			nearby = append(nearby, models.NearbyVehicle{VehicleID: v.ID, Position: v.Position, DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	return nearby, nil
}

// BroadcastFleetSnapshot publishes every ACTIVE vehicle and refreshes the fleet gauges
func (uc *FleetUC) BroadcastFleetSnapshot(ctx context.Context) error {
	all := uc.store.List()
	counts := make(map[models.VehicleStatus]int)
	active := make([]models.VehicleState, 0, len(all))
	for _, v := range all {
		counts[v.Status]++
		if v.Status == models.VehicleStatusActive {
			active = append(active, v)
		}
	}
	for _, status := range []models.VehicleStatus{
		models.VehicleStatusActive, models.VehicleStatusInactive, models.VehicleStatusMaintenance,
		models.VehicleStatusEmergency, models.VehicleStatusDelayed, models.VehicleStatusWaiting,
	} {
		metrics.VehiclesByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	snapshot := models.FleetSnapshot{Vehicles: active, GeneratedAt: uc.now()}
	if err := uc.gw.PublishSnapshot(ctx, snapshot); err != nil {
		return err
	}
	logger.DebugCtx(ctx, "Fleet snapshot broadcast", logger.Int("vehicles", len(active)))
	return nil
}

// HandleStateChange refreshes the live cache and announces the change.
// Failures are logged; the store has already committed the change.
func (uc *FleetUC) HandleStateChange(ctx context.Context, change models.VehicleStateChange) {
	metrics.StateChangesTotal.WithLabelValues(string(change.Source)).Inc()

	if uc.cache != nil {
		var err error
		if change.Current.Status == models.VehicleStatusActive {
			err = uc.cache.CacheVehicle(ctx, change.Current)
		} else if change.Previous.Status == models.VehicleStatusActive {
			err = uc.cache.RemoveVehicle(ctx, change.Current.ID)
		}
		if err != nil {
			logger.WarnCtx(ctx, "Failed to refresh fleet cache",
				logger.String("vehicle_id", change.Current.ID),
				logger.Err(err))
		}
	}
	if err := uc.gw.PublishVehicleUpdated(ctx, change); err != nil {
		logger.WarnCtx(ctx, "Failed to publish vehicle update",
			logger.String("vehicle_id", change.Current.ID),
			logger.Err(err))
	}
}
