// Package store holds the live state of every vehicle. Writes to a vehicle are
// serialized by a per-vehicle lock; listeners run inside that critical section
// so they observe a vehicle's changes in the order they were committed.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/keylock"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/fleet"
)

const geohashPrecision = 7

// Store is the in-memory fleet.Store backed by an optional FleetRepo
type Store struct {
	mu       sync.RWMutex
	vehicles map[string]models.VehicleState
	history  map[string][]models.PositionRecord

	listenersMu sync.RWMutex
	listeners   []fleet.Listener

	locks        *keylock.Locker
	repo         fleet.FleetRepo
	box          models.BoundingBox
	historyLimit int
	now          models.Clock
}

// Option customizes a Store
type Option func(*Store)

// WithClock overrides the time source used for LastUpdated and history records
func WithClock(clock models.Clock) Option {
	return func(s *Store) { s.now = clock }
}

// New creates a Store. repo may be nil for a purely in-memory fleet.
func New(repo fleet.FleetRepo, box models.BoundingBox, historyLimit int, opts ...Option) *Store {
	if historyLimit <= 0 {
		historyLimit = 1
	}
	s := &Store{
		vehicles:     make(map[string]models.VehicleState),
		history:      make(map[string][]models.PositionRecord),
		locks:        keylock.New(),
		repo:         repo,
		box:          box,
		historyLimit: historyLimit,
		now:          models.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load warm starts the store from the repository
func (s *Store) Load(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	vehicles, err := s.repo.LoadVehicles(ctx)
	if err != nil {
		return 0, apperrors.Transient("fleet repository", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vehicles {
		s.vehicles[v.ID] = v
	}
	logger.Info("Fleet loaded from repository", logger.Int("vehicles", len(vehicles)))
	return len(vehicles), nil
}

// OnChange registers a listener for committed changes
func (s *Store) OnChange(listener fleet.Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Get returns a copy of the vehicle's current state
func (s *Store) Get(id string) (models.VehicleState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return models.VehicleState{}, apperrors.NotFound("vehicle", id)
	}
	return v, nil
}

// List returns every vehicle ordered by ID
func (s *Store) List() []models.VehicleState {
	return s.filter(func(models.VehicleState) bool { return true })
}

// ListByStatus returns the vehicles in status ordered by ID
func (s *Store) ListByStatus(status models.VehicleStatus) []models.VehicleState {
	return s.filter(func(v models.VehicleState) bool { return v.Status == status })
}

func (s *Store) filter(keep func(models.VehicleState) bool) []models.VehicleState {
	s.mu.RLock()
	out := make([]models.VehicleState, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if keep(v) {
			out = append(out, v)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// History returns up to limit most recent position records, oldest first
func (s *Store) History(id string, limit int) ([]models.PositionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.vehicles[id]; !ok {
		return nil, apperrors.NotFound("vehicle", id)
	}
	records := s.history[id]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]models.PositionRecord, len(records))
	copy(out, records)
	return out, nil
}

// Register adds a new vehicle to the fleet
func (s *Store) Register(ctx context.Context, vehicle models.VehicleState) (models.VehicleState, error) {
	if vehicle.ID == "" {
		return models.VehicleState{}, fmt.Errorf("%w: vehicle id is required", apperrors.ErrInvalidInput)
	}
	if vehicle.Capacity <= 0 {
		return models.VehicleState{}, fmt.Errorf("%w: capacity must be positive", apperrors.ErrInvalidInput)
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusInactive
	}
	if err := validate(vehicle); err != nil {
		return models.VehicleState{}, err
	}
	if err := s.checkPosition(vehicle.Position); err != nil {
		return models.VehicleState{}, err
	}

	unlock := s.locks.Lock(vehicle.ID)
	defer unlock()

	s.mu.RLock()
	_, exists := s.vehicles[vehicle.ID]
	s.mu.RUnlock()
	if exists {
		return models.VehicleState{}, fmt.Errorf("%w: vehicle %s already registered", apperrors.ErrInvalidInput, vehicle.ID)
	}

	vehicle.LastUpdated = s.now()
	if s.repo != nil {
		if err := s.repo.SaveVehicle(ctx, vehicle); err != nil {
			return models.VehicleState{}, apperrors.Transient("fleet repository", err)
		}
	}

	s.mu.Lock()
	s.vehicles[vehicle.ID] = vehicle
	s.mu.Unlock()

	s.emit(ctx, models.VehicleStateChange{
		Current:   vehicle,
		Source:    models.ChangeSourceRegister,
		ChangedAt: vehicle.LastUpdated,
	})
	return vehicle, nil
}

// Update applies mutation to the vehicle inside its critical section.
// The change is persisted before it becomes visible; a persistence failure
// leaves the previous state in place.
func (s *Store) Update(ctx context.Context, id string, source models.ChangeSource, mutation fleet.Mutation) (models.VehicleState, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	prev, err := s.Get(id)
	if err != nil {
		return models.VehicleState{}, err
	}

	next, err := mutation(prev)
	if errors.Is(err, fleet.ErrNoChange) {
		return prev, nil
	}
	if err != nil {
		return models.VehicleState{}, err
	}

	if next.ID != prev.ID || next.Capacity != prev.Capacity {
		return models.VehicleState{}, fmt.Errorf("%w: id and capacity are immutable", apperrors.ErrInvalidState)
	}
	if err := validate(next); err != nil {
		return models.VehicleState{}, err
	}
	if err := s.checkPosition(next.Position); err != nil {
		return models.VehicleState{}, err
	}

	next.LastUpdated = s.now()
	record := models.PositionRecord{
		VehicleID:  next.ID,
		Position:   next.Position,
		SpeedKph:   next.SpeedKph,
		Occupancy:  next.Occupancy,
		Geohash:    utils.EncodePosition(next.Position, geohashPrecision),
		RecordedAt: next.LastUpdated,
	}

	if err := s.persist(ctx, prev, next, record); err != nil {
		return models.VehicleState{}, err
	}

	s.mu.Lock()
	s.vehicles[id] = next
	s.appendHistory(record)
	s.mu.Unlock()

	s.emit(ctx, models.VehicleStateChange{
		Previous:  prev,
		Current:   next,
		Source:    source,
		ChangedAt: next.LastUpdated,
	})
	return next, nil
}

func (s *Store) persist(ctx context.Context, prev, next models.VehicleState, record models.PositionRecord) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveVehicle(ctx, next); err != nil {
		return apperrors.Transient("fleet repository", err)
	}
	if err := s.repo.AppendPosition(ctx, record); err != nil {
		if rbErr := s.repo.SaveVehicle(ctx, prev); rbErr != nil {
			logger.Error("Failed to roll back vehicle after history write failure",
				logger.String("vehicle_id", prev.ID),
				logger.Err(rbErr))
		}
		return apperrors.Transient("fleet repository", err)
	}
	return nil
}

// appendHistory must be called with s.mu held
func (s *Store) appendHistory(record models.PositionRecord) {
	records := append(s.history[record.VehicleID], record)
	if len(records) > s.historyLimit {
		trimmed := make([]models.PositionRecord, s.historyLimit)
		copy(trimmed, records[len(records)-s.historyLimit:])
		records = trimmed
	}
	s.history[record.VehicleID] = records
}

func (s *Store) emit(ctx context.Context, change models.VehicleStateChange) {
	s.listenersMu.RLock()
	listeners := make([]fleet.Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener(ctx, change)
	}
}

// checkPosition rejects positions outside the operating area. The zero
// position marks a vehicle that has not been placed yet.
func (s *Store) checkPosition(p models.Position) error {
	if p == (models.Position{}) || s.box.Contains(p) {
		return nil
	}
	return fmt.Errorf("%w: position %.6f,%.6f outside operating area",
		apperrors.ErrInvalidState, p.Latitude, p.Longitude)
}

func validate(v models.VehicleState) error {
	if !v.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidState, v.Status)
	}
	if v.Occupancy < 0 || v.Occupancy > v.Capacity {
		return fmt.Errorf("%w: occupancy %d outside [0, %d]", apperrors.ErrInvalidState, v.Occupancy, v.Capacity)
	}
	return nil
}
