// Package simulator moves the fleet around its operating area and rolls the
// occasional status change. Each periodic task draws from its own seeded
// random source so a run is reproducible from FLEET_SEED.
package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/pkg/scheduler"
	"github.com/piresc/busfleet/services/fleet"
)

// Task names as registered with the scheduler
const (
	TaskPositions = "fleet.positions"
	TaskStatuses  = "fleet.statuses"
	TaskBroadcast = "fleet.broadcast"
)

// vehicleSource is the part of the fleet store the simulator needs
type vehicleSource interface {
	List() []models.VehicleState
	Update(ctx context.Context, id string, source models.ChangeSource, mutation fleet.Mutation) (models.VehicleState, error)
}

// Simulator produces synthetic position and status changes
type Simulator struct {
	store vehicleSource
	cfg   models.FleetConfig
	box   models.BoundingBox

	// task-local random sources; each is only touched by its own task
	positionRand *rand.Rand
	statusRand   *rand.Rand
}

// New creates a Simulator seeded from cfg.Seed
func New(store vehicleSource, cfg models.FleetConfig) *Simulator {
	return &Simulator{
		store:        store,
		cfg:          cfg,
		box:          cfg.BoundingBox(),
		positionRand: rand.New(rand.NewSource(cfg.Seed)),
		statusRand:   rand.New(rand.NewSource(cfg.Seed + 1)),
	}
}

// Register adds the position, status and broadcast tasks to sched
func (s *Simulator) Register(sched *scheduler.Scheduler, broadcast scheduler.Task, wrap func(name string, task scheduler.Task) scheduler.Task) error {
	if wrap == nil {
		wrap = func(_ string, task scheduler.Task) scheduler.Task { return task }
	}
	tasks := []struct {
		name   string
		period time.Duration
		task   scheduler.Task
	}{
		{TaskPositions, s.cfg.PositionInterval, s.TickPositions},
		{TaskStatuses, s.cfg.StatusInterval, s.ReviewStatuses},
		{TaskBroadcast, s.cfg.BroadcastInterval, broadcast},
	}
	for _, t := range tasks {
		if err := sched.Every(t.name, t.period, wrap(t.name, t.task)); err != nil {
			return err
		}
	}
	return nil
}

// positionDraw holds the random values consumed by one vehicle on one tick
type positionDraw struct {
	dLat, dLon float64
	speed      float64
	nudge      bool
	nudgeDelta int
	placeLat   float64
	placeLon   float64
}

func (s *Simulator) drawPosition() positionDraw {
	r := s.positionRand
	d := positionDraw{
		dLat:     (r.Float64() - 0.5) * s.cfg.MaxStepDeg,
		dLon:     (r.Float64() - 0.5) * s.cfg.MaxStepDeg,
		speed:    s.cfg.MinSpeedKph + r.Float64()*(s.cfg.MaxSpeedKph-s.cfg.MinSpeedKph),
		nudge:    r.Float64() < s.cfg.OccupancyNudgeProb,
		placeLat: s.box.MinLatitude() + r.Float64()*2*s.box.HalfWidth,
		placeLon: s.box.MinLongitude() + r.Float64()*2*s.box.HalfWidth,
	}
	d.nudgeDelta = r.Intn(2*s.cfg.OccupancyMaxDelta+1) - s.cfg.OccupancyMaxDelta
	return d
}

// TickPositions moves every ACTIVE vehicle one step and places vehicles that
// have no valid position yet at a random point of the area
func (s *Simulator) TickPositions(ctx context.Context) error {
	moved := 0
	for _, v := range s.store.List() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		placed := s.box.Contains(v.Position)
		if placed && v.Status != models.VehicleStatusActive {
			continue
		}

		draw := s.drawPosition()
		_, err := s.store.Update(ctx, v.ID, models.ChangeSourceTicker, s.stepMutation(draw))
		if err != nil {
			logger.WarnCtx(ctx, "Position tick failed for vehicle",
				logger.String("vehicle_id", v.ID),
				logger.Err(err))
			continue
		}
		moved++
	}
	logger.DebugCtx(ctx, "Position tick completed", logger.Int("vehicles", moved))
	return nil
}

func (s *Simulator) stepMutation(d positionDraw) fleet.Mutation {
	return func(v models.VehicleState) (models.VehicleState, error) {
		if !s.box.Contains(v.Position) {
			v.Position = models.Position{Latitude: d.placeLat, Longitude: d.placeLon}
			return v, nil
		}
		if v.Status != models.VehicleStatusActive {
			return v, fleet.ErrNoChange
		}

		v.Position = s.box.Clamp(models.Position{
			Latitude:  v.Position.Latitude + d.dLat,
			Longitude: v.Position.Longitude + d.dLon,
		})
		v.SpeedKph = d.speed
		if d.nudge {
			v.Occupancy = clampInt(v.Occupancy+d.nudgeDelta, 0, v.Capacity)
		}
		return v, nil
	}
}

// ReviewStatuses rolls a status change for a small share of the fleet
func (s *Simulator) ReviewStatuses(ctx context.Context) error {
	for _, v := range s.store.List() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r := s.statusRand
		if r.Float64() >= s.cfg.StatusChangeProb {
			continue
		}
		next, ok := s.nextStatus(v.Status, r.Float64())
		if !ok {
			continue
		}

		from := v.Status
		updated, err := s.store.Update(ctx, v.ID, models.ChangeSourceStatus,
			func(cur models.VehicleState) (models.VehicleState, error) {
				if cur.Status != from {
					return cur, fleet.ErrNoChange
				}
				cur.Status = next
				return cur, nil
			})
		if err != nil {
			logger.WarnCtx(ctx, "Status review failed for vehicle",
				logger.String("vehicle_id", v.ID),
				logger.Err(err))
			continue
		}
		if updated.Status != next {
			continue
		}
		logger.InfoCtx(ctx, "Vehicle status changed",
			logger.String("vehicle_id", v.ID),
			logger.String("from", string(from)),
			logger.String("to", string(next)))
	}
	return nil
}

// nextStatus applies the status transition table to a uniform draw u
func (s *Simulator) nextStatus(status models.VehicleStatus, u float64) (models.VehicleStatus, bool) {
	switch status {
	case models.VehicleStatusActive:
		if u < s.cfg.ActiveToWaitingProb {
			return models.VehicleStatusWaiting, true
		}
	case models.VehicleStatusWaiting:
		return models.VehicleStatusActive, true
	case models.VehicleStatusInactive:
		if u < s.cfg.InactiveToActiveProb {
			return models.VehicleStatusActive, true
		}
	}
	return status, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
