package fleet

import (
	"context"
	"errors"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/piresc/busfleet/services/fleet Store

// ErrNoChange is returned by a Mutation to leave the vehicle untouched.
// Update then returns the current state without persisting or emitting.
var ErrNoChange = errors.New("no change")

// Mutation computes the next state of a vehicle from its current state.
// It runs inside the vehicle's critical section and must not block.
type Mutation func(current models.VehicleState) (models.VehicleState, error)

// Listener receives every committed state change, in commit order per vehicle
type Listener func(ctx context.Context, change models.VehicleStateChange)

// Store is the single owner of live vehicle state
type Store interface {
	Get(id string) (models.VehicleState, error)
	List() []models.VehicleState
	ListByStatus(status models.VehicleStatus) []models.VehicleState
	Update(ctx context.Context, id string, source models.ChangeSource, mutation Mutation) (models.VehicleState, error)
	Register(ctx context.Context, vehicle models.VehicleState) (models.VehicleState, error)
	History(id string, limit int) ([]models.PositionRecord, error)
	OnChange(listener Listener)
}
