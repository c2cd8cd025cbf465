// Package ledger keeps every reservation in memory, indexed by id,
// confirmation code, slot, vehicle and passenger. It performs no admission
// logic itself; callers serialize writes per slot and the ledger only
// guarantees that each read sees a consistent index.
package ledger

import (
	"sort"
	"sync"

	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
)

// Ledger is an in-memory reservation index
type Ledger struct {
	mu          sync.RWMutex
	byID        map[string]*models.Reservation
	byCode      map[string]string
	bySlot      map[string][]string
	byVehicle   map[string][]string
	byPassenger map[string][]string
}

// New creates an empty Ledger
func New() *Ledger {
	return &Ledger{
		byID:        make(map[string]*models.Reservation),
		byCode:      make(map[string]string),
		bySlot:      make(map[string][]string),
		byVehicle:   make(map[string][]string),
		byPassenger: make(map[string][]string),
	}
}

// Put inserts a reservation or replaces the stored copy with the same id.
// Vehicle, slot and passenger of a reservation never change.
func (l *Ledger) Put(r *models.Reservation) {
	stored := r.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, exists := l.byID[stored.ID]
	l.byID[stored.ID] = stored
	if exists {
		if prev.ConfirmationCode != stored.ConfirmationCode {
			delete(l.byCode, prev.ConfirmationCode)
		}
	} else {
		slot := stored.Key().String()
		l.bySlot[slot] = append(l.bySlot[slot], stored.ID)
		l.byVehicle[stored.VehicleID] = append(l.byVehicle[stored.VehicleID], stored.ID)
		l.byPassenger[stored.PassengerID] = append(l.byPassenger[stored.PassengerID], stored.ID)
	}
	if stored.ConfirmationCode != "" {
		l.byCode[stored.ConfirmationCode] = stored.ID
	}
}

// Get returns a copy of the reservation with id
func (l *Ledger) Get(id string) (*models.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.byID[id]
	if !ok {
		return nil, apperrors.NotFound("reservation", id)
	}
	return r.Clone(), nil
}

// GetByCode returns a copy of the reservation issued with code
func (l *Ledger) GetByCode(code string) (*models.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.byCode[code]
	if !ok {
		return nil, apperrors.NotFound("confirmation code", code)
	}
	return l.byID[id].Clone(), nil
}

// CodeTaken reports whether a confirmation code has been issued
func (l *Ledger) CodeTaken(code string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.byCode[code]
	return ok
}

// Active returns the reservations holding a seat in the slot ordered by seat
func (l *Ledger) Active(key models.SlotKey) []*models.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*models.Reservation
	for _, id := range l.bySlot[key.String()] {
		if r := l.byID[id]; r.Status.HoldsSeat() {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out
}

// ByVehicle returns the vehicle's reservations whose status is one of
// statuses (all of them when none are given), by slot then seat
func (l *Ledger) ByVehicle(vehicleID string, statuses ...models.ReservationStatus) []*models.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*models.Reservation
	for _, id := range l.byVehicle[vehicleID] {
		r := l.byID[id]
		if len(statuses) == 0 || hasStatus(statuses, r.Status) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Slot.Equal(out[j].Slot) {
			return out[i].Slot.Before(out[j].Slot)
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out
}

// ByPassenger returns the passenger's reservations, latest slot first
func (l *Ledger) ByPassenger(passengerID string) []*models.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.Reservation, 0, len(l.byPassenger[passengerID]))
	for _, id := range l.byPassenger[passengerID] {
		out = append(out, l.byID[id].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Slot.Equal(out[j].Slot) {
			return out[i].Slot.After(out[j].Slot)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of reservations held
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

func hasStatus(statuses []models.ReservationStatus, s models.ReservationStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
