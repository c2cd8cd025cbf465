package usecase

import (
	"context"

	"github.com/looplab/fsm"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
)

// Reservation lifecycle events
const (
	EventConfirm     = "confirm"
	EventFailPayment = "fail_payment"
	EventCancel      = "cancel"
	EventCheckIn     = "check_in"
	EventComplete    = "complete"
	EventNoShow      = "no_show"
)

var lifecycleEvents = fsm.Events{
	{Name: EventConfirm, Src: []string{string(models.ReservationStatusPending)}, Dst: string(models.ReservationStatusConfirmed)},
	{Name: EventFailPayment, Src: []string{string(models.ReservationStatusPending)}, Dst: string(models.ReservationStatusCancelled)},
	{Name: EventCancel, Src: []string{
		string(models.ReservationStatusPending),
		string(models.ReservationStatusConfirmed),
	}, Dst: string(models.ReservationStatusCancelled)},
	{Name: EventCheckIn, Src: []string{string(models.ReservationStatusConfirmed)}, Dst: string(models.ReservationStatusBoarding)},
	{Name: EventComplete, Src: []string{string(models.ReservationStatusBoarding)}, Dst: string(models.ReservationStatusCompleted)},
	{Name: EventNoShow, Src: []string{string(models.ReservationStatusConfirmed)}, Dst: string(models.ReservationStatusNoShow)},
}

// fire moves r through event. The machine is rebuilt from r.Status on every
// call; the ledger copy is the only state.
func fire(ctx context.Context, r *models.Reservation, event string) error {
	machine := fsm.NewFSM(string(r.Status), lifecycleEvents, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			r.Status = models.ReservationStatus(e.Dst)
		},
	})
	if err := machine.Event(ctx, event); err != nil {
		return apperrors.InvalidTransition(string(r.Status), event)
	}
	return nil
}

// can reports whether event is legal from status
func can(status models.ReservationStatus, event string) bool {
	return fsm.NewFSM(string(status), lifecycleEvents, fsm.Callbacks{}).Can(event)
}
