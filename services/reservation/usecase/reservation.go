package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/keylock"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/metrics"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/fleet"
	"github.com/piresc/busfleet/services/reservation"
)

const (
	confirmationPrefix = "ETH"
	confirmationDigits = 6
	receiptPrefix      = "RCP"
	receiptDigits      = 10
	codeAttempts       = 10

	defaultCancelReason = "cancelled by passenger"
)

var validate = validator.New()

// ReservationUC implements the admission controller and the reservation
// lifecycle. Every decision touching a slot runs under that slot's lock.
type ReservationUC struct {
	fleetUC  fleet.FleetUC
	ledger   reservation.Ledger
	repo     reservation.ReservationRepo
	payment  reservation.PaymentGW
	events   reservation.ReservationEventsGW
	notifier reservation.LifecycleNotifier
	locks    *keylock.Locker
	now      models.Clock
}

// NewReservationUC creates a new reservation use case. repo, events and
// notifier may be nil.
func NewReservationUC(
	fleetUC fleet.FleetUC,
	ledger reservation.Ledger,
	repo reservation.ReservationRepo,
	payment reservation.PaymentGW,
	events reservation.ReservationEventsGW,
	notifier reservation.LifecycleNotifier,
) *ReservationUC {
	return &ReservationUC{
		fleetUC:  fleetUC,
		ledger:   ledger,
		repo:     repo,
		payment:  payment,
		events:   events,
		notifier: notifier,
		locks:    keylock.New(),
		now:      models.Now,
	}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
}

func record(operation string, err error) {
	metrics.ReservationsTotal.WithLabelValues(operation, metrics.Outcome(err)).Inc()
}

// Load fills the ledger from the repository
func (uc *ReservationUC) Load(ctx context.Context) (int, error) {
	if uc.repo == nil {
		return 0, nil
	}
	stored, err := uc.repo.ListReservations(ctx, nil)
	if err != nil {
		return 0, apperrors.Transient("reservation repository", err)
	}
	for _, r := range stored {
		uc.ledger.Put(r)
	}
	return len(stored), nil
}

// Reserve admits a passenger onto a vehicle's departure slot
func (uc *ReservationUC) Reserve(ctx context.Context, req *models.ReserveRequest) (*models.Reservation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	created, err := uc.admit(ctx, models.NewSlotKey(req.VehicleID, req.Slot), req)
	record("reserve", err)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Reservation created",
		logger.String("reservation_id", created.ID),
		logger.String("vehicle_id", created.VehicleID),
		logger.Time("slot", created.Slot),
		logger.Int("seat", created.SeatNumber))
	uc.announce(ctx, models.NotificationReservationConfirmation, created)
	return created, nil
}

func (uc *ReservationUC) admit(ctx context.Context, key models.SlotKey, req *models.ReserveRequest) (*models.Reservation, error) {
	unlock, err := uc.locks.LockContext(ctx, key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	vehicle, err := uc.fleetUC.GetVehicle(ctx, key.VehicleID)
	if err != nil {
		return nil, err
	}

	active := uc.ledger.Active(key)
	if len(active) >= vehicle.Capacity {
		return nil, fmt.Errorf("%w: %d of %d seats taken on %s", apperrors.ErrCapacityExceeded,
			len(active), vehicle.Capacity, key)
	}

	code, err := uc.newConfirmationCode()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	r := &models.Reservation{
		ID:               uuid.New().String(),
		PassengerID:      req.PassengerID,
		VehicleID:        key.VehicleID,
		Slot:             key.Slot,
		BoardingStop:     req.BoardingStop,
		AlightingStop:    req.AlightingStop,
		SeatNumber:       smallestFreeSeat(active),
		Status:           models.ReservationStatusPending,
		ConfirmationCode: code,
		QRCode:           uuid.New().String(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.save(ctx, r); err != nil {
		return nil, err
	}
	uc.ledger.Put(r)
	return r.Clone(), nil
}

// smallestFreeSeat returns the lowest seat number not held in active, which
// is sorted by seat number
func smallestFreeSeat(active []*models.Reservation) int {
	seat := 1
	for _, r := range active {
		if r.SeatNumber == seat {
			seat++
		} else if r.SeatNumber > seat {
			break
		}
	}
	return seat
}

func (uc *ReservationUC) newConfirmationCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := utils.GenerateNumericCode(confirmationPrefix, confirmationDigits)
		if err != nil {
			return "", err
		}
		if !uc.ledger.CodeTaken(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique confirmation code after %d attempts", codeAttempts)
}

// Confirm applies a payment outcome to a reservation. Outcomes arriving after
// the reservation has already moved on are ignored.
func (uc *ReservationUC) Confirm(ctx context.Context, reservationID string, outcome models.PaymentOutcome) (*models.Reservation, error) {
	updated, changed, err := uc.mutate(ctx, reservationID, func(r *models.Reservation) (bool, error) {
		switch r.Status {
		case models.ReservationStatusConfirmed, models.ReservationStatusBoarding, models.ReservationStatusCompleted:
			return false, nil
		case models.ReservationStatusCancelled, models.ReservationStatusNoShow, models.ReservationStatusRefunded:
			if !outcome.Succeeded {
				return false, nil
			}
		}

		if !outcome.Succeeded {
			if err := fire(ctx, r, EventFailPayment); err != nil {
				return false, err
			}
			r.Payment = &models.PaymentInfo{
				Amount:        outcome.Amount,
				Method:        outcome.Method,
				Status:        models.PaymentStatusFailed,
				TransactionID: outcome.TransactionID,
			}
			r.CancelReason = "payment failed"
			if outcome.FailureReason != "" {
				r.CancelReason += ": " + outcome.FailureReason
			}
			return true, nil
		}

		if err := fire(ctx, r, EventConfirm); err != nil {
			return false, err
		}
		receipt, err := utils.GenerateNumericCode(receiptPrefix, receiptDigits)
		if err != nil {
			return false, err
		}
		r.Payment = &models.PaymentInfo{
			Amount:        outcome.Amount,
			Method:        outcome.Method,
			Status:        models.PaymentStatusCompleted,
			TransactionID: outcome.TransactionID,
			ReceiptNumber: receipt,
			PaidAt:        uc.now(),
		}
		return true, nil
	})
	record("confirm", err)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidStateTransition) {
			logger.WarnCtx(ctx, "Rejected payment outcome",
				logger.String("reservation_id", reservationID),
				logger.Bool("succeeded", outcome.Succeeded),
				logger.Err(err))
		}
		return nil, err
	}
	if !changed {
		return updated, nil
	}

	kind := models.NotificationPaymentSuccess
	if updated.Status == models.ReservationStatusCancelled {
		kind = models.NotificationPaymentFailure
	}
	logger.InfoCtx(ctx, "Payment outcome applied",
		logger.String("reservation_id", updated.ID),
		logger.String("status", string(updated.Status)))
	uc.announce(ctx, kind, updated)
	return updated, nil
}

// Pay charges the passenger and confirms the reservation. A failed charge
// cancels the reservation and the charge error is returned.
func (uc *ReservationUC) Pay(ctx context.Context, reservationID string, req *models.PayRequest) (*models.Reservation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}
	if !req.Method.Valid() {
		return nil, invalidInput(fmt.Errorf("unsupported payment method %q", req.Method))
	}

	// one charge in flight per reservation
	unlock, err := uc.locks.LockContext(ctx, "pay:"+reservationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r, err := uc.ledger.Get(reservationID)
	if err != nil {
		return nil, err
	}
	if r.Status != models.ReservationStatusPending {
		record("pay", apperrors.ErrInvalidStateTransition)
		return nil, apperrors.InvalidTransition(string(r.Status), "pay")
	}

	txnID, chargeErr := uc.payment.Charge(ctx, req.Amount, req.Method, r.ID)
	if chargeErr != nil {
		record("pay", chargeErr)
		logger.WarnCtx(ctx, "Charge failed, cancelling reservation",
			logger.String("reservation_id", r.ID),
			logger.String("method", string(req.Method)),
			logger.Err(chargeErr))
		failed := models.PaymentOutcome{Amount: req.Amount, Method: req.Method, FailureReason: chargeErr.Error()}
		if _, err := uc.Confirm(ctx, r.ID, failed); err != nil {
			logger.ErrorCtx(ctx, "Failed to cancel reservation after charge failure",
				logger.String("reservation_id", r.ID),
				logger.Err(err))
		}
		return nil, chargeErr
	}

	confirmed, err := uc.Confirm(ctx, r.ID, models.PaymentOutcome{
		Succeeded:     true,
		TransactionID: txnID,
		Amount:        req.Amount,
		Method:        req.Method,
	})
	if err != nil && errors.Is(err, apperrors.ErrInvalidStateTransition) {
		// cancelled while the charge was in flight
		if _, refundErr := uc.payment.Refund(ctx, txnID, req.Amount); refundErr != nil {
			logger.ErrorCtx(ctx, "Failed to refund orphaned charge",
				logger.String("reservation_id", r.ID),
				logger.String("transaction_id", txnID),
				logger.Err(refundErr))
		}
	}
	record("pay", err)
	return confirmed, err
}

// Cancel releases the seat, refunding a confirmed payment first
func (uc *ReservationUC) Cancel(ctx context.Context, reservationID, reason string) (*models.Reservation, error) {
	if reason == "" {
		reason = defaultCancelReason
	}

	refunded := false
	updated, _, err := uc.mutate(ctx, reservationID, func(r *models.Reservation) (bool, error) {
		if r.Payment != nil && r.Payment.Refunded {
			return false, fmt.Errorf("%w: reservation %s", apperrors.ErrAlreadyRefunded, r.ID)
		}
		wasConfirmed := r.Status == models.ReservationStatusConfirmed
		if !can(r.Status, EventCancel) {
			return false, apperrors.InvalidTransition(string(r.Status), EventCancel)
		}

		if wasConfirmed && r.Payment != nil && r.Payment.TransactionID != "" {
			confirmation, err := uc.payment.Refund(ctx, r.Payment.TransactionID, r.Payment.Amount)
			if err != nil {
				return false, err
			}
			at := uc.now()
			r.Payment.Refunded = true
			r.Payment.RefundConfirmation = confirmation
			r.Payment.RefundedAt = &at
			r.Payment.Status = models.PaymentStatusRefunded
			refunded = true
		}
		if err := fire(ctx, r, EventCancel); err != nil {
			return false, err
		}
		r.CancelReason = reason
		return true, nil
	})
	record("cancel", err)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidStateTransition) {
			logger.WarnCtx(ctx, "Rejected cancellation",
				logger.String("reservation_id", reservationID),
				logger.Err(err))
		}
		return nil, err
	}

	logger.InfoCtx(ctx, "Reservation cancelled",
		logger.String("reservation_id", updated.ID),
		logger.Bool("refunded", refunded))
	uc.announce(ctx, models.NotificationReservationCancelled, updated)
	if refunded {
		uc.notify(ctx, models.NotificationRefundProcessed, updated)
	}
	return updated, nil
}

// CheckIn boards the passenger holding confirmationCode
func (uc *ReservationUC) CheckIn(ctx context.Context, confirmationCode string) (*models.Reservation, error) {
	found, err := uc.ledger.GetByCode(confirmationCode)
	if err != nil {
		return nil, err
	}

	r, unlock, err := uc.acquire(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := fire(ctx, r, EventCheckIn); err != nil {
		record("check_in", err)
		logger.WarnCtx(ctx, "Rejected check-in",
			logger.String("reservation_id", r.ID),
			logger.Err(err))
		return nil, err
	}
	if _, err := uc.fleetUC.AdjustOccupancy(ctx, r.VehicleID, 1); err != nil {
		record("check_in", err)
		if errors.Is(err, apperrors.ErrInvalidState) {
			logger.ErrorCtx(ctx, "Check-in would exceed vehicle capacity",
				logger.String("reservation_id", r.ID),
				logger.String("vehicle_id", r.VehicleID),
				logger.Err(err))
			return nil, fmt.Errorf("occupancy overflow on vehicle %s: %v", r.VehicleID, err)
		}
		return nil, err
	}
	if err := uc.commit(ctx, r); err != nil {
		record("check_in", err)
		if _, undoErr := uc.fleetUC.AdjustOccupancy(ctx, r.VehicleID, -1); undoErr != nil {
			logger.ErrorCtx(ctx, "Failed to roll back occupancy",
				logger.String("vehicle_id", r.VehicleID),
				logger.Err(undoErr))
		}
		return nil, err
	}
	record("check_in", nil)

	logger.InfoCtx(ctx, "Passenger checked in",
		logger.String("reservation_id", r.ID),
		logger.String("vehicle_id", r.VehicleID),
		logger.Int("seat", r.SeatNumber))
	uc.publish(ctx, r)
	return r.Clone(), nil
}

// Complete closes a trip and frees the passenger's place on the vehicle
func (uc *ReservationUC) Complete(ctx context.Context, reservationID string) (*models.Reservation, error) {
	r, unlock, err := uc.acquire(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := fire(ctx, r, EventComplete); err != nil {
		record("complete", err)
		return nil, err
	}
	alighted := true
	if _, err := uc.fleetUC.AdjustOccupancy(ctx, r.VehicleID, -1); err != nil {
		// occupancy is also moved by the simulator and may already be zero
		alighted = false
		logger.WarnCtx(ctx, "Could not decrement occupancy on completion",
			logger.String("vehicle_id", r.VehicleID),
			logger.Err(err))
	}
	if err := uc.commit(ctx, r); err != nil {
		record("complete", err)
		if alighted {
			if _, undoErr := uc.fleetUC.AdjustOccupancy(ctx, r.VehicleID, 1); undoErr != nil {
				logger.ErrorCtx(ctx, "Failed to roll back occupancy",
					logger.String("vehicle_id", r.VehicleID),
					logger.Err(undoErr))
			}
		}
		return nil, err
	}
	record("complete", nil)
	uc.publish(ctx, r)
	return r.Clone(), nil
}

// MarkNoShow records that a confirmed passenger never boarded
func (uc *ReservationUC) MarkNoShow(ctx context.Context, reservationID string) (*models.Reservation, error) {
	updated, _, err := uc.mutate(ctx, reservationID, func(r *models.Reservation) (bool, error) {
		return true, fire(ctx, r, EventNoShow)
	})
	record("no_show", err)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, updated)
	return updated, nil
}

// GetReservation returns one reservation
func (uc *ReservationUC) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	return uc.ledger.Get(reservationID)
}

// ListByPassenger returns a passenger's reservations, latest departure first
func (uc *ReservationUC) ListByPassenger(ctx context.Context, passengerID string) ([]*models.Reservation, error) {
	if passengerID == "" {
		return nil, invalidInput(fmt.Errorf("passenger id is required"))
	}
	return uc.ledger.ByPassenger(passengerID), nil
}

// Availability reports seat usage of a vehicle's departure slot
func (uc *ReservationUC) Availability(ctx context.Context, vehicleID string, slot time.Time) (*models.Availability, error) {
	if slot.IsZero() {
		return nil, invalidInput(fmt.Errorf("slot is required"))
	}
	vehicle, err := uc.fleetUC.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	key := models.NewSlotKey(vehicleID, slot)
	reserved := len(uc.ledger.Active(key))
	available := vehicle.Capacity - reserved
	if available < 0 {
		available = 0
	}
	return &models.Availability{
		VehicleID: vehicleID,
		Slot:      key.Slot,
		Capacity:  vehicle.Capacity,
		Reserved:  reserved,
		Available: available,
	}, nil
}

// acquire locks the reservation's slot and returns a fresh copy read under it
func (uc *ReservationUC) acquire(ctx context.Context, reservationID string) (*models.Reservation, func(), error) {
	r, err := uc.ledger.Get(reservationID)
	if err != nil {
		return nil, nil, err
	}
	unlock, err := uc.locks.LockContext(ctx, r.Key().String())
	if err != nil {
		return nil, nil, err
	}
	if r, err = uc.ledger.Get(reservationID); err != nil {
		unlock()
		return nil, nil, err
	}
	return r, unlock, nil
}

// mutate runs fn on a copy of the reservation under its slot lock and commits
// the copy when fn reports a change
func (uc *ReservationUC) mutate(ctx context.Context, reservationID string, fn func(r *models.Reservation) (bool, error)) (*models.Reservation, bool, error) {
	r, unlock, err := uc.acquire(ctx, reservationID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	current := r.Clone()
	changed, err := fn(r)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return current, false, nil
	}
	if err := uc.commit(ctx, r); err != nil {
		return nil, false, err
	}
	return r.Clone(), true, nil
}

// commit persists r and then makes it visible in the ledger
func (uc *ReservationUC) commit(ctx context.Context, r *models.Reservation) error {
	r.UpdatedAt = uc.now()
	if err := uc.save(ctx, r); err != nil {
		return err
	}
	uc.ledger.Put(r)
	return nil
}

func (uc *ReservationUC) save(ctx context.Context, r *models.Reservation) error {
	if uc.repo == nil {
		return nil
	}
	if err := uc.repo.SaveReservation(ctx, r); err != nil {
		logger.ErrorCtx(ctx, "Failed to persist reservation",
			logger.String("reservation_id", r.ID),
			logger.Err(err))
		if apperrors.IsRetryable(err) {
			return err
		}
		return apperrors.Transient("reservation repository", err)
	}
	return nil
}

// announce notifies the passenger and publishes the reservation
func (uc *ReservationUC) announce(ctx context.Context, kind models.NotificationKind, r *models.Reservation) {
	uc.notify(ctx, kind, r)
	uc.publish(ctx, r)
}

func (uc *ReservationUC) notify(ctx context.Context, kind models.NotificationKind, r *models.Reservation) {
	if uc.notifier != nil {
		uc.notifier.NotifyReservation(ctx, kind, r.Clone())
	}
}

func (uc *ReservationUC) publish(ctx context.Context, r *models.Reservation) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishReservationUpdated(ctx, r); err != nil {
		logger.WarnCtx(ctx, "Failed to publish reservation update",
			logger.String("reservation_id", r.ID),
			logger.Err(err))
	}
}
