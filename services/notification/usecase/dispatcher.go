// Package usecase implements the notification dispatcher: proximity-triggered
// arrival alerts delivered through a bounded outbox, and synchronous lifecycle
// and emergency messages.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/eta"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/metrics"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/notification"
)

const (
	defaultDistanceThresholdKm = 2.0
	defaultETAThresholdMinutes = 5.0
	defaultOutboxSize          = 256
	defaultWorkers             = 4
	defaultArrivalWindow       = 2 * time.Hour
)

// Delivery results reported in metrics
const (
	resultDelivered = "delivered"
	resultFailed    = "failed"
	resultDropped   = "dropped"
)

var validate = validator.New()

// Dispatcher implements the notification use case interface
type Dispatcher struct {
	reservations notification.ReservationSource
	stops        notification.StopCatalog
	estimator    eta.Estimator
	notifier     notification.Notifier
	repo         notification.NotificationRepo
	alerts       notification.AlertGW
	cfg          models.NotificationConfig
	now          models.Clock

	// mu guards events, closed and sends on outbox
	mu     sync.Mutex
	events map[string]*models.NotificationEvent
	outbox chan *models.NotificationEvent
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher creates a new notification dispatcher. repo and alerts may be
// nil; without a repository every passenger is reached by push only.
func NewDispatcher(
	cfg models.NotificationConfig,
	reservations notification.ReservationSource,
	stops notification.StopCatalog,
	estimator eta.Estimator,
	notifier notification.Notifier,
	repo notification.NotificationRepo,
	alerts notification.AlertGW,
) *Dispatcher {
	if cfg.DistanceThresholdKm <= 0 {
		cfg.DistanceThresholdKm = defaultDistanceThresholdKm
	}
	if cfg.ETAThresholdMinutes <= 0 {
		cfg.ETAThresholdMinutes = defaultETAThresholdMinutes
	}
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = defaultOutboxSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.ArrivalWindow <= 0 {
		cfg.ArrivalWindow = defaultArrivalWindow
	}

	return &Dispatcher{
		reservations: reservations,
		stops:        stops,
		estimator:    estimator,
		notifier:     notifier,
		repo:         repo,
		alerts:       alerts,
		cfg:          cfg,
		now:          models.Now,
		events:       make(map[string]*models.NotificationEvent),
		outbox:       make(chan *models.NotificationEvent, cfg.OutboxSize),
	}
}

// Start launches the outbox workers. Deliveries use ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		for i := 0; i < d.cfg.Workers; i++ {
			d.wg.Add(1)
			go d.worker(ctx)
		}
		logger.Info("Notification dispatcher started", logger.Int("workers", d.cfg.Workers))
	})
}

// Stop closes the outbox and waits for queued notifications to be delivered.
// Events triggered after Stop are marked sent and dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.outbox)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for event := range d.outbox {
		metrics.OutboxDepth.Dec()
		d.deliver(ctx, event)
	}
}

// OnStateChange is registered as a fleet store listener. It runs inside the
// vehicle's critical section, so it only evaluates and enqueues. Arrival is
// checked on every change since speed and status affect it as much as position.
func (d *Dispatcher) OnStateChange(ctx context.Context, change models.VehicleStateChange) {
	vehicle := change.Current
	if vehicle.Status == models.VehicleStatusDelayed && change.Previous.Status != models.VehicleStatusDelayed {
		d.delayAlerts(vehicle)
	}

	now := d.now()
	for _, r := range d.reservations.ByVehicle(vehicle.ID, models.ReservationStatusConfirmed) {
		key := arrivalKey(r.ID)
		if d.IsSent(key) || !d.departsSoon(r, now) || !headingTo(vehicle, r.BoardingStop) {
			continue
		}

		stop, ok := d.stops.Lookup(r.BoardingStop)
		if !ok {
			logger.Debug("Unknown boarding stop, skipping arrival check",
				logger.String("reservation_id", r.ID),
				logger.String("stop", r.BoardingStop))
			continue
		}

		estimate, err := d.estimator.Estimate(ctx, vehicle.Position, stop.Position(), vehicle.SpeedKph)
		if err != nil {
			logger.WarnCtx(ctx, "ETA estimation failed",
				logger.String("vehicle_id", vehicle.ID),
				logger.String("stop", stop.Name),
				logger.Err(err))
			continue
		}
		if !d.arriving(estimate) {
			continue
		}

		d.markSentAndEnqueue(arrivalEvent(key, vehicle, r, stop, estimate, now))
	}
}

// departsSoon reports whether r's departure is within the arrival window of
// now, either side. Passes near the stop outside it do not use up the alert.
func (d *Dispatcher) departsSoon(r *models.Reservation, now time.Time) bool {
	return !r.Slot.Before(now.Add(-d.cfg.ArrivalWindow)) && !r.Slot.After(now.Add(d.cfg.ArrivalWindow))
}

// headingTo matches the vehicle's reported next stop. Vehicles that have not
// reported one match every stop.
func headingTo(vehicle models.VehicleState, stop string) bool {
	return vehicle.NextStop == "" || strings.EqualFold(vehicle.NextStop, stop)
}

// arriving applies the proximity rule: closer than the distance threshold,
// or no further away than the ETA threshold
func (d *Dispatcher) arriving(e eta.Estimate) bool {
	return e.DistanceKm < d.cfg.DistanceThresholdKm || e.Minutes() <= d.cfg.ETAThresholdMinutes
}

func (d *Dispatcher) delayAlerts(vehicle models.VehicleState) {
	for _, r := range d.reservations.ByVehicle(vehicle.ID, models.ReservationStatusConfirmed) {
		d.markSentAndEnqueue(delayEvent(vehicle, r, d.now()))
	}
}

// IsSent reports whether the event with key has been marked sent
func (d *Dispatcher) IsSent(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.events[key]
	return ok && e.Sent
}

// Event returns a copy of the tracked event with key
func (d *Dispatcher) Event(key string) (models.NotificationEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.events[key]
	if !ok {
		return models.NotificationEvent{}, false
	}
	return *e, true
}

// claimLocked flips the sent flag of event's key. It returns false when the
// key was already sent. d.mu must be held.
func (d *Dispatcher) claimLocked(event *models.NotificationEvent) bool {
	if existing, ok := d.events[event.Key]; ok && existing.Sent {
		return false
	}
	sentAt := d.now()
	event.Sent = true
	event.SentAt = &sentAt
	d.events[event.Key] = event
	return true
}

func (d *Dispatcher) claim(event *models.NotificationEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.claimLocked(event)
}

// markSentAndEnqueue claims the event and hands it to the outbox in one step.
// A full or closed outbox drops the event; the sent flag stays set.
func (d *Dispatcher) markSentAndEnqueue(event *models.NotificationEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.claimLocked(event) {
		return false
	}

	if d.closed {
		d.dropped(event, "dispatcher stopped")
		return true
	}
	select {
	case d.outbox <- event:
		metrics.OutboxDepth.Inc()
	default:
		d.dropped(event, "outbox full")
	}
	return true
}

func (d *Dispatcher) dropped(event *models.NotificationEvent, reason string) {
	metrics.NotificationsTotal.WithLabelValues(string(event.Kind), resultDropped).Inc()
	logger.Warn("Notification dropped",
		logger.String("key", event.Key),
		logger.String("recipient_id", event.RecipientID),
		logger.String("reason", reason))
}

// NotifyReservation delivers a lifecycle message synchronously
func (d *Dispatcher) NotifyReservation(ctx context.Context, kind models.NotificationKind, r *models.Reservation) {
	if r == nil {
		return
	}
	event := lifecycleEvent(kind, r, d.now())
	if !d.claim(event) {
		logger.Debug("Lifecycle notification already sent", logger.String("key", event.Key))
		return
	}
	d.deliver(ctx, event)
}

// EmergencyAlert sends message to every passenger holding a PENDING,
// CONFIRMED or BOARDING reservation on the vehicle
func (d *Dispatcher) EmergencyAlert(ctx context.Context, req *models.EmergencyAlertRequest) (*models.EmergencyAlertResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	issuedAt := d.now()
	result := &models.EmergencyAlertResult{
		VehicleID: req.VehicleID,
		Message:   req.Message,
		IssuedAt:  issuedAt,
	}

	seen := make(map[string]struct{})
	active := d.reservations.ByVehicle(req.VehicleID,
		models.ReservationStatusPending, models.ReservationStatusConfirmed, models.ReservationStatusBoarding)
	for _, r := range active {
		if _, ok := seen[r.PassengerID]; ok {
			continue
		}
		seen[r.PassengerID] = struct{}{}

		event := emergencyEvent(req, r.PassengerID, issuedAt)
		if !d.claim(event) {
			continue
		}
		d.deliver(ctx, event)
		result.Recipients++
	}

	logger.WarnCtx(ctx, "Emergency alert issued",
		logger.String("vehicle_id", req.VehicleID),
		logger.Int("recipients", result.Recipients))

	if d.alerts != nil {
		if err := d.alerts.PublishEmergencyAlert(ctx, result); err != nil {
			logger.ErrorCtx(ctx, "Failed to publish emergency alert",
				logger.String("vehicle_id", req.VehicleID),
				logger.Err(err))
		}
	}
	return result, nil
}

// deliver sends the event over every channel the passenger accepts. Failures
// are logged and counted, never retried.
func (d *Dispatcher) deliver(ctx context.Context, event *models.NotificationEvent) {
	passenger := d.passenger(ctx, event.RecipientID)
	delivered := false

	if passenger != nil && passenger.SMSEnabled {
		if d.sendSMS(ctx, passenger, event) {
			delivered = true
		}
	}
	if passenger == nil || passenger.PushEnabled {
		if d.sendPush(ctx, event) {
			delivered = true
		}
	}

	result := resultFailed
	if delivered {
		result = resultDelivered
	}
	metrics.NotificationsTotal.WithLabelValues(string(event.Kind), result).Inc()

	d.persist(ctx, event)
}

func (d *Dispatcher) sendSMS(ctx context.Context, passenger *models.Passenger, event *models.NotificationEvent) bool {
	phone, err := utils.NormalizeMSISDN(passenger.PhoneNumber)
	if err != nil {
		logger.WarnCtx(ctx, "Passenger phone number is not valid for SMS",
			logger.String("passenger_id", passenger.ID),
			logger.String("phone", utils.MaskPhoneNumber(passenger.PhoneNumber)))
		return false
	}

	if err := d.notifier.SendSMS(ctx, phone, smsText(event)); err != nil {
		logger.WarnCtx(ctx, "SMS delivery failed",
			logger.String("key", event.Key),
			logger.String("phone", utils.MaskPhoneNumber(phone)),
			logger.Err(err))
		return false
	}
	return true
}

func (d *Dispatcher) sendPush(ctx context.Context, event *models.NotificationEvent) bool {
	payload := models.PushPayload{
		NotificationID: event.ID,
		Kind:           event.Kind,
		Title:          event.Title,
		Message:        event.Message,
		VehicleID:      event.VehicleID,
	}
	if event.SentAt != nil {
		payload.SentAt = *event.SentAt
	}

	if err := d.notifier.SendPush(ctx, event.RecipientID, payload); err != nil {
		logger.WarnCtx(ctx, "Push delivery failed",
			logger.String("key", event.Key),
			logger.String("recipient_id", event.RecipientID),
			logger.Err(err))
		return false
	}
	return true
}

// passenger returns nil when contact preferences are unavailable
func (d *Dispatcher) passenger(ctx context.Context, id string) *models.Passenger {
	if d.repo == nil {
		return nil
	}
	p, err := d.repo.GetPassenger(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnCtx(ctx, "Failed to load passenger contact preferences",
				logger.String("passenger_id", id),
				logger.Err(err))
		}
		return nil
	}
	return p
}

func (d *Dispatcher) persist(ctx context.Context, event *models.NotificationEvent) {
	if d.repo == nil {
		return
	}
	if err := d.repo.SaveNotification(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to persist notification",
			logger.String("key", event.Key),
			logger.Err(err))
	}
}
