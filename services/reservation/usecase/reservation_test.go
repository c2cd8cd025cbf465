package usecase

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/fleet/store"
	fleetusecase "github.com/piresc/busfleet/services/fleet/usecase"
	"github.com/piresc/busfleet/services/reservation/ledger"
	"github.com/piresc/busfleet/services/reservation/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBox  = models.BoundingBox{Center: models.Position{Latitude: 9.03, Longitude: 38.74}, HalfWidth: 0.05}
	testSlot = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	codeRe   = regexp.MustCompile(`^ETH\d{6}$`)
)

type fixture struct {
	uc         *ReservationUC
	fleetStore *store.Store
	ledger     *ledger.Ledger
	repo       *mocks.MockReservationRepo
	payment    *mocks.MockPaymentGW
	events     *mocks.MockReservationEventsGW
	notifier   *mocks.MockLifecycleNotifier
}

func setup(t *testing.T, capacity int) *fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	fleetStore := store.New(nil, testBox, 10)
	_, err := fleetStore.Register(context.Background(), models.VehicleState{
		ID:       "bus-1",
		Number:   "AA-101",
		Status:   models.VehicleStatusActive,
		Position: testBox.Center,
		Capacity: capacity,
	})
	require.NoError(t, err)

	f := &fixture{
		fleetStore: fleetStore,
		ledger:     ledger.New(),
		repo:       mocks.NewMockReservationRepo(ctrl),
		payment:    mocks.NewMockPaymentGW(ctrl),
		events:     mocks.NewMockReservationEventsGW(ctrl),
		notifier:   mocks.NewMockLifecycleNotifier(ctrl),
	}
	f.uc = NewReservationUC(fleetusecase.NewFleetUC(fleetStore, nil, nil), f.ledger, f.repo, f.payment, f.events, f.notifier)
	return f
}

// allowSideEffects accepts any persistence, publish and notification call
func (f *fixture) allowSideEffects() {
	f.repo.EXPECT().SaveReservation(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.events.EXPECT().PublishReservationUpdated(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().NotifyReservation(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
}

func reserveReq(passenger string) *models.ReserveRequest {
	return &models.ReserveRequest{
		PassengerID:   passenger,
		VehicleID:     "bus-1",
		Slot:          testSlot,
		BoardingStop:  "Meskel Square",
		AlightingStop: "Piassa",
	}
}

func (f *fixture) confirmed(t *testing.T, passenger string) *models.Reservation {
	t.Helper()
	r, err := f.uc.Reserve(context.Background(), reserveReq(passenger))
	require.NoError(t, err)
	r, err = f.uc.Confirm(context.Background(), r.ID, models.PaymentOutcome{
		Succeeded: true, TransactionID: "txn-" + passenger, Amount: 25, Method: models.PaymentMethodTelebirr,
	})
	require.NoError(t, err)
	return r
}

func TestReserve_AssignsSeatsAndCodes(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()

	first, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	second, err := f.uc.Reserve(context.Background(), reserveReq("p2"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.SeatNumber)
	assert.Equal(t, 2, second.SeatNumber)
	assert.Equal(t, models.ReservationStatusPending, first.Status)
	assert.Regexp(t, codeRe, first.ConfirmationCode)
	assert.NotEqual(t, first.ConfirmationCode, second.ConfirmationCode)
	_, err = uuid.Parse(first.QRCode)
	assert.NoError(t, err)
}

func TestReserve_NormalizesSlot(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()

	r, err := f.uc.Reserve(context.Background(), &models.ReserveRequest{
		PassengerID: "p1", VehicleID: "bus-1", Slot: testSlot.Add(42 * time.Second),
		BoardingStop: "Meskel Square", AlightingStop: "Piassa",
	})

	require.NoError(t, err)
	assert.Equal(t, testSlot, r.Slot)
}

func TestReserve_CapacityExceeded(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	_, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)

	_, err = f.uc.Reserve(context.Background(), reserveReq("p2"))

	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
}

func TestReserve_Errors(t *testing.T) {
	f := setup(t, 1)

	req := reserveReq("p1")
	req.VehicleID = "bus-404"
	_, err := f.uc.Reserve(context.Background(), req)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.uc.Reserve(context.Background(), &models.ReserveRequest{VehicleID: "bus-1"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestReserve_PersistFailureLeavesSeatFree(t *testing.T) {
	f := setup(t, 1)
	f.repo.EXPECT().SaveReservation(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := f.uc.Reserve(context.Background(), reserveReq("p1"))

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
	availability, err := f.uc.Availability(context.Background(), "bus-1", testSlot)
	require.NoError(t, err)
	assert.Equal(t, 0, availability.Reserved)
}

func TestReserve_ConcurrentAdmissionNeverOversells(t *testing.T) {
	const capacity, attempts = 5, 25
	f := setup(t, capacity)
	f.allowSideEffects()

	start := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	var seats []int
	rejected := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			r, err := f.uc.Reserve(context.Background(), reserveReq(uuid.NewString()))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded), "attempt %d: %v", i, err)
				rejected++
				return
			}
			seats = append(seats, r.SeatNumber)
		}(i)
	}
	close(start)
	wg.Wait()

	sort.Ints(seats)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seats)
	assert.Equal(t, attempts-capacity, rejected)
}

func TestConfirm_Outcomes(t *testing.T) {
	f := setup(t, 3)
	f.allowSideEffects()
	ctx := context.Background()

	r, err := f.uc.Reserve(ctx, reserveReq("p1"))
	require.NoError(t, err)

	success := models.PaymentOutcome{Succeeded: true, TransactionID: "txn-1", Amount: 25, Method: models.PaymentMethodCBEBirr}
	confirmed, err := f.uc.Confirm(ctx, r.ID, success)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)
	assert.Equal(t, models.PaymentStatusCompleted, confirmed.Payment.Status)
	assert.Regexp(t, `^RCP\d{10}$`, confirmed.Payment.ReceiptNumber)

	// repeated and late outcomes leave a confirmed reservation alone
	again, err := f.uc.Confirm(ctx, r.ID, success)
	require.NoError(t, err)
	assert.Equal(t, confirmed.Payment.ReceiptNumber, again.Payment.ReceiptNumber)
	again, err = f.uc.Confirm(ctx, r.ID, models.PaymentOutcome{Succeeded: false})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, again.Status)

	// a failed outcome cancels a pending reservation, and stays cancelled
	other, err := f.uc.Reserve(ctx, reserveReq("p2"))
	require.NoError(t, err)
	failed, err := f.uc.Confirm(ctx, other.ID, models.PaymentOutcome{Succeeded: false, FailureReason: "insufficient funds"})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, failed.Status)
	assert.Equal(t, models.PaymentStatusFailed, failed.Payment.Status)
	assert.Contains(t, failed.CancelReason, "insufficient funds")

	_, err = f.uc.Confirm(ctx, other.ID, models.PaymentOutcome{Succeeded: false})
	assert.NoError(t, err)
	_, err = f.uc.Confirm(ctx, other.ID, success)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition))

	_, err = f.uc.Confirm(ctx, "missing", success)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestConfirm_NotifiesOnlyOnChange(t *testing.T) {
	f := setup(t, 1)
	f.repo.EXPECT().SaveReservation(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.events.EXPECT().PublishReservationUpdated(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	gomock.InOrder(
		f.notifier.EXPECT().NotifyReservation(gomock.Any(), models.NotificationReservationConfirmation, gomock.Any()),
		f.notifier.EXPECT().NotifyReservation(gomock.Any(), models.NotificationPaymentSuccess, gomock.Any()),
	)

	r, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	outcome := models.PaymentOutcome{Succeeded: true, TransactionID: "txn-1", Amount: 25, Method: models.PaymentMethodCash}
	_, err = f.uc.Confirm(context.Background(), r.ID, outcome)
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), r.ID, outcome)
	require.NoError(t, err)
}

func TestPay_ChargesAndConfirms(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	f.payment.EXPECT().Charge(gomock.Any(), 25.0, models.PaymentMethodTelebirr, r.ID).Return("txn-9", nil)

	paid, err := f.uc.Pay(context.Background(), r.ID, &models.PayRequest{Amount: 25, Method: models.PaymentMethodTelebirr})

	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, paid.Status)
	assert.Equal(t, "txn-9", paid.Payment.TransactionID)
}

func TestPay_ChargeFailureCancels(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	chargeErr := apperrors.Transient("payment", errors.New("gateway timeout"))
	f.payment.EXPECT().Charge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", chargeErr)

	_, err = f.uc.Pay(context.Background(), r.ID, &models.PayRequest{Amount: 25, Method: models.PaymentMethodMPesa})

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
	got, _ := f.uc.GetReservation(context.Background(), r.ID)
	assert.Equal(t, models.ReservationStatusCancelled, got.Status)
	assert.Equal(t, models.PaymentStatusFailed, got.Payment.Status)
}

func TestPay_Rejections(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")

	_, err := f.uc.Pay(context.Background(), r.ID, &models.PayRequest{Amount: 25, Method: models.PaymentMethodCard})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition))

	_, err = f.uc.Pay(context.Background(), r.ID, &models.PayRequest{Amount: 25, Method: "BITCOIN"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.uc.Pay(context.Background(), r.ID, &models.PayRequest{Amount: 0, Method: models.PaymentMethodCard})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCancel_PendingNeedsNoRefund(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(context.Background(), r.ID, "")

	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	assert.Equal(t, defaultCancelReason, cancelled.CancelReason)
}

func TestCancel_ConfirmedRefundsOnce(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")
	f.payment.EXPECT().Refund(gomock.Any(), "txn-p1", 25.0).Return("RF-1", nil)

	cancelled, err := f.uc.Cancel(context.Background(), r.ID, "user request")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	assert.True(t, cancelled.Payment.Refunded)
	assert.Equal(t, "RF-1", cancelled.Payment.RefundConfirmation)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.Payment.Status)

	_, err = f.uc.Cancel(context.Background(), r.ID, "again")
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyRefunded))
}

func TestCancel_RefundFailureKeepsReservation(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")
	f.payment.EXPECT().Refund(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", apperrors.Transient("payment", errors.New("503")))

	_, err := f.uc.Cancel(context.Background(), r.ID, "user request")

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
	got, _ := f.uc.GetReservation(context.Background(), r.ID)
	assert.Equal(t, models.ReservationStatusConfirmed, got.Status)
	assert.False(t, got.Payment.Refunded)
}

func TestCancel_FreedSeatIsReused(t *testing.T) {
	f := setup(t, 3)
	f.allowSideEffects()
	_, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	middle := f.confirmed(t, "p2")
	_, err = f.uc.Reserve(context.Background(), reserveReq("p3"))
	require.NoError(t, err)
	f.payment.EXPECT().Refund(gomock.Any(), gomock.Any(), gomock.Any()).Return("RF-2", nil)

	_, err = f.uc.Cancel(context.Background(), middle.ID, "user request")
	require.NoError(t, err)
	next, err := f.uc.Reserve(context.Background(), reserveReq("p4"))

	require.NoError(t, err)
	assert.Equal(t, middle.SeatNumber, next.SeatNumber)
}

func TestCancel_AfterBoardingRejected(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")
	_, err := f.uc.CheckIn(context.Background(), r.ConfirmationCode)
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), r.ID, "too late")

	assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition))
}

func TestCheckInAndComplete_MoveOccupancy(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")

	boarded, err := f.uc.CheckIn(context.Background(), r.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusBoarding, boarded.Status)
	v, _ := f.fleetStore.Get("bus-1")
	assert.Equal(t, 1, v.Occupancy)

	done, err := f.uc.Complete(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCompleted, done.Status)
	v, _ = f.fleetStore.Get("bus-1")
	assert.Equal(t, 0, v.Occupancy)

	// completed trips still hold their seat for the slot
	availability, err := f.uc.Availability(context.Background(), "bus-1", testSlot)
	require.NoError(t, err)
	assert.Equal(t, 1, availability.Reserved)
	assert.Equal(t, 1, availability.Available)
}

func TestCheckIn_Rejections(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()

	_, err := f.uc.CheckIn(context.Background(), "ETH000000")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	pending, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	_, err = f.uc.CheckIn(context.Background(), pending.ConfirmationCode)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition))
}

func TestCheckIn_FullVehicleIsInternalError(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")
	_, err := f.uc.fleetUC.AdjustOccupancy(context.Background(), "bus-1", 1)
	require.NoError(t, err)

	_, err = f.uc.CheckIn(context.Background(), r.ConfirmationCode)

	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrInvalidState))
	got, _ := f.uc.GetReservation(context.Background(), r.ID)
	assert.Equal(t, models.ReservationStatusConfirmed, got.Status)
}

func TestCheckIn_PersistFailureRestoresOccupancy(t *testing.T) {
	f := setup(t, 1)
	f.events.EXPECT().PublishReservationUpdated(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().NotifyReservation(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	gomock.InOrder(
		f.repo.EXPECT().SaveReservation(gomock.Any(), gomock.Any()).Return(nil).Times(2),
		f.repo.EXPECT().SaveReservation(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
	)
	r := f.confirmed(t, "p1")

	_, err := f.uc.CheckIn(context.Background(), r.ConfirmationCode)

	assert.True(t, errors.Is(err, apperrors.ErrTransientDependency))
	v, _ := f.fleetStore.Get("bus-1")
	assert.Equal(t, 0, v.Occupancy)
}

func TestMarkNoShow(t *testing.T) {
	f := setup(t, 1)
	f.allowSideEffects()
	r := f.confirmed(t, "p1")

	got, err := f.uc.MarkNoShow(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusNoShow, got.Status)

	_, err = f.uc.MarkNoShow(context.Background(), r.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition))
}

func TestListByPassenger(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()
	early, err := f.uc.Reserve(context.Background(), reserveReq("p1"))
	require.NoError(t, err)
	lateReq := reserveReq("p1")
	lateReq.Slot = testSlot.Add(2 * time.Hour)
	late, err := f.uc.Reserve(context.Background(), lateReq)
	require.NoError(t, err)

	got, err := f.uc.ListByPassenger(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)

	_, err = f.uc.ListByPassenger(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestLoad_FillsLedger(t *testing.T) {
	f := setup(t, 2)
	stored := []*models.Reservation{
		{ID: "r1", PassengerID: "p1", VehicleID: "bus-1", Slot: testSlot, SeatNumber: 1,
			Status: models.ReservationStatusConfirmed, ConfirmationCode: "ETH111111"},
	}
	f.repo.EXPECT().ListReservations(gomock.Any(), gomock.Nil()).Return(stored, nil)

	n, err := f.uc.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := f.ledger.GetByCode("ETH111111")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
}

// Capacity 2: A reserves and pays, B reserves, C is turned away until A
// cancels, then C receives A's seat.
func TestAdmissionScenario(t *testing.T) {
	f := setup(t, 2)
	f.allowSideEffects()
	ctx := context.Background()

	a, err := f.uc.Reserve(ctx, reserveReq("A"))
	require.NoError(t, err)
	assert.Equal(t, 1, a.SeatNumber)
	assert.Equal(t, models.ReservationStatusPending, a.Status)

	a, err = f.uc.Confirm(ctx, a.ID, models.PaymentOutcome{
		Succeeded: true, TransactionID: "txn-A", Amount: 30, Method: models.PaymentMethodTelebirr,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, a.Status)

	b, err := f.uc.Reserve(ctx, reserveReq("B"))
	require.NoError(t, err)
	assert.Equal(t, 2, b.SeatNumber)

	_, err = f.uc.Reserve(ctx, reserveReq("C"))
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))

	f.payment.EXPECT().Refund(gomock.Any(), "txn-A", 30.0).Return("RF-A", nil)
	a, err = f.uc.Cancel(ctx, a.ID, "user request")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, a.Status)

	c, err := f.uc.Reserve(ctx, reserveReq("C"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.SeatNumber)
}

func TestSmallestFreeSeat(t *testing.T) {
	seats := func(n ...int) []*models.Reservation {
		out := make([]*models.Reservation, 0, len(n))
		for _, s := range n {
			out = append(out, &models.Reservation{SeatNumber: s})
		}
		return out
	}
	assert.Equal(t, 1, smallestFreeSeat(nil))
	assert.Equal(t, 4, smallestFreeSeat(seats(1, 2, 3)))
	assert.Equal(t, 2, smallestFreeSeat(seats(1, 3)))
	assert.Equal(t, 1, smallestFreeSeat(seats(2, 3)))
}
