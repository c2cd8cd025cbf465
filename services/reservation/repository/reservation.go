package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"gopkg.in/guregu/null.v4"
)

const reservationColumns = `
	id, passenger_id, vehicle_id, slot, boarding_stop, alighting_stop, seat_number, status,
	confirmation_code, qr_code, payment_amount, payment_method, payment_status, transaction_id,
	receipt_number, refunded, refund_confirmation, refunded_at, paid_at, cancel_reason,
	created_at, updated_at
`

// ReservationRepo persists reservations in Postgres
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *sqlx.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// reservationRow flattens the optional payment into nullable columns
type reservationRow struct {
	ID                 string      `db:"id"`
	PassengerID        string      `db:"passenger_id"`
	VehicleID          string      `db:"vehicle_id"`
	Slot               time.Time   `db:"slot"`
	BoardingStop       string      `db:"boarding_stop"`
	AlightingStop      string      `db:"alighting_stop"`
	SeatNumber         int         `db:"seat_number"`
	Status             string      `db:"status"`
	ConfirmationCode   null.String `db:"confirmation_code"`
	QRCode             null.String `db:"qr_code"`
	PaymentAmount      null.Float  `db:"payment_amount"`
	PaymentMethod      null.String `db:"payment_method"`
	PaymentStatus      null.String `db:"payment_status"`
	TransactionID      null.String `db:"transaction_id"`
	ReceiptNumber      null.String `db:"receipt_number"`
	Refunded           bool        `db:"refunded"`
	RefundConfirmation null.String `db:"refund_confirmation"`
	RefundedAt         null.Time   `db:"refunded_at"`
	PaidAt             null.Time   `db:"paid_at"`
	CancelReason       null.String `db:"cancel_reason"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (r reservationRow) toModel() *models.Reservation {
	out := &models.Reservation{
		ID:               r.ID,
		PassengerID:      r.PassengerID,
		VehicleID:        r.VehicleID,
		Slot:             r.Slot.UTC(),
		BoardingStop:     r.BoardingStop,
		AlightingStop:    r.AlightingStop,
		SeatNumber:       r.SeatNumber,
		Status:           models.ReservationStatus(r.Status),
		ConfirmationCode: r.ConfirmationCode.String,
		QRCode:           r.QRCode.String,
		CancelReason:     r.CancelReason.String,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.PaymentStatus.Valid {
		out.Payment = &models.PaymentInfo{
			Amount:             r.PaymentAmount.Float64,
			Method:             models.PaymentMethod(r.PaymentMethod.String),
			Status:             models.PaymentStatus(r.PaymentStatus.String),
			TransactionID:      r.TransactionID.String,
			ReceiptNumber:      r.ReceiptNumber.String,
			Refunded:           r.Refunded,
			RefundConfirmation: r.RefundConfirmation.String,
			RefundedAt:         r.RefundedAt.Ptr(),
			PaidAt:             r.PaidAt.Time,
		}
	}
	return out
}

func toRow(r *models.Reservation) reservationRow {
	row := reservationRow{
		ID:               r.ID,
		PassengerID:      r.PassengerID,
		VehicleID:        r.VehicleID,
		Slot:             r.Slot,
		BoardingStop:     r.BoardingStop,
		AlightingStop:    r.AlightingStop,
		SeatNumber:       r.SeatNumber,
		Status:           string(r.Status),
		ConfirmationCode: null.NewString(r.ConfirmationCode, r.ConfirmationCode != ""),
		QRCode:           null.NewString(r.QRCode, r.QRCode != ""),
		CancelReason:     null.NewString(r.CancelReason, r.CancelReason != ""),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if p := r.Payment; p != nil {
		row.PaymentAmount = null.FloatFrom(p.Amount)
		row.PaymentMethod = null.StringFrom(string(p.Method))
		row.PaymentStatus = null.StringFrom(string(p.Status))
		row.TransactionID = null.NewString(p.TransactionID, p.TransactionID != "")
		row.ReceiptNumber = null.NewString(p.ReceiptNumber, p.ReceiptNumber != "")
		row.Refunded = p.Refunded
		row.RefundConfirmation = null.NewString(p.RefundConfirmation, p.RefundConfirmation != "")
		row.RefundedAt = null.TimeFromPtr(p.RefundedAt)
		row.PaidAt = null.NewTime(p.PaidAt, !p.PaidAt.IsZero())
	}
	return row
}

// SaveReservation inserts the reservation or overwrites its mutable columns
func (r *ReservationRepo) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES (
			:id, :passenger_id, :vehicle_id, :slot, :boarding_stop, :alighting_stop, :seat_number, :status,
			:confirmation_code, :qr_code, :payment_amount, :payment_method, :payment_status, :transaction_id,
			:receipt_number, :refunded, :refund_confirmation, :refunded_at, :paid_at, :cancel_reason,
			:created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			payment_amount = EXCLUDED.payment_amount,
			payment_method = EXCLUDED.payment_method,
			payment_status = EXCLUDED.payment_status,
			transaction_id = EXCLUDED.transaction_id,
			receipt_number = EXCLUDED.receipt_number,
			refunded = EXCLUDED.refunded,
			refund_confirmation = EXCLUDED.refund_confirmation,
			refunded_at = EXCLUDED.refunded_at,
			paid_at = EXCLUDED.paid_at,
			cancel_reason = EXCLUDED.cancel_reason,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(reservation)); err != nil {
		return fmt.Errorf("failed to save reservation %s: %w", reservation.ID, err)
	}
	return nil
}

// GetReservation retrieves one reservation by id
func (r *ReservationRepo) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var row reservationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("reservation", id)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return row.toModel(), nil
}

// ListReservations returns reservations in any of statuses, or every
// reservation when statuses is empty
func (r *ReservationRepo) ListReservations(ctx context.Context, statuses []models.ReservationStatus) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	var args []interface{}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query += ` WHERE status = ANY($1)`
		args = append(args, pq.Array(values))
	}
	query += ` ORDER BY slot, seat_number`

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	out := make([]*models.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}
