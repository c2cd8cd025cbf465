package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"gopkg.in/guregu/null.v4"
)

// NotificationRepo persists notification events and reads passenger contacts
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

type notificationRow struct {
	ID               string      `db:"id"`
	Key              string      `db:"event_key"`
	RecipientID      string      `db:"recipient_id"`
	VehicleID        null.String `db:"vehicle_id"`
	ReservationID    null.String `db:"reservation_id"`
	Kind             string      `db:"kind"`
	Title            string      `db:"title"`
	Message          string      `db:"message"`
	StopName         null.String `db:"stop_name"`
	EstimatedMinutes null.Int    `db:"estimated_minutes"`
	Sent             bool        `db:"sent"`
	CreatedAt        time.Time   `db:"created_at"`
	SentAt           null.Time   `db:"sent_at"`
}

func toRow(e *models.NotificationEvent) notificationRow {
	return notificationRow{
		ID:               e.ID,
		Key:              e.Key,
		RecipientID:      e.RecipientID,
		VehicleID:        null.NewString(e.VehicleID, e.VehicleID != ""),
		ReservationID:    null.NewString(e.ReservationID, e.ReservationID != ""),
		Kind:             string(e.Kind),
		Title:            e.Title,
		Message:          e.Message,
		StopName:         null.NewString(e.StopName, e.StopName != ""),
		EstimatedMinutes: null.NewInt(int64(e.EstimatedMinutes), e.EstimatedMinutes > 0),
		Sent:             e.Sent,
		CreatedAt:        e.CreatedAt,
		SentAt:           null.TimeFromPtr(e.SentAt),
	}
}

// SaveNotification upserts the event on its logical key. A stored sent flag
// is never cleared.
func (r *NotificationRepo) SaveNotification(ctx context.Context, event *models.NotificationEvent) error {
	query := `
		INSERT INTO notifications (
			id, event_key, recipient_id, vehicle_id, reservation_id, kind, title, message,
			stop_name, estimated_minutes, sent, created_at, sent_at
		) VALUES (
			:id, :event_key, :recipient_id, :vehicle_id, :reservation_id, :kind, :title, :message,
			:stop_name, :estimated_minutes, :sent, :created_at, :sent_at
		)
		ON CONFLICT (event_key) DO UPDATE SET
			sent = notifications.sent OR EXCLUDED.sent,
			sent_at = COALESCE(notifications.sent_at, EXCLUDED.sent_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(event)); err != nil {
		return fmt.Errorf("failed to save notification %s: %w", event.Key, err)
	}
	return nil
}

// GetPassenger retrieves a passenger's contact preferences
func (r *NotificationRepo) GetPassenger(ctx context.Context, id string) (*models.Passenger, error) {
	query := `
		SELECT id, full_name, phone_number, sms_enabled, push_enabled, preferred_language
		FROM passengers
		WHERE id = $1
	`

	var passenger models.Passenger
	if err := r.db.GetContext(ctx, &passenger, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("passenger", id)
		}
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}
	return &passenger, nil
}
