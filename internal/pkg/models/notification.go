package models

import "time"

// NotificationKind categorizes notification events
type NotificationKind string

const (
	NotificationBusArrival              NotificationKind = "BUS_ARRIVAL"
	NotificationBusDeparture            NotificationKind = "BUS_DEPARTURE"
	NotificationDelayAlert              NotificationKind = "DELAY_ALERT"
	NotificationReservationConfirmation NotificationKind = "RESERVATION_CONFIRMATION"
	NotificationReservationCancelled    NotificationKind = "RESERVATION_CANCELLED"
	NotificationPaymentSuccess          NotificationKind = "PAYMENT_SUCCESS"
	NotificationPaymentFailure          NotificationKind = "PAYMENT_FAILURE"
	NotificationRefundProcessed         NotificationKind = "REFUND_PROCESSED"
	NotificationRouteChange             NotificationKind = "ROUTE_CHANGE"
	NotificationEmergency               NotificationKind = "EMERGENCY"
	NotificationPromotion               NotificationKind = "PROMOTION"
)

// NotificationEvent is a logical notification with an at-most-once sent flag
type NotificationEvent struct {
	ID               string           `json:"id" db:"id"`
	Key              string           `json:"key" db:"event_key"`
	RecipientID      string           `json:"recipient_id" db:"recipient_id"`
	VehicleID        string           `json:"vehicle_id,omitempty" db:"vehicle_id"`
	ReservationID    string           `json:"reservation_id,omitempty" db:"reservation_id"`
	Kind             NotificationKind `json:"kind" db:"kind"`
	Title            string           `json:"title" db:"title"`
	Message          string           `json:"message" db:"message"`
	StopName         string           `json:"stop_name,omitempty" db:"stop_name"`
	EstimatedMinutes int              `json:"estimated_minutes,omitempty" db:"estimated_minutes"`
	Sent             bool             `json:"sent" db:"sent"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	SentAt           *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
}

// PushPayload is delivered to a passenger's push channel
type PushPayload struct {
	NotificationID string           `json:"notification_id"`
	Kind           NotificationKind `json:"kind"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	VehicleID      string           `json:"vehicle_id,omitempty"`
	SentAt         time.Time        `json:"sent_at"`
}

// PushMessage addresses a PushPayload to one user on the push topic
type PushMessage struct {
	UserID  string      `json:"user_id"`
	Payload PushPayload `json:"payload"`
}

// EmergencyAlertRequest broadcasts an alert to passengers of a vehicle
type EmergencyAlertRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// EmergencyAlertResult reports how many passengers were alerted. It is also
// the payload broadcast on the emergency topic.
type EmergencyAlertResult struct {
	VehicleID  string    `json:"vehicle_id"`
	Message    string    `json:"message"`
	Recipients int       `json:"recipients"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Passenger holds the contact preferences used for delivery
type Passenger struct {
	ID                string `json:"id" db:"id"`
	FullName          string `json:"full_name" db:"full_name"`
	PhoneNumber       string `json:"phone_number" db:"phone_number"`
	SMSEnabled        bool   `json:"sms_enabled" db:"sms_enabled"`
	PushEnabled       bool   `json:"push_enabled" db:"push_enabled"`
	PreferredLanguage string `json:"preferred_language" db:"preferred_language"`
}

// Stop is a named boarding location
type Stop struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Position returns the stop coordinates
func (s Stop) Position() Position {
	return Position{Latitude: s.Latitude, Longitude: s.Longitude}
}
