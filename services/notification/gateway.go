package notification

import (
	"context"

	"github.com/piresc/busfleet/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/busfleet/services/notification Notifier,AlertGW

// Notifier delivers a message to a passenger
type Notifier interface {
	// SendSMS sends text to an E.164 phone number
	SendSMS(ctx context.Context, phone, text string) error
	// SendPush delivers payload on the user's push channel
	SendPush(ctx context.Context, userID string, payload models.PushPayload) error
}

// AlertGW broadcasts emergency alerts to operators and dashboards
type AlertGW interface {
	PublishEmergencyAlert(ctx context.Context, alert *models.EmergencyAlertResult) error
}
