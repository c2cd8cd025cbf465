package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	httppkg "github.com/piresc/busfleet/internal/pkg/http"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/notification"
)

const (
	smsPath     = "/v1/messages"
	smsSenderID = "BUSFLEET"
)

type smsRequest struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
}

type smsResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type notifierGW struct {
	sms       *httppkg.EnhancedClient
	publisher bus.Publisher
}

// NewNotifierGW creates a notifier sending SMS through the gateway client and
// push messages on the bus. A nil sms client logs messages instead of sending.
func NewNotifierGW(sms *httppkg.EnhancedClient, publisher bus.Publisher) notification.Notifier {
	return &notifierGW{sms: sms, publisher: publisher}
}

// SendSMS sends text to phone
func (g *notifierGW) SendSMS(ctx context.Context, phone, text string) error {
	if g.sms == nil {
		logger.InfoCtx(ctx, "Simulated SMS sent",
			logger.String("phone", utils.MaskPhoneNumber(phone)),
			logger.String("text", utils.Truncate(text, 160)))
		return nil
	}

	var resp smsResponse
	err := g.sms.PostJSON(ctx, smsPath, smsRequest{
		To:       phone,
		SenderID: smsSenderID,
		Message:  text,
	}, &resp)
	if err != nil {
		return fmt.Errorf("sms delivery failed: %w", err)
	}

	logger.DebugCtx(ctx, "SMS accepted",
		logger.String("phone", utils.MaskPhoneNumber(phone)),
		logger.String("message_id", resp.MessageID),
		logger.String("status", resp.Status))
	return nil
}

// SendPush publishes payload on the user's push channel. Whichever instance
// holds the user's websocket delivers it.
func (g *notifierGW) SendPush(ctx context.Context, userID string, payload models.PushPayload) error {
	msg := models.PushMessage{UserID: userID, Payload: payload}
	if err := g.publisher.Publish(ctx, constants.TopicNotificationPush, msg); err != nil {
		return fmt.Errorf("failed to publish push for %s: %w", userID, err)
	}
	return nil
}
