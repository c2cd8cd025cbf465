package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/logger"
)

// Bus adapts a Client to bus.Bus
type Bus struct {
	client *Client
}

// NewBus wraps an existing client
func NewBus(client *Client) *Bus {
	return &Bus{client: client}
}

// Publish encodes payload and publishes it on topic
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := bus.Encode(payload)
	if err != nil {
		return err
	}
	return b.client.Publish(topic, data)
}

// Subscribe delivers every message on topic to handler
func (b *Bus) Subscribe(topic string, handler bus.Handler) (func(), error) {
	sub, err := b.client.Subscribe(topic, func(msg *nats.Msg) {
		if err := handler(context.Background(), msg.Data); err != nil {
			logger.Warn("Error processing message",
				logger.String("subject", topic),
				logger.Err(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
			logger.Warn("Failed to unsubscribe", logger.String("subject", topic), logger.Err(err))
		}
	}, nil
}

// Flush waits until the server has processed everything published so far
func (b *Bus) Flush() error {
	if err := b.client.GetConn().Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (b *Bus) Close() error {
	b.client.Close()
	return nil
}

var _ bus.Bus = (*Bus)(nil)
