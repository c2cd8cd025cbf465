package nsq

import (
	"context"
	"fmt"
	"sync"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/logger"
)

// Bus publishes through one Producer and starts a Consumer per subscription
type Bus struct {
	producer *Producer
	address  string
	channel  string

	mu        sync.Mutex
	consumers []*Consumer
}

// NewBus connects a producer to the nsqd at address
func NewBus(address, channel string) (*Bus, error) {
	producer, err := NewProducer(address)
	if err != nil {
		return nil, err
	}
	return &Bus{producer: producer, address: address, channel: channel}, nil
}

// Publish encodes payload and publishes it to topic
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := bus.Encode(payload)
	if err != nil {
		return err
	}
	return b.producer.PublishRaw(topic, data)
}

// Subscribe consumes topic on the bus channel
func (b *Bus) Subscribe(topic string, handler bus.Handler) (func(), error) {
	consumer, err := NewConsumer(topic, b.channel, b.address, func(message []byte) error {
		return handler(context.Background(), message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	b.mu.Lock()
	b.consumers = append(b.consumers, consumer)
	b.mu.Unlock()

	var once sync.Once
	return func() { once.Do(consumer.Stop) }, nil
}

// Ping checks the producer connection to nsqd
func (b *Bus) Ping() error {
	return b.producer.Ping()
}

// Close stops every consumer and the producer
func (b *Bus) Close() error {
	b.mu.Lock()
	consumers := b.consumers
	b.consumers = nil
	b.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
	}
	b.producer.Stop()
	logger.Info("NSQ bus closed", logger.Int("consumers", len(consumers)))
	return nil
}

var _ bus.Bus = (*Bus)(nil)
