// Package bus is the publish/subscribe seam between the engine and its
// transports. Payloads are JSON encoded unless they are already []byte.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClosed is returned after Close
var ErrClosed = errors.New("bus closed")

// Handler processes one delivered message
type Handler func(ctx context.Context, data []byte) error

// Publisher publishes payloads to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Subscriber registers handlers for a topic. The returned func unsubscribes.
type Subscriber interface {
	Subscribe(topic string, handler Handler) (func(), error)
}

// Bus is a Publisher and Subscriber that can be closed
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

// Encode turns a payload into wire bytes
func Encode(payload interface{}) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}
