package bus

import (
	"context"
	"sync"

	"github.com/piresc/busfleet/internal/pkg/logger"
)

type subscription struct {
	id      uint64
	handler Handler
}

// MemoryBus delivers synchronously to in-process subscribers
type MemoryBus struct {
	mu       sync.RWMutex
	subs     map[string][]subscription
	nextID   uint64
	history  map[string][][]byte
	keepLast int
	closed   bool
}

// NewMemoryBus creates a MemoryBus that remembers the last keepLast payloads per topic
func NewMemoryBus(keepLast int) *MemoryBus {
	return &MemoryBus{
		subs:     make(map[string][]subscription),
		history:  make(map[string][][]byte),
		keepLast: keepLast,
	}
}

// Publish encodes payload and hands it to every subscriber of topic in order
func (b *MemoryBus) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.keepLast > 0 {
		h := append(b.history[topic], data)
		if len(h) > b.keepLast {
			h = h[len(h)-b.keepLast:]
		}
		b.history[topic] = h
	}
	subs := append([]subscription(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, s := range subs {
		if err := s.handler(ctx, data); err != nil {
			logger.WarnCtx(ctx, "Bus subscriber failed",
				logger.String("topic", topic),
				logger.Err(err))
		}
	}
	return nil
}

// Subscribe adds handler for topic
func (b *MemoryBus) Subscribe(topic string, handler Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}, nil
}

func (b *MemoryBus) unsubscribe(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Messages returns the remembered payloads for topic, oldest first
func (b *MemoryBus) Messages(topic string) [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][]byte(nil), b.history[topic]...)
}

// Close drops every subscriber and rejects further use
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[string][]subscription)
	return nil
}
