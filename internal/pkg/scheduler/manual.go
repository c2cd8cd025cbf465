package scheduler

import (
	"sync"
	"time"
)

// ManualTicker is a Ticker whose ticks are sent by the caller
type ManualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.once.Do(func() { close(t.stopped) })
}

// Tick delivers one tick and blocks until the scheduler loop receives it.
// It returns false if the ticker was stopped first.
func (t *ManualTicker) Tick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-t.stopped:
		return false
	}
}

// ManualClock hands out ManualTickers keyed by period
type ManualClock struct {
	mu      sync.Mutex
	tickers map[time.Duration]*ManualTicker
	ready   chan struct{}
}

// NewManualClock creates an empty ManualClock
func NewManualClock() *ManualClock {
	return &ManualClock{
		tickers: make(map[time.Duration]*ManualTicker),
		ready:   make(chan struct{}, 64),
	}
}

// Factory is the TickerFactory to pass to WithTickerFactory
func (c *ManualClock) Factory(period time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &ManualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
	c.tickers[period] = t
	c.ready <- struct{}{}
	return t
}

// Ticker returns the ticker created for period, waiting for the loop to create it
func (c *ManualClock) Ticker(period time.Duration) *ManualTicker {
	for {
		c.mu.Lock()
		t, ok := c.tickers[period]
		c.mu.Unlock()
		if ok {
			return t
		}
		<-c.ready
	}
}
