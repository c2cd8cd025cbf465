// Package scheduler runs named periodic tasks. A task never overlaps itself:
// a tick that arrives while the previous run is still in flight is skipped,
// not queued. Tickers are injectable so tests can drive ticks by hand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/piresc/busfleet/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	ErrUnknownTask    = errors.New("unknown task")
	ErrTaskRunning    = errors.New("task already running")
)

// Task is one unit of periodic work
type Task func(ctx context.Context) error

// Ticker is the subset of time.Ticker the scheduler needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker for a period
type TickerFactory func(period time.Duration) Ticker

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

// RealTicker is the production TickerFactory
func RealTicker(period time.Duration) Ticker {
	return realTicker{time.NewTicker(period)}
}

// Stats summarizes a job's history
type Stats struct {
	Runs    int64
	Skipped int64
	Failed  int64
}

type job struct {
	name     string
	period   time.Duration
	task     Task
	running  atomic.Bool
	runs     atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
	inFlight sync.WaitGroup
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithTickerFactory replaces the wall-clock ticker
func WithTickerFactory(f TickerFactory) Option {
	return func(s *Scheduler) { s.newTicker = f }
}

// WithSkipHook is called every time a tick is dropped because of an overrun
func WithSkipHook(hook func(name string)) Option {
	return func(s *Scheduler) { s.onSkip = hook }
}

// WithRunHook is called after every completed run
func WithRunHook(hook func(name string, elapsed time.Duration, err error)) Option {
	return func(s *Scheduler) { s.onRun = hook }
}

// Scheduler owns a set of periodic jobs
type Scheduler struct {
	mu        sync.Mutex
	jobs      map[string]*job
	order     []string
	newTicker TickerFactory
	onSkip    func(name string)
	onRun     func(name string, elapsed time.Duration, err error)
	cancel    context.CancelFunc
	group     *errgroup.Group
}

// New creates a Scheduler with no jobs
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:      make(map[string]*job),
		newTicker: RealTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Every registers task to run every period. Must be called before Start.
func (s *Scheduler) Every(name string, period time.Duration, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	if period <= 0 {
		return fmt.Errorf("task %s: period must be positive", name)
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}
	s.jobs[name] = &job{name: name, period: period, task: task}
	s.order = append(s.order, name)
	return nil
}

// Start launches one loop per job. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	s.cancel = cancel
	s.group = g

	for _, name := range s.order {
		j := s.jobs[name]
		g.Go(func() error {
			s.loop(gctx, j)
			return nil
		})
	}

	logger.Info("Scheduler started", logger.Strings("tasks", s.order))
	return nil
}

// Stop cancels every loop and waits for in-flight runs to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, g := s.cancel, s.group
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	_ = g.Wait()
	logger.Info("Scheduler stopped")
}

// RunNow executes a task synchronously, honoring the no-overlap rule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	if !j.running.CompareAndSwap(false, true) {
		s.skip(j)
		return ErrTaskRunning
	}
	start := time.Now()
	err := s.execute(ctx, j)
	j.running.Store(false)
	s.finish(j, time.Since(start), err)
	return err
}

// Stats returns counters for a registered task
func (s *Scheduler) Stats(name string) (Stats, bool) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return Stats{}, false
	}
	return Stats{Runs: j.runs.Load(), Skipped: j.skipped.Load(), Failed: j.failed.Load()}, true
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	ticker := s.newTicker(j.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.inFlight.Wait()
			return
		case <-ticker.C():
			s.trigger(ctx, j)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, j *job) {
	if !j.running.CompareAndSwap(false, true) {
		s.skip(j)
		return
	}

	j.inFlight.Add(1)
	go func() {
		defer j.inFlight.Done()
		start := time.Now()
		err := s.execute(ctx, j)
		j.running.Store(false)
		s.finish(j, time.Since(start), err)
	}()
}

func (s *Scheduler) skip(j *job) {
	j.skipped.Add(1)
	logger.Warn("Tick skipped, previous run still in progress",
		logger.String("task", j.name),
		logger.Int64("skipped_total", j.skipped.Load()))
	if s.onSkip != nil {
		s.onSkip(j.name)
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", j.name, r)
		}
	}()
	return j.task(ctx)
}

// finish records a completed run; the running flag is already cleared
func (s *Scheduler) finish(j *job, elapsed time.Duration, err error) {
	if err != nil {
		j.failed.Add(1)
		logger.Error("Scheduled task failed", logger.String("task", j.name), logger.Err(err))
	}
	j.runs.Add(1)
	if s.onRun != nil {
		s.onRun(j.name, elapsed, err)
	}
}
