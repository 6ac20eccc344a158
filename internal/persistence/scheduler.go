package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/shubham-0921/kbc-ai/internal/event"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
)

// DefaultDebounce is the coalescing window for snapshot writes.
const DefaultDebounce = 500 * time.Millisecond

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler debounces snapshot writes. Each Schedule cancels the pending
// write and re-arms the timer, so only the last state of a burst is saved.
// States in the home phase are never written.
type Scheduler struct {
	snapshots *Snapshots
	delay     time.Duration
	afterFunc AfterFunc
	logger    *logging.Logger

	mu      sync.Mutex
	pending *game.State
	timer   Timer
	gen     uint64

	// writeMu serializes store writes so a slow write cannot be overtaken
	// by a newer one.
	writeMu sync.Mutex

	subs []string
	bus  *event.Bus
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithAfterFunc replaces the timer factory. Tests use it to fire writes by
// hand.
func WithAfterFunc(fn AfterFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.afterFunc = fn
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *logging.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// NewScheduler creates a Scheduler writing through snapshots. A
// non-positive delay uses DefaultDebounce.
func NewScheduler(snapshots *Snapshots, delay time.Duration, opts ...SchedulerOption) *Scheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s := &Scheduler{
		snapshots: snapshots,
		delay:     delay,
		afterFunc: realAfterFunc,
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("persistence")
	return s
}

// Schedule queues state for writing after the debounce window. A home-phase
// state cancels any pending write instead.
func (s *Scheduler) Schedule(state game.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	if state.GamePhase == game.PhaseHome {
		return
	}

	s.pending = &state
	gen := s.gen
	s.timer = s.afterFunc(s.delay, func() { s.fire(gen) })
}

// Cancel drops any pending write.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending reports whether a write is waiting for its timer.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.gen++
}

// fire runs on the timer goroutine. A stale generation means the write was
// superseded or canceled after the timer had already fired.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	state := *s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.write(context.Background(), state)
}

func (s *Scheduler) write(ctx context.Context, state game.State) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Dropped faults are already logged by Snapshots.
	if err := s.snapshots.Save(ctx, state); err == nil {
		s.logger.Debug("snapshot saved", "phase", state.GamePhase.String())
	}
}

// Flush writes the pending state immediately, if any.
func (s *Scheduler) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	state := *s.pending
	s.cancelLocked()
	s.mu.Unlock()

	s.write(ctx, state)
}

// Attach subscribes the scheduler to bus: every state change is scheduled
// and a game reset cancels pending writes and clears the saved game.
func (s *Scheduler) Attach(bus *event.Bus) {
	s.Detach()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus = bus
	s.subs = []string{
		bus.Subscribe(event.TypeStateChanged, func(e event.Event) {
			if changed, ok := e.(event.StateChangedEvent); ok {
				s.Schedule(changed.State)
			}
		}),
		bus.Subscribe(event.TypeGameReset, func(event.Event) {
			s.Cancel()
			s.writeMu.Lock()
			defer s.writeMu.Unlock()
			if err := s.snapshots.Clear(context.Background()); err != nil {
				s.logger.Warn("clearing saved game failed", "error", err.Error())
			}
		}),
	}
}

// Detach removes the bus subscriptions made by Attach.
func (s *Scheduler) Detach() {
	s.mu.Lock()
	bus, subs := s.bus, s.subs
	s.bus, s.subs = nil, nil
	s.mu.Unlock()

	for _, id := range subs {
		bus.Unsubscribe(id)
	}
}

// Close detaches from the bus and flushes any pending write.
func (s *Scheduler) Close(ctx context.Context) {
	s.Detach()
	s.Flush(ctx)
}
