package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ouidb/core/events"
)

// refresher is what the scheduler drives; satisfied by *Coordinator.
type refresher interface {
	Refresh(ctx context.Context, force bool) error
}

// Scheduler triggers the update coordinator on a timer. Tick failures are
// reported as events and never propagate; a background refresh must never
// crash the host process.
type Scheduler struct {
	target   refresher
	events   events.Sink
	interval time.Duration
	initial  time.Duration
	force    bool

	mu      sync.Mutex
	started bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

// newScheduler builds a scheduler. The first tick fires immediately when
// the initial load ran asynchronously (immediateFirst), otherwise after one
// full refresh interval. forceFirst prioritizes getting a real snapshot
// after a failed initial load; it clears after one successful forced cycle.
func newScheduler(target refresher, sink events.Sink, cfg Config, immediateFirst, forceFirst bool) *Scheduler {
	if sink == nil {
		sink = events.Nop{}
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = cfg.RefreshInterval
	}
	initial := cfg.RefreshInterval
	if immediateFirst {
		initial = 0
	}
	return &Scheduler{
		target:   target,
		events:   sink,
		interval: interval,
		initial:  initial,
		force:    forceFirst,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the timer goroutine. Starting after Stop is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)
	t := time.NewTimer(s.initial)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.tick()
			t.Reset(s.interval)
		}
	}
}

func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.events.Emit(events.Error, CodeSchedulerFault,
				fmt.Sprintf("refresh tick panicked: %v", r), nil)
		}
	}()

	if err := s.target.Refresh(context.Background(), s.force); err == nil {
		s.force = false
	}
}

// Stop halts the timer synchronously. It is idempotent and does not
// interrupt an in-flight refresh.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	running := s.started
	s.mu.Unlock()

	if running {
		close(s.stop)
		<-s.done
	}
}
