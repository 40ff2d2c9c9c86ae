package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRefresher records each tick's force flag.
type fakeRefresher struct {
	mu     sync.Mutex
	forces []bool
	errs   []error
}

func (f *fakeRefresher) Refresh(ctx context.Context, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forces = append(f.forces, force)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

func (f *fakeRefresher) snapshot() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forces...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestScheduler_ImmediateFirstTick(t *testing.T) {
	fake := &fakeRefresher{}
	cfg := Config{CheckInterval: time.Hour, RefreshInterval: 24 * time.Hour}

	s := newScheduler(fake, nil, cfg, true, false)
	s.Start()
	defer s.Stop()

	waitFor(t, func() bool { return len(fake.snapshot()) >= 1 })
	assert.False(t, fake.snapshot()[0])
}

func TestScheduler_DelayedFirstTickAfterSyncLoad(t *testing.T) {
	fake := &fakeRefresher{}
	cfg := Config{CheckInterval: time.Hour, RefreshInterval: 24 * time.Hour}

	// Synchronous initial load already produced a snapshot; the first
	// tick waits a full refresh interval.
	s := newScheduler(fake, nil, cfg, false, false)
	s.Start()
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fake.snapshot())
}

func TestScheduler_ForceClearsAfterSuccess(t *testing.T) {
	fake := &fakeRefresher{errs: []error{errors.New("source down")}}
	cfg := Config{CheckInterval: 10 * time.Millisecond, RefreshInterval: 24 * time.Hour}

	s := newScheduler(fake, nil, cfg, true, true)
	s.Start()
	defer s.Stop()

	waitFor(t, func() bool { return len(fake.snapshot()) >= 3 })
	forces := fake.snapshot()

	// Tick 1 forced and failed, tick 2 forced and succeeded, then clear.
	require.True(t, forces[0])
	require.True(t, forces[1])
	assert.False(t, forces[2])
}

func TestScheduler_StopIsIdempotentAndSynchronous(t *testing.T) {
	fake := &fakeRefresher{}
	cfg := Config{CheckInterval: 5 * time.Millisecond, RefreshInterval: 24 * time.Hour}

	s := newScheduler(fake, nil, cfg, true, false)
	s.Start()
	waitFor(t, func() bool { return len(fake.snapshot()) >= 1 })

	s.Stop()
	n := len(fake.snapshot())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, len(fake.snapshot()), "no ticks after Stop returns")

	s.Stop() // second stop is a no-op
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := newScheduler(&fakeRefresher{}, nil, Config{CheckInterval: time.Hour, RefreshInterval: time.Hour}, true, false)
	s.Stop()
	s.Start() // must not launch after Stop
	time.Sleep(20 * time.Millisecond)
}

type panicRefresher struct{ ticked chan struct{} }

func (p *panicRefresher) Refresh(context.Context, bool) error {
	select {
	case p.ticked <- struct{}{}:
	default:
	}
	panic("boom")
}

func TestScheduler_RecoverFromPanic(t *testing.T) {
	p := &panicRefresher{ticked: make(chan struct{}, 1)}
	cfg := Config{CheckInterval: 5 * time.Millisecond, RefreshInterval: 24 * time.Hour}

	s := newScheduler(p, nil, cfg, true, false)
	s.Start()
	defer s.Stop()

	select {
	case <-p.ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never ticked")
	}
	// A panicking tick must not kill the scheduler goroutine.
	select {
	case <-p.ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler died after panic")
	}
}
