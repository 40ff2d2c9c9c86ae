package registry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"ouidb/core/events"
	"ouidb/core/storage"
)

// Options carries the injectable collaborators of the subsystem. All fields
// are optional.
type Options struct {
	// Events receives diagnostic events; defaults to a no-op sink.
	Events events.Sink
	// Fetcher overrides the source transport (defaults to one selected
	// by the source URI scheme).
	Fetcher Fetcher
	// Storage backs s3:// sources.
	Storage storage.Client
}

// DB is the vendor registry subsystem: a lookup index over the current
// snapshot plus the machinery that keeps it fresh. Readers never block on
// refresh activity; they always observe one complete snapshot.
type DB struct {
	cfg     Config
	current atomic.Pointer[Snapshot]
	co      *Coordinator
	sched   *Scheduler
	events  events.Sink

	closeOnce sync.Once
}

// New constructs the subsystem and performs the initial load. With
// SyncInitialLoad (or FailInitialLoad) set the call blocks until a snapshot
// is active; otherwise loading proceeds in the background and the first
// scheduled refresh fires immediately.
func New(cfg Config, opts Options) (*DB, error) {
	sink := opts.Events
	if sink == nil {
		sink = events.Nop{}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		var err error
		fetcher, err = ForSource(cfg.Source, opts.Storage)
		if err != nil {
			return nil, err
		}
	}

	db := &DB{cfg: cfg, events: sink}
	db.co = NewCoordinator(cfg, fetcher, &db.current, sink)

	syncLoad := cfg.SyncInitialLoad || cfg.FailInitialLoad
	db.sched = newScheduler(db.co, sink, cfg, !syncLoad, false)

	if syncLoad {
		err := db.load()
		if err != nil {
			if cfg.FailInitialLoad {
				return nil, err
			}
			sink.Emit(events.Warn, CodeInitialLoadFailed, "initial snapshot load failed", err)
			db.sched.force = true
		}
		db.startScheduler()
		return db, nil
	}

	go func() {
		if err := db.load(); err != nil {
			sink.Emit(events.Warn, CodeInitialLoadFailed, "initial snapshot load failed", err)
			db.sched.force = true
		}
		db.startScheduler()
	}()
	return db, nil
}

func (db *DB) startScheduler() {
	if db.cfg.AutoRefresh && db.cfg.RefreshInterval > 0 {
		db.sched.Start()
	}
}

// load installs the newest valid on-disk snapshot, falling back to the
// embedded one when no usable cache entry exists. The returned error is
// non-nil only when a snapshot that should have loaded did not.
func (db *DB) load() error {
	store := NewStore(db.events)

	var loadErr error
	if db.cfg.CacheDir != "" {
		snap, err := store.LoadLatest(db.cfg.CacheDir)
		if err == nil {
			db.current.Store(snap)
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			loadErr = err
		}
	}

	snap, err := store.LoadEmbedded()
	if err != nil {
		if loadErr != nil {
			return fmt.Errorf("%w (embedded fallback also failed: %v)", loadErr, err)
		}
		return err
	}
	db.current.Store(snap)
	db.events.Emit(events.Info, CodeFallbackActive,
		"serving embedded snapshot from "+snap.Version().Format(time.RFC3339), nil)
	return loadErr
}

// Lookup resolves the vendor that registered the address's OUI. The low 24
// bits of the address are ignored. A miss returns ErrNotFound; staleness is
// invisible to this API.
func (db *DB) Lookup(addr net.HardwareAddr) (VendorRecord, error) {
	p, ok := PrefixOf(addr)
	if !ok {
		return VendorRecord{}, ErrNotFound
	}
	snap := db.current.Load()
	if snap == nil {
		return VendorRecord{}, ErrNotFound
	}
	rec, ok := snap.Lookup(p)
	if !ok {
		return VendorRecord{}, ErrNotFound
	}
	return rec, nil
}

// Contains reports whether the address's OUI is registered.
func (db *DB) Contains(addr net.HardwareAddr) bool {
	_, err := db.Lookup(addr)
	return err == nil
}

// Count returns the number of vendor records in the current snapshot.
func (db *DB) Count() int {
	if snap := db.current.Load(); snap != nil {
		return snap.Count()
	}
	return 0
}

// Version returns the current snapshot's version, zero if none is active.
func (db *DB) Version() time.Time {
	if snap := db.current.Load(); snap != nil {
		return snap.Version()
	}
	return time.Time{}
}

// All enumerates every (prefix, record) pair. The iteration observes the
// single snapshot that was current when All was called, even if a refresh
// swaps the pointer mid-enumeration.
func (db *DB) All() iter.Seq2[Prefix, VendorRecord] {
	snap := db.current.Load()
	if snap == nil {
		return func(func(Prefix, VendorRecord) bool) {}
	}
	return snap.All()
}

// Refresh runs one refresh cycle now. See Coordinator.Refresh.
func (db *DB) Refresh(ctx context.Context, force bool) error {
	return db.co.Refresh(ctx, force)
}

// Close stops the background scheduler. It is idempotent and does not
// interrupt an in-flight refresh.
func (db *DB) Close() {
	db.closeOnce.Do(db.sched.Stop)
}

var (
	defaultOnce sync.Once
	defaultDB   *DB
	defaultErr  error
)

// Default returns a lazily initialized shared instance built from
// DefaultConfig. Prefer constructing and injecting your own DB; this
// accessor exists as a convenience for simple callers.
func Default() (*DB, error) {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = New(DefaultConfig(), Options{})
	})
	return defaultDB, defaultErr
}
