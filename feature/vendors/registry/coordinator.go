package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/singleflight"

	"ouidb/core/events"
)

const (
	// retainEntries bounds disk growth: older entries are pruned after a
	// successful refresh.
	retainEntries = 3

	lockWait  = 5 * time.Second
	lockRetry = 100 * time.Millisecond
)

// Coordinator decides whether a refresh is due, serializes refreshes across
// processes sharing a cache directory, downloads the registry dump, persists
// it, and atomically activates the resulting snapshot.
type Coordinator struct {
	cfg     Config
	fetcher Fetcher
	current *atomic.Pointer[Snapshot]
	events  events.Sink
	sf      singleflight.Group
	now     func() time.Time
}

// NewCoordinator wires a coordinator around the shared snapshot pointer.
func NewCoordinator(cfg Config, fetcher Fetcher, current *atomic.Pointer[Snapshot], sink events.Sink) *Coordinator {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Coordinator{
		cfg:     cfg,
		fetcher: fetcher,
		current: current,
		events:  sink,
		now:     time.Now,
	}
}

// Refresh runs one refresh cycle. Concurrent in-process calls collapse into
// a single cycle. A failed refresh leaves the current snapshot and the
// retained cache entries untouched; it is never fatal to lookups.
func (c *Coordinator) Refresh(ctx context.Context, force bool) error {
	_, err, _ := c.sf.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx, force)
	})
	return err
}

func (c *Coordinator) refresh(ctx context.Context, force bool) error {
	c.events.Emit(events.Debug, CodeRefreshStart,
		fmt.Sprintf("refresh cycle started (force=%t)", force), nil)
	c.events.Emit(events.Debug, CodeSourceResolved, "source is "+c.cfg.Source, nil)

	if c.cfg.CacheDir == "" {
		return c.refreshInMemory(ctx, force)
	}

	entries, err := ListEntries(c.cfg.CacheDir)
	if err != nil {
		c.events.Emit(events.Warn, CodeCacheListed, "cache enumeration failed", err)
		entries = nil
	} else {
		c.events.Emit(events.Debug, CodeCacheListed,
			fmt.Sprintf("cache directory holds %d entries", len(entries)), nil)
	}

	var preSeq int64
	if len(entries) > 0 {
		preSeq = entries[0].Sequence
	}

	if !force && len(entries) > 0 {
		newest := entries[0]
		// A cache entry newer than the active snapshot that is still
		// within the refresh cadence means a good, fresh source copy
		// already exists.
		if cur := c.current.Load(); cur != nil &&
			newest.Version.After(cur.Version()) &&
			newest.Version.Add(c.cfg.RefreshInterval).After(c.now()) {
			c.events.Emit(events.Debug, CodeRefreshSkipped, "cache is newer than active snapshot and fresh", nil)
			return nil
		}
		// Short-term backoff: never hammer the source on every tick.
		if newest.Version.Add(c.cfg.CheckInterval).After(c.now()) {
			c.events.Emit(events.Debug, CodeRefreshSkipped, "within check interval since last fetch", nil)
			return nil
		}
	}

	release, err := c.acquireLock(ctx)
	if err != nil {
		c.events.Emit(events.Warn, CodeLockUnavailable, "skipping refresh, cache directory is locked", err)
		return ErrLockUnavailable
	}
	defer release()

	// Another process may have refreshed while this one waited for the
	// lock; re-check the backoff gate against the now current listing.
	// A forced refresh still yields when a brand new entry has appeared,
	// so concurrent forced writers produce one download, not two.
	if entries, err := ListEntries(c.cfg.CacheDir); err == nil && len(entries) > 0 {
		newest := entries[0]
		fresh := newest.Version.Add(c.cfg.CheckInterval).After(c.now())
		if fresh && (!force || newest.Sequence > preSeq) {
			c.events.Emit(events.Debug, CodeRefreshSkipped, "another writer refreshed while waiting for the lock", nil)
			return nil
		}
	}

	return c.fetchAndActivate(ctx)
}

// refreshInMemory is the no-cache-directory path: fetch, parse, swap. The
// freshness gates run against the active snapshot since there are no
// entries to consult.
func (c *Coordinator) refreshInMemory(ctx context.Context, force bool) error {
	if !force {
		if cur := c.current.Load(); cur != nil &&
			cur.Version().Add(c.cfg.CheckInterval).After(c.now()) {
			c.events.Emit(events.Debug, CodeRefreshSkipped, "within check interval since last refresh", nil)
			return nil
		}
	}

	body, err := c.fetcher.Fetch(ctx, c.cfg.Source)
	if err != nil {
		c.events.Emit(events.Error, CodeDownloadFailed, "download failed", err)
		return err
	}
	defer body.Close()

	snap, err := buildSnapshot(body, c.now())
	if err != nil {
		c.events.Emit(events.Error, CodeParseFailed, "downloaded dump is malformed", err)
		return err
	}
	c.activate(snap)
	return nil
}

// fetchAndActivate streams the source into a temp file, parses it, renames
// it into a permanent cache entry, swaps the snapshot, and prunes old
// entries. It runs with the cross-process lock held.
func (c *Coordinator) fetchAndActivate(ctx context.Context) error {
	if err := os.MkdirAll(c.cfg.CacheDir, 0o755); err != nil {
		c.events.Emit(events.Error, CodeDownloadFailed, "cannot create cache directory", err)
		return err
	}

	body, err := c.fetcher.Fetch(ctx, c.cfg.Source)
	if err != nil {
		c.events.Emit(events.Error, CodeDownloadFailed, "download failed", err)
		return err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(c.cfg.CacheDir, "oui-download-*.tmp")
	if err != nil {
		c.events.Emit(events.Error, CodeDownloadFailed, "cannot create temp file", err)
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		c.events.Emit(events.Error, CodeDownloadFailed, "download interrupted", err)
		return &TransportError{URI: c.cfg.Source, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		c.events.Emit(events.Error, CodeDownloadFailed, "closing temp file", err)
		return err
	}

	// Parse before the rename so a corrupt download never becomes a cache
	// entry and the retained entries stay untouched.
	now := c.now()
	f, err := os.Open(tmpName)
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	snap, err := buildSnapshot(f, now)
	f.Close()
	if err != nil {
		os.Remove(tmpName)
		c.events.Emit(events.Error, CodeParseFailed, "downloaded dump is malformed", err)
		return err
	}

	final := filepath.Join(c.cfg.CacheDir, entryName(now.UnixNano()))
	c.events.Emit(events.Debug, CodeSourceResolved, "target is "+final, nil)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		c.events.Emit(events.Error, CodeDownloadFailed, "persisting cache entry", err)
		return err
	}

	c.activate(snap)
	c.prune()
	return nil
}

func (c *Coordinator) activate(snap *Snapshot) {
	c.current.Store(snap)
	c.events.Emit(events.Info, CodeSnapshotActivated,
		fmt.Sprintf("snapshot %s active with %d vendors", snap.Version().Format(time.RFC3339), snap.Count()), nil)
}

// prune deletes cache entries beyond the retained bound, oldest first.
// Failures are reported and otherwise ignored.
func (c *Coordinator) prune() {
	entries, err := ListEntries(c.cfg.CacheDir)
	if err != nil {
		c.events.Emit(events.Warn, CodeEntriesPruned, "cache enumeration failed during retention", err)
		return
	}
	for i := len(entries) - 1; i >= retainEntries; i-- {
		if err := os.Remove(entries[i].Path); err != nil {
			c.events.Emit(events.Warn, CodeEntriesPruned, "removing old cache entry "+entries[i].Path, err)
			continue
		}
		c.events.Emit(events.Debug, CodeEntriesPruned, "removed old cache entry "+entries[i].Path, nil)
	}
}

// acquireLock takes the directory-scoped cross-process lock. It is a
// best-effort optimization: a writer that cannot get the lock promptly
// skips this cycle instead of blocking readers or deadlocking.
func (c *Coordinator) acquireLock(ctx context.Context) (func(), error) {
	fl := flock.New(lockPath(c.cfg.CacheDir))

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	if !locked {
		return nil, ErrLockUnavailable
	}
	return func() { _ = fl.Unlock() }, nil
}

// lockPath derives a sanitized, length-bounded lock file name from the
// cache directory so independent processes sharing a directory serialize
// their writers.
func lockPath(dir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(dir)))
	return filepath.Join(os.TempDir(), "ouidb-"+hex.EncodeToString(sum[:8])+".lock")
}
