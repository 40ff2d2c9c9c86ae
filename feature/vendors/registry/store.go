package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"

	"ouidb/core/events"
)

// embeddedDump is a compressed copy of the registry shipped with the binary,
// used when no usable cache entry exists.
//
//go:embed embedded/oui.txt.gz
var embeddedDump []byte

// embeddedVersion is the fixed historical timestamp of the bundled dump.
var embeddedVersion = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// Store reads snapshots from the cache directory or the embedded fallback.
type Store struct {
	events events.Sink
}

// NewStore creates a snapshot store reporting through the given sink.
func NewStore(sink events.Sink) *Store {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Store{events: sink}
}

// LoadLatest loads the newest cache entry in dir into a Snapshot. It returns
// ErrNotFound when the directory holds no entries. Parse and IO failures are
// returned to the caller, which decides whether to fall back.
func (s *Store) LoadLatest(dir string) (*Snapshot, error) {
	entries, err := ListEntries(dir)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	s.events.Emit(events.Debug, CodeCacheListed,
		fmt.Sprintf("cache directory holds %d entries", len(entries)), nil)
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	newest := entries[0]
	f, err := os.Open(newest.Path)
	if err != nil {
		return nil, fmt.Errorf("opening cache entry: %w", err)
	}
	defer f.Close()

	snap, err := buildSnapshot(f, newest.Version)
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", newest.Path, err)
	}
	return snap, nil
}

// LoadEmbedded decompresses the bundled registry dump. It is the fallback
// of last resort and carries a fixed historical version.
func (s *Store) LoadEmbedded() (*Snapshot, error) {
	zr, err := gzip.NewReader(bytes.NewReader(embeddedDump))
	if err != nil {
		return nil, fmt.Errorf("opening embedded dump: %w", err)
	}
	defer zr.Close()

	snap, err := buildSnapshot(zr, embeddedVersion)
	if err != nil {
		return nil, fmt.Errorf("reading embedded dump: %w", err)
	}
	return snap, nil
}
