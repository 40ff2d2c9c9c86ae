package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	entryPrefix = "oui-"
	entrySuffix = ".txt"
)

// CacheEntry describes one on-disk snapshot file.
type CacheEntry struct {
	// Path is the absolute or directory-relative file path.
	Path string
	// Sequence is the decimal tick encoded in the filename (Unix nanoseconds).
	Sequence int64
	// Version is the point in time the entry was written, derived 1:1
	// from Sequence.
	Version time.Time
}

// entryName builds the cache filename for a sequence number.
func entryName(seq int64) string {
	return entryPrefix + strconv.FormatInt(seq, 10) + entrySuffix
}

// parseEntryName extracts the sequence number from a cache filename.
func parseEntryName(name string) (int64, bool) {
	if !strings.HasPrefix(name, entryPrefix) || !strings.HasSuffix(name, entrySuffix) {
		return 0, false
	}
	seq, err := strconv.ParseInt(name[len(entryPrefix):len(name)-len(entrySuffix)], 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// ListEntries returns the cache entries in dir, newest first. Files that do
// not match the naming convention are ignored. An absent directory yields an
// empty result, not an error. The listing never touches file contents;
// creation and deletion belong to the update coordinator.
func ListEntries(dir string) ([]CacheEntry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []CacheEntry
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		seq, ok := parseEntryName(de.Name())
		if !ok {
			continue
		}
		entries = append(entries, CacheEntry{
			Path:     filepath.Join(dir, de.Name()),
			Sequence: seq,
			Version:  time.Unix(0, seq),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence > entries[j].Sequence
	})
	return entries, nil
}
