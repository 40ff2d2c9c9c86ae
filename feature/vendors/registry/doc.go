// Package registry maintains a periodically refreshed local copy of the
// IEEE OUI registry and answers vendor lookups for hardware addresses.
//
// # Architecture
//
// The subsystem is built from small collaborating parts:
//
//   - Parser: turns the upstream text dump into vendor records.
//   - ListEntries: names and orders on-disk snapshot files by version.
//   - Store: loads the newest cache entry, or the embedded fallback.
//   - Coordinator: decides when a refresh is due, serializes writers
//     across processes, downloads, persists, and rotates snapshots.
//   - Scheduler: drives the coordinator on a timer.
//   - DB: the lookup surface over the current snapshot.
//
// # Consistency
//
// A snapshot is immutable; a refresh builds a complete new one and swaps a
// single atomic pointer ("build-then-swap"). Readers are lock-free and
// always see either the previous or the next complete snapshot, never a
// partially populated one. A failed refresh leaves everything in place.
//
// # Cache layout
//
// Cache entries are files named oui-<unixnano>.txt, written via temp-file
// plus rename and never modified in place. After a successful refresh only
// the three newest entries are retained. Writers sharing a cache directory
// serialize through a lock file derived from the directory path; the lock
// is a best-effort optimization and a writer that cannot acquire it simply
// skips the cycle.
//
// # Usage
//
//	db, err := registry.New(registry.DefaultConfig(), registry.Options{
//	    Events: events.NewZapSink(log),
//	})
//	defer db.Close()
//
//	rec, err := db.Lookup(hwAddr)
package registry
