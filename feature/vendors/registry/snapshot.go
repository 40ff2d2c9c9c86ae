package registry

import (
	"io"
	"iter"
	"time"
)

// Snapshot is one complete, immutable, versioned copy of the vendor
// registry. It is built once and never mutated; a refresh produces a brand
// new Snapshot and atomically replaces the current one.
type Snapshot struct {
	version time.Time
	records map[Prefix]VendorRecord
}

// buildSnapshot drains a registry text stream into a Snapshot. Duplicate
// prefixes keep the first occurrence. An empty parse result is a format
// error, never a valid snapshot.
func buildSnapshot(r io.Reader, version time.Time) (*Snapshot, error) {
	records := make(map[Prefix]VendorRecord)
	parser := NewParser(r)
	for {
		rec, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, seen := records[rec.Prefix]; seen {
			continue
		}
		records[rec.Prefix] = rec
	}
	if len(records) == 0 {
		return nil, &FormatError{Msg: "no vendor records in input"}
	}
	return &Snapshot{version: version, records: records}, nil
}

// Version returns the point in time this snapshot represents.
func (s *Snapshot) Version() time.Time { return s.version }

// Count returns the number of vendor records.
func (s *Snapshot) Count() int { return len(s.records) }

// Lookup returns the record registered for the given prefix.
func (s *Snapshot) Lookup(p Prefix) (VendorRecord, bool) {
	rec, ok := s.records[p]
	return rec, ok
}

// All iterates over every (prefix, record) pair in unspecified order.
func (s *Snapshot) All() iter.Seq2[Prefix, VendorRecord] {
	return func(yield func(Prefix, VendorRecord) bool) {
		for p, rec := range s.records {
			if !yield(p, rec) {
				return
			}
		}
	}
}
