package vendor

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"ouidb/feature/vendors/registry"
)

// Service exposes vendor lookups over the registry subsystem.
type Service struct {
	db     *registry.DB
	logger *zap.Logger
}

// NewService creates a new vendor service.
func NewService(db *registry.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Stats summarizes the active snapshot.
type Stats struct {
	// Count is the number of vendor records.
	Count int `json:"count"`
	// Version is the snapshot's version timestamp.
	Version time.Time `json:"version"`
}

// Lookup parses the given hardware address and resolves its vendor.
// Unparseable input is reported distinctly from a lookup miss.
func (s *Service) Lookup(address string) (registry.VendorRecord, error) {
	addr, err := net.ParseMAC(address)
	if err != nil {
		return registry.VendorRecord{}, fmt.Errorf("parsing hardware address %q: %w", address, err)
	}
	return s.db.Lookup(addr)
}

// Stats returns the current snapshot statistics.
func (s *Service) Stats() Stats {
	return Stats{Count: s.db.Count(), Version: s.db.Version()}
}

// Refresh triggers a refresh cycle.
func (s *Service) Refresh(ctx context.Context, force bool) error {
	return s.db.Refresh(ctx, force)
}
