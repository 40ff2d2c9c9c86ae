package vendor

import (
	"errors"
	"testing"
	"time"

	"ouidb/feature/vendors/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := registry.Config{
		CheckInterval:   time.Hour,
		RefreshInterval: 24 * time.Hour,
		Source:          "https://registry.invalid/oui.txt",
		SyncInitialLoad: true,
	}
	db, err := registry.New(cfg, registry.Options{})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewService(db, zap.NewNop())
}

func TestService_Lookup(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		address string
		wantOrg string
		miss    bool
		bad     bool
	}{
		{name: "ColonForm", address: "00:22:72:a1:b2:c3", wantOrg: "American Micro-Fuel Device Corp."},
		{name: "HyphenForm", address: "00-22-72-a1-b2-c3", wantOrg: "American Micro-Fuel Device Corp."},
		{name: "DotForm", address: "0022.72a1.b2c3", wantOrg: "American Micro-Fuel Device Corp."},
		{name: "Miss", address: "aa:bb:cc:dd:ee:ff", miss: true},
		{name: "Garbage", address: "hello", bad: true},
		{name: "Empty", address: "", bad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.Lookup(tt.address)
			switch {
			case tt.miss:
				assert.ErrorIs(t, err, registry.ErrNotFound)
			case tt.bad:
				require.Error(t, err)
				assert.False(t, errors.Is(err, registry.ErrNotFound),
					"unparseable input is not a lookup miss")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantOrg, rec.Organization)
			}
		})
	}
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t)
	stats := svc.Stats()
	assert.Equal(t, 10, stats.Count)
	assert.False(t, stats.Version.IsZero())
}
