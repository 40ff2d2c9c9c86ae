package registry

import "time"

// DefaultSource is the public location of the registry text dump.
const DefaultSource = "https://standards-oui.ieee.org/oui/oui.txt"

// Config holds configuration for the registry subsystem.
type Config struct {
	// AutoRefresh enables the background refresh scheduler.
	AutoRefresh bool `mapstructure:"auto_refresh" default:"true"`
	// CacheDir is where snapshot files are kept. Empty disables on-disk
	// caching; the subsystem then runs on the embedded fallback plus
	// in-memory-only refreshes.
	CacheDir string `mapstructure:"cache_dir" default:""`
	// CheckInterval is the short-term backoff between source checks,
	// independent of the full refresh cadence.
	CheckInterval time.Duration `mapstructure:"check_interval" default:"1h"`
	// RefreshInterval is how old a cached snapshot may grow before a new
	// one is fetched.
	RefreshInterval time.Duration `mapstructure:"refresh_interval" default:"24h"`
	// Source is the location of the registry dump. http(s):// URLs are
	// fetched directly; s3://bucket/key reads from the configured object
	// storage.
	Source string `mapstructure:"source" default:"https://standards-oui.ieee.org/oui/oui.txt"`
	// SyncInitialLoad makes the constructor block until the initial
	// snapshot is loaded.
	SyncInitialLoad bool `mapstructure:"sync_initial_load" default:"false"`
	// FailInitialLoad surfaces initial load failures from the constructor
	// instead of falling back to the embedded snapshot. Implies a
	// synchronous initial load.
	FailInitialLoad bool `mapstructure:"fail_initial_load" default:"false"`
}

// DefaultConfig returns the configuration used by the lazily initialized
// shared instance.
func DefaultConfig() Config {
	return Config{
		AutoRefresh:     true,
		CheckInterval:   time.Hour,
		RefreshInterval: 24 * time.Hour,
		Source:          DefaultSource,
	}
}
