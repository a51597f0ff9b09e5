package contest

import (
	"errors"
	"fmt"
	"time"
)

// Cycle names used by the scheduler, the logs and the metrics.
const (
	CycleFull        = "full"
	CycleIncremental = "incremental"
	CycleKeepalive   = "keepalive"
)

// SyncConfig holds the cycle intervals and provider selection.
type SyncConfig struct {
	// Providers are fetched by the full and incremental cycles.
	Providers []string `mapstructure:"providers" default:"codeforces,codechef"`
	// KeepaliveProviders are pinged by the keepalive cycle.
	KeepaliveProviders []string `mapstructure:"keepalive_providers" default:"codeforces"`
	// FullInterval is the period of the full cycle.
	FullInterval time.Duration `mapstructure:"full_interval" default:"90m"`
	// IncrementalInterval is the period of the incremental cycle.
	IncrementalInterval time.Duration `mapstructure:"incremental_interval" default:"60m"`
	// KeepaliveInterval is the period of the keepalive cycle.
	KeepaliveInterval time.Duration `mapstructure:"keepalive_interval" default:"13m"`
	// IncrementalWindow selects contests starting within this window for incremental runs.
	IncrementalWindow time.Duration `mapstructure:"incremental_window" default:"48h"`
	// ArchiveSnapshots writes every normalized full batch to object storage.
	ArchiveSnapshots bool `mapstructure:"archive_snapshots" default:"false"`
}

// Validate checks intervals and provider lists.
func (c SyncConfig) Validate() error {
	var errs []error

	intervals := []struct {
		name  string
		value time.Duration
	}{
		{"sync.full_interval", c.FullInterval},
		{"sync.incremental_interval", c.IncrementalInterval},
		{"sync.keepalive_interval", c.KeepaliveInterval},
		{"sync.incremental_window", c.IncrementalWindow},
	}
	for _, iv := range intervals {
		if iv.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", iv.name, iv.value))
		}
	}

	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("sync.providers must name at least one provider"))
	}

	return errors.Join(errs...)
}
