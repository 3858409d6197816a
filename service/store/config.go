package store

import (
	"fmt"
	"time"
)

var DefaultConfig = Config{
	BatchSize:  2,
	BatchDelay: 200 * time.Millisecond,
	Cooldown:   time.Minute,
	StaleAfter: 5 * time.Minute,
}

type Config struct {
	// BatchSize is the number of agents built concurrently.
	BatchSize  int           `yaml:"batch_size"`
	BatchDelay time.Duration `yaml:"batch_delay"`
	// Cooldown is the minimum interval between two non-forced refreshes of a
	// non-empty store.
	Cooldown   time.Duration `yaml:"cooldown"`
	StaleAfter time.Duration `yaml:"stale_after"`
	// ColdStartPrimaryOnly limits the first refresh of an empty store to the
	// primary tier of tracked tokens.
	ColdStartPrimaryOnly bool `yaml:"cold_start_primary_only"`
}

func (cfg Config) Validate() error {
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("'batch_size' must be positive")
	}
	if cfg.BatchDelay < 0 {
		return fmt.Errorf("'batch_delay' must not be negative")
	}
	if cfg.Cooldown < 0 {
		return fmt.Errorf("'cooldown' must not be negative")
	}
	if cfg.StaleAfter < cfg.Cooldown {
		return fmt.Errorf("'stale_after' must not be shorter than 'cooldown'")
	}
	return nil
}
