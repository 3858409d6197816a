package nadfun

import (
	"fmt"
	"time"
)

var DefaultConfig = Config{
	BaseURL:           "https://api.nadapp.net",
	Timeout:           10 * time.Second,
	Burst:             10,
	RefillRate:        3,
	MaxRetries:        2,
	RetryBackoff:      time.Second,
	DefaultRetryAfter: 5 * time.Second,
	TTL: TTLConfig{
		Token:   10 * time.Minute,
		Market:  time.Minute,
		Metrics: time.Minute,
		Swaps:   30 * time.Second,
		Chart:   5 * time.Minute,
	},
}

type Config struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `yaml:"timeout"`
	// Burst is the token bucket capacity and RefillRate its refill speed in
	// tokens per second.
	Burst             int           `yaml:"burst"`
	RefillRate        float64       `yaml:"refill_rate"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	DefaultRetryAfter time.Duration `yaml:"default_retry_after"`
	TTL               TTLConfig     `yaml:"ttl"`
}

type TTLConfig struct {
	Token   time.Duration `yaml:"token"`
	Market  time.Duration `yaml:"market"`
	Metrics time.Duration `yaml:"metrics"`
	Swaps   time.Duration `yaml:"swaps"`
	Chart   time.Duration `yaml:"chart"`
}

func (cfg Config) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("'base_url' is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("'timeout' must be positive")
	}
	if cfg.Burst < 1 {
		return fmt.Errorf("'burst' must be at least 1")
	}
	if cfg.RefillRate <= 0 {
		return fmt.Errorf("'refill_rate' must be positive")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("'max_retries' must not be negative")
	}
	if cfg.RetryBackoff < 0 || cfg.DefaultRetryAfter < 0 {
		return fmt.Errorf("retry delays must not be negative")
	}
	return nil
}
