package agent

import "fmt"

var DefaultConfig = Config{
	MetricTimeframes:     "60,360,1440",
	TradeLimit:           20,
	FallbackUSDPerNative: 18,
}

type Config struct {
	// MetricTimeframes is the comma separated list of windows, in minutes,
	// requested from the metrics endpoint.
	MetricTimeframes string `yaml:"metric_timeframes"`
	TradeLimit       int    `yaml:"trade_limit"`
	// FallbackUSDPerNative converts native volume when the market data does
	// not allow deriving the rate.
	FallbackUSDPerNative float64 `yaml:"fallback_usd_per_native"`
}

func (cfg Config) Validate() error {
	if cfg.MetricTimeframes == "" {
		return fmt.Errorf("'metric_timeframes' is required")
	}
	if cfg.TradeLimit < 0 {
		return fmt.Errorf("'trade_limit' must not be negative")
	}
	if cfg.FallbackUSDPerNative <= 0 {
		return fmt.Errorf("'fallback_usd_per_native' must be positive")
	}
	return nil
}
