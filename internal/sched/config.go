// internal/sched/config.go

package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml and tunes the outer driver loop, not the
// scheduler core: batch sizes and run budgets are fixed by design.
type Config struct {
	TickMS     int    `yaml:"tick_ms"`      // sleep resolution floor, 1 (by default)
	MaxSleepMS int    `yaml:"max_sleep_ms"` // longest idle sleep, 1000 (by default)
	CSVLog     string `yaml:"csv_log"`      // telemetry CSV path, disabled when empty
	LogLevel   string `yaml:"log_level"`    // zerolog level, "info" (by default)
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		TickMS:     1,
		MaxSleepMS: 1000,
		LogLevel:   "info",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 1
	}
	if cfg.MaxSleepMS < cfg.TickMS {
		cfg.MaxSleepMS = 1000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg
}
