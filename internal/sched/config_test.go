// internal/sched/config_test.go

package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("")
	assert.Equal(t, 1, cfg.TickMS)
	assert.Equal(t, 1000, cfg.MaxSleepMS)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CSVLog)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg := Load("does-not-exist.yml")
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "tick_ms: 5\nmax_sleep_ms: 2\nlog_level: debug\ncsv_log: out.csv\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := Load(path)
	assert.Equal(t, 5, cfg.TickMS)
	assert.Equal(t, 1000, cfg.MaxSleepMS, "a cap below the tick floor resets to default")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out.csv", cfg.CSVLog)
}
