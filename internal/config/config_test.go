package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.BatchingEnabled)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 100*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.NotifyCooldown)
	assert.Equal(t, 64.0, cfg.SyncRadius)
	assert.Equal(t, 5.0, cfg.DefaultDamage)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BATCHING_ENABLED", "false")
	t.Setenv("FLUSH_INTERVAL_MS", "250")
	t.Setenv("SYNC_RADIUS", "32.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.False(t, cfg.BatchingEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, 32.5, cfg.SyncRadius)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "loud"},
		{"zero flush interval", "FLUSH_INTERVAL_MS", "0"},
		{"negative radius", "SYNC_RADIUS", "-1"},
		{"zero cache size", "CACHE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestBoolParsingFallsBackToDefault(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheEnabled, cfg.CacheEnabled)
}
