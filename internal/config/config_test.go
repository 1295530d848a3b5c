package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 15*time.Second, cfg.Refresh.FetchTimeout)
	assert.True(t, cfg.Sources.Seismic.Enabled)
	assert.True(t, cfg.Sources.Cyclone.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("FLOOD_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("WEATHER_MAX_BODY_BYTES", "67108864")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(64<<20), cfg.Sources.Weather.MaxBodyBytes)
	assert.Equal(t, int64(32<<20), cfg.Sources.Seismic.MaxBodyBytes)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.False(t, cfg.Sources.Flood.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("REFRESH_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Refresh.Interval)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"interval too short", map[string]string{"REFRESH_INTERVAL": "30s"}},
		{"zero fetch timeout", map[string]string{"FETCH_TIMEOUT": "0s"}},
		{"zero max body", map[string]string{"CYCLONE_MAX_BODY_BYTES": "0"}},
		{"no sources", map[string]string{
			"SEISMIC_ENABLED": "false", "WEATHER_ENABLED": "false", "FLOOD_ENABLED": "false",
			"WILDFIRE_ENABLED": "false", "CYCLONE_ENABLED": "false",
		}},
		{"zero workers", map[string]string{"WORKER_COUNT": "0"}},
		{"zero rate limit", map[string]string{"RATE_LIMIT_RPS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
