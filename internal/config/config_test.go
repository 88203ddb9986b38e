package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses sections and applies defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
# comment
database:
  host: db.local
  port: 5433
  user: dashboard
  password: "secret"
  database: restaurant

mqtt:
  broker_url: tcp://broker.local:1883
  connect_timeout_seconds: 10

http:
  port: 8080
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "secret", cfg.Database.Password)
		assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.BrokerURL)
		assert.Equal(t, 10*time.Second, cfg.MQTT.ConnectTimeout)
		assert.Equal(t, 8080, cfg.HTTP.Port)

		// Untouched keys keep their defaults.
		assert.Equal(t, 30*time.Second, cfg.MQTT.Keepalive)
		assert.Equal(t, 5*time.Second, cfg.MQTT.ReconnectPeriod)
		assert.Equal(t, 5, cfg.MQTT.MaxReconnectAttempts)
		assert.Equal(t, "admin_dashboard", cfg.MQTT.ClientIDPrefix)
	})

	t.Run("requires a broker url", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
database:
  host: db.local
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid durations fall back to defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
mqtt:
  broker_url: tcp://broker.local:1883
  keepalive_seconds: soon
  publish_timeout_seconds: -3
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.MQTT.Keepalive)
		assert.Equal(t, 5*time.Second, cfg.MQTT.PublishTimeout)
	})
}
