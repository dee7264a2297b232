package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
devices:
  - sim://bench
  - http://lab-pc:8181
discovery:
  mdns: true
  timeout: 5s
bridge:
  listen: 127.0.0.1:9000
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, []string{"sim://bench", "http://lab-pc:8181"}, cfg.Devices)
	assert.True(t, cfg.Discovery.MDNS)
	assert.Equal(t, 5*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulator.Interval)
	assert.Equal(t, "127.0.0.1:9000", cfg.Bridge.Listen)
	assert.Equal(t, "ut181a", cfg.Bridge.Instance)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	for _, content := range []string{
		"log:\n  level: loud\n",
		"log:\n  format: xml\n",
		"discovery:\n  timeout: -1s\n",
		"devices: [unterminated\n",
	} {
		_, err := LoadConfig(writeConfig(t, content))
		assert.Error(t, err, content)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	SetupLogging(LogConfig{Level: "warn", Format: "text"}, false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	SetupLogging(LogConfig{Level: "warn", Format: "json"}, true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	SetupLogging(LogConfig{Level: "bogus"}, false)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
