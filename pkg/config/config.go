// Package config loads the YAML configuration shared by ut181a and ut181a-bridge.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Devices   []string        `yaml:"devices"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Bridge    BridgeConfig    `yaml:"bridge"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DiscoveryConfig controls the mDNS lookup of bridges
type DiscoveryConfig struct {
	MDNS    bool          `yaml:"mdns"`
	Timeout time.Duration `yaml:"timeout"`
}

type SimulatorConfig struct {
	// Interval between two streamed readings of a sim:// device
	Interval time.Duration `yaml:"interval"`
}

type BridgeConfig struct {
	Listen    string `yaml:"listen"`
	Device    string `yaml:"device"`
	Advertise bool   `yaml:"advertise"`
	Instance  string `yaml:"instance"`
}

// GetDefaultConfig returns the configuration used when no file is present
func GetDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Discovery: DiscoveryConfig{
			MDNS:    false,
			Timeout: 2 * time.Second,
		},
		Simulator: SimulatorConfig{
			Interval: 500 * time.Millisecond,
		},
		Bridge: BridgeConfig{
			Listen:    ":8181",
			Advertise: true,
			Instance:  "ut181a",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/ut181a/config.yaml or its platform equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ut181a", "config.yaml")
}

// LoadConfig reads path over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("can not parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the file given with -config. Without one, the default path is
// read when it exists and the defaults are used otherwise.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	def := DefaultPath()
	if def == "" {
		return GetDefaultConfig(), nil
	}
	cfg, err := LoadConfig(def)
	if errors.Is(err, fs.ErrNotExist) {
		return GetDefaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Discovery.Timeout < 0 || c.Simulator.Interval < 0 {
		return errors.New("negative durations are not allowed")
	}
	return nil
}

// SetupLogging configures the standard logrus logger. Logs go to stderr,
// verbose forces debug level with full timestamps.
func SetupLogging(cfg LogConfig, verbose bool) {
	log.SetOutput(os.Stderr)

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
		return
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: verbose,
	})
}
